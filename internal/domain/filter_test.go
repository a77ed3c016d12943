package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func ids(flights []Flight) []string {
	out := make([]string, 0, len(flights))
	for _, f := range flights {
		out = append(out, f.ID)
	}
	return out
}

func sampleFlights() []Flight {
	return []Flight{
		{ID: "1", Price: 120.50, Airline: "Air France", Stops: 0},
		{ID: "2", Price: 95.00, Airline: "Lufthansa", Stops: 1},
		{ID: "3", Price: 310.00, Airline: "Air France", Stops: 2},
		{ID: "4", Price: 450.00, Airline: "KLM", Stops: 3},
		{ID: "5", Price: 100.00, Airline: "KLM", Stops: 0},
	}
}

func TestApplyFiltersWithoutConstraintsIsIdentity(t *testing.T) {
	flights := sampleFlights()

	got := ApplyFilters(flights, FlightFilters{})

	if !reflect.DeepEqual(got, flights) {
		t.Errorf("ApplyFilters(flights, {}) = %v, want input unchanged", ids(got))
	}
}

func TestApplyFilters(t *testing.T) {
	tests := []struct {
		name    string
		filters FlightFilters
		want    []string
	}{
		{
			name:    "max price is inclusive",
			filters: FlightFilters{MaxPrice: ptr(100)},
			want:    []string{"2", "5"},
		},
		{
			name:    "min price is inclusive",
			filters: FlightFilters{MinPrice: ptr(310)},
			want:    []string{"3", "4"},
		},
		{
			name:    "price window",
			filters: FlightFilters{MinPrice: ptr(100), MaxPrice: ptr(310)},
			want:    []string{"1", "3", "5"},
		},
		{
			name:    "bucket two means two or more",
			filters: FlightFilters{Stops: []int{2}},
			want:    []string{"3", "4"},
		},
		{
			name:    "buckets are disjunctive",
			filters: FlightFilters{Stops: []int{0, 1}},
			want:    []string{"1", "2", "5"},
		},
		{
			name:    "airlines are disjunctive",
			filters: FlightFilters{Airlines: []string{"KLM", "Lufthansa"}},
			want:    []string{"2", "4", "5"},
		},
		{
			name:    "airline match is exact",
			filters: FlightFilters{Airlines: []string{"klm"}},
			want:    []string{},
		},
		{
			name:    "dimensions are conjunctive",
			filters: FlightFilters{Airlines: []string{"Air France"}, Stops: []int{0}, MaxPrice: ptr(200)},
			want:    []string{"1"},
		},
		{
			name:    "empty lists impose nothing",
			filters: FlightFilters{Stops: []int{}, Airlines: []string{}},
			want:    []string{"1", "2", "3", "4", "5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(ApplyFilters(sampleFlights(), tt.filters))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ApplyFilters() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyFiltersDoesNotMutateInput(t *testing.T) {
	flights := sampleFlights()
	before := ids(flights)

	_ = ApplyFilters(flights, FlightFilters{MaxPrice: ptr(50)})

	if got := ids(flights); !reflect.DeepEqual(got, before) {
		t.Errorf("input changed to %v, want %v", got, before)
	}
}

func TestMatchesExcludesOneAndZeroStopsForBucketTwo(t *testing.T) {
	filters := FlightFilters{Stops: []int{2}}
	for stops := 0; stops <= 5; stops++ {
		got := Matches(Flight{Stops: stops}, filters)
		want := stops >= 2
		if got != want {
			t.Errorf("Matches(stops=%d) = %v, want %v", stops, got, want)
		}
	}
}

func TestMergeFilters(t *testing.T) {
	prev := FlightFilters{MaxPrice: ptr(300), Stops: []int{0}}

	t.Run("absent fields are kept", func(t *testing.T) {
		got := MergeFilters(prev, FilterPatch{Airlines: Set([]string{"KLM"})})
		if got.MaxPrice == nil || *got.MaxPrice != 300 {
			t.Errorf("MaxPrice = %v, want 300", got.MaxPrice)
		}
		if !reflect.DeepEqual(got.Stops, []int{0}) {
			t.Errorf("Stops = %v, want [0]", got.Stops)
		}
		if !reflect.DeepEqual(got.Airlines, []string{"KLM"}) {
			t.Errorf("Airlines = %v, want [KLM]", got.Airlines)
		}
	})

	t.Run("clear removes the constraint", func(t *testing.T) {
		got := MergeFilters(prev, FilterPatch{MaxPrice: Clear[float64]()})
		if got.MaxPrice != nil {
			t.Errorf("MaxPrice = %v, want nil", *got.MaxPrice)
		}
	})

	t.Run("empty list clears the dimension", func(t *testing.T) {
		got := MergeFilters(prev, FilterPatch{Stops: Set([]int{})})
		if got.Stops != nil {
			t.Errorf("Stops = %v, want nil", got.Stops)
		}
	})

	t.Run("previous state is not aliased", func(t *testing.T) {
		got := MergeFilters(prev, FilterPatch{})
		got.Stops[0] = 9
		if prev.Stops[0] != 0 {
			t.Errorf("prev.Stops mutated to %v", prev.Stops)
		}
	})
}

func TestFilterPatchJSON(t *testing.T) {
	var patch FilterPatch
	body := `{"maxPrice": 250, "stops": null}`
	if err := json.Unmarshal([]byte(body), &patch); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if !patch.MaxPrice.Present || patch.MaxPrice.Null || patch.MaxPrice.Value != 250 {
		t.Errorf("MaxPrice = %+v, want present 250", patch.MaxPrice)
	}
	if !patch.Stops.Present || !patch.Stops.Null {
		t.Errorf("Stops = %+v, want present null", patch.Stops)
	}
	if patch.MinPrice.Present || patch.Airlines.Present {
		t.Errorf("absent fields reported present: %+v", patch)
	}
}

func TestFilterPatchValidate(t *testing.T) {
	tests := []struct {
		name    string
		patch   FilterPatch
		wantErr bool
	}{
		{name: "empty patch", patch: FilterPatch{}},
		{name: "known buckets", patch: FilterPatch{Stops: Set([]int{0, 1, 2})}},
		{name: "cleared stops", patch: FilterPatch{Stops: Clear[[]int]()}},
		{name: "bucket above two", patch: FilterPatch{Stops: Set([]int{0, 3})}, wantErr: true},
		{name: "negative bucket", patch: FilterPatch{Stops: Set([]int{-1})}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.patch.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
