package domain

import (
	"reflect"
	"testing"
)

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("Aggregate(nil) = %#v, want empty slice", got)
	}
}

func TestAggregateSingleAirline(t *testing.T) {
	flights := []Flight{
		{Airline: "KLM", Price: 100},
		{Airline: "KLM", Price: 101},
		{Airline: "KLM", Price: 102.5},
	}

	got := Aggregate(flights)

	want := []PricePoint{{Label: "KLM", Price: 101, Count: 3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Aggregate() = %v, want %v", got, want)
	}
}

func TestAggregateSortsByMeanAndKeepsTieOrder(t *testing.T) {
	flights := []Flight{
		{Airline: "Iberia", Price: 300},
		{Airline: "KLM", Price: 200},
		{Airline: "Air France", Price: 100},
		{Airline: "Iberia", Price: 100},
		{Airline: "Lufthansa", Price: 200},
	}

	got := Aggregate(flights)

	want := []PricePoint{
		{Label: "Air France", Price: 100, Count: 1},
		{Label: "Iberia", Price: 200, Count: 2},
		{Label: "KLM", Price: 200, Count: 1},
		{Label: "Lufthansa", Price: 200, Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Aggregate() = %v, want %v", got, want)
	}
}

func TestAggregateRoundsHalfUp(t *testing.T) {
	got := Aggregate([]Flight{{Airline: "A", Price: 100}, {Airline: "A", Price: 101}})
	if got[0].Price != 101 {
		t.Errorf("Aggregate() price = %d, want 101", got[0].Price)
	}
}

func TestPriceRangeOf(t *testing.T) {
	if got := PriceRangeOf(nil); got != DefaultPriceRange {
		t.Errorf("PriceRangeOf(nil) = %v, want %v", got, DefaultPriceRange)
	}

	got := PriceRangeOf([]Flight{{Price: 95.4}, {Price: 120.5}, {Price: 99}})
	want := PriceRange{Min: 95, Max: 121}
	if got != want {
		t.Errorf("PriceRangeOf() = %v, want %v", got, want)
	}
}

func TestAveragePrice(t *testing.T) {
	if got := AveragePrice(nil); got != 0 {
		t.Errorf("AveragePrice(nil) = %d, want 0", got)
	}
	if got := AveragePrice([]Flight{{Price: 120.5}, {Price: 95}}); got != 108 {
		t.Errorf("AveragePrice() = %d, want 108", got)
	}
}

func TestAvailableAirlines(t *testing.T) {
	got := AvailableAirlines(sampleFlights())
	want := []string{"Air France", "KLM", "Lufthansa"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AvailableAirlines() = %v, want %v", got, want)
	}
}
