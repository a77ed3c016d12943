package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// StopsTwoOrMore is the stop bucket that matches any flight with >= 2 stops.
const StopsTwoOrMore = 2

// FlightFilters is the active filter state. A nil or empty field imposes
// no constraint on its dimension.
type FlightFilters struct {
	MinPrice *float64 `json:"minPrice,omitempty"`
	MaxPrice *float64 `json:"maxPrice,omitempty"`
	Stops    []int    `json:"stops,omitempty"`
	Airlines []string `json:"airlines,omitempty"`
}

// Active reports whether any dimension is constrained.
func (f FlightFilters) Active() bool {
	return f.MinPrice != nil || f.MaxPrice != nil || len(f.Stops) > 0 || len(f.Airlines) > 0
}

// Field is one entry of a FilterPatch.
//
// Present is false when the field was not part of the update and the prior
// value must be kept. Present with Null clears the dimension.
type Field[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// Set returns a Field that replaces the prior value with v.
func Set[T any](v T) Field[T] { return Field[T]{Present: true, Value: v} }

// Clear returns a Field that removes the constraint.
func Clear[T any]() Field[T] { return Field[T]{Present: true, Null: true} }

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

// FilterPatch is a partial filter update, shallow-merged over the prior state.
type FilterPatch struct {
	MinPrice Field[float64]  `json:"minPrice"`
	MaxPrice Field[float64]  `json:"maxPrice"`
	Stops    Field[[]int]    `json:"stops"`
	Airlines Field[[]string] `json:"airlines"`
}

// Validate rejects stop buckets other than 0, 1 and StopsTwoOrMore.
func (p FilterPatch) Validate() error {
	if !p.Stops.Present || p.Stops.Null {
		return nil
	}
	for _, b := range p.Stops.Value {
		if b < 0 || b > StopsTwoOrMore {
			return fmt.Errorf("invalid stop bucket %d: want 0, 1 or %d", b, StopsTwoOrMore)
		}
	}
	return nil
}

// MergeFilters applies patch over prev and returns the new filter state.
// An empty stops or airlines list clears that dimension.
func MergeFilters(prev FlightFilters, patch FilterPatch) FlightFilters {
	next := FlightFilters{
		MinPrice: prev.MinPrice,
		MaxPrice: prev.MaxPrice,
		Stops:    slices.Clone(prev.Stops),
		Airlines: slices.Clone(prev.Airlines),
	}

	if p := patch.MinPrice; p.Present {
		next.MinPrice = nil
		if !p.Null {
			v := p.Value
			next.MinPrice = &v
		}
	}
	if p := patch.MaxPrice; p.Present {
		next.MaxPrice = nil
		if !p.Null {
			v := p.Value
			next.MaxPrice = &v
		}
	}
	if p := patch.Stops; p.Present {
		next.Stops = nil
		if !p.Null && len(p.Value) > 0 {
			next.Stops = slices.Clone(p.Value)
		}
	}
	if p := patch.Airlines; p.Present {
		next.Airlines = nil
		if !p.Null && len(p.Value) > 0 {
			next.Airlines = slices.Clone(p.Value)
		}
	}
	return next
}

// Matches reports whether f passes every active dimension of filters.
func Matches(f Flight, filters FlightFilters) bool {
	if !matchPrice(f, filters) {
		return false
	}
	if !matchStops(f, filters.Stops) {
		return false
	}
	return matchAirline(f, filters.Airlines)
}

// ApplyFilters returns the flights that match, in their original order.
// The result is never nil.
func ApplyFilters(flights []Flight, filters FlightFilters) []Flight {
	out := make([]Flight, 0, len(flights))
	for _, f := range flights {
		if Matches(f, filters) {
			out = append(out, f)
		}
	}
	return out
}

func matchPrice(f Flight, filters FlightFilters) bool {
	if filters.MaxPrice != nil && f.Price > *filters.MaxPrice {
		return false
	}
	if filters.MinPrice != nil && f.Price < *filters.MinPrice {
		return false
	}
	return true
}

func matchStops(f Flight, buckets []int) bool {
	if len(buckets) == 0 {
		return true
	}
	for _, b := range buckets {
		if b == StopsTwoOrMore && f.Stops >= StopsTwoOrMore {
			return true
		}
		if f.Stops == b {
			return true
		}
	}
	return false
}

func matchAirline(f Flight, airlines []string) bool {
	if len(airlines) == 0 {
		return true
	}
	return slices.Contains(airlines, f.Airline)
}
