package domain

import (
	"fmt"
	"sort"
)

// SortPolicy selects the comparator used by SortFlights.
type SortPolicy string

const (
	SortPriceAsc    SortPolicy = "price-asc"
	SortPriceDesc   SortPolicy = "price-desc"
	SortDurationAsc SortPolicy = "duration-asc"
	SortStopsAsc    SortPolicy = "stops-asc"

	// DefaultSortPolicy is what the results list starts with.
	DefaultSortPolicy = SortPriceAsc
)

// ParseSortPolicy maps a query value to a policy. Empty means the default.
func ParseSortPolicy(s string) (SortPolicy, error) {
	switch p := SortPolicy(s); p {
	case "":
		return DefaultSortPolicy, nil
	case SortPriceAsc, SortPriceDesc, SortDurationAsc, SortStopsAsc:
		return p, nil
	default:
		return "", fmt.Errorf("unknown sort policy %q", s)
	}
}

// SortFlights returns a stably sorted copy of flights. An unknown policy
// returns the copy in input order.
func SortFlights(flights []Flight, policy SortPolicy) []Flight {
	out := make([]Flight, len(flights))
	copy(out, flights)

	var less func(i, j int) bool
	switch policy {
	case SortPriceAsc:
		less = func(i, j int) bool { return out[i].Price < out[j].Price }
	case SortPriceDesc:
		less = func(i, j int) bool { return out[i].Price > out[j].Price }
	case SortDurationAsc:
		less = func(i, j int) bool { return out[i].DurationMinutes < out[j].DurationMinutes }
	case SortStopsAsc:
		less = func(i, j int) bool { return out[i].Stops < out[j].Stops }
	default:
		return out
	}

	sort.SliceStable(out, less)
	return out
}
