package domain

import (
	"math"
	"sort"
)

// Aggregate groups flights by airline and returns the rounded mean price
// of each group, cheapest first. Groups with equal means keep the order in
// which their airline was first seen.
func Aggregate(flights []Flight) []PricePoint {
	if len(flights) == 0 {
		return []PricePoint{}
	}

	type group struct {
		total float64
		count int
	}
	groups := make(map[string]*group)
	order := make([]string, 0)

	for _, f := range flights {
		g, ok := groups[f.Airline]
		if !ok {
			g = &group{}
			groups[f.Airline] = g
			order = append(order, f.Airline)
		}
		g.total += f.Price
		g.count++
	}

	points := make([]PricePoint, 0, len(order))
	for _, airline := range order {
		g := groups[airline]
		points = append(points, PricePoint{
			Label: airline,
			Price: int(math.Round(g.total / float64(g.count))),
			Count: g.count,
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Price < points[j].Price
	})
	return points
}

// PriceRange is the slider range of the filter panel.
type PriceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DefaultPriceRange is used before any flight is loaded.
var DefaultPriceRange = PriceRange{Min: 0, Max: 1000}

// PriceRangeOf returns floor(min price) and ceil(max price).
func PriceRangeOf(flights []Flight) PriceRange {
	if len(flights) == 0 {
		return DefaultPriceRange
	}
	lo, hi := flights[0].Price, flights[0].Price
	for _, f := range flights[1:] {
		lo = math.Min(lo, f.Price)
		hi = math.Max(hi, f.Price)
	}
	return PriceRange{Min: int(math.Floor(lo)), Max: int(math.Ceil(hi))}
}

// AveragePrice returns the rounded mean price, 0 for no flights.
func AveragePrice(flights []Flight) int {
	if len(flights) == 0 {
		return 0
	}
	total := 0.0
	for _, f := range flights {
		total += f.Price
	}
	return int(math.Round(total / float64(len(flights))))
}

// AvailableAirlines returns the distinct airline names, sorted.
func AvailableAirlines(flights []Flight) []string {
	seen := make(map[string]bool, len(flights))
	airlines := make([]string, 0)
	for _, f := range flights {
		if seen[f.Airline] {
			continue
		}
		seen[f.Airline] = true
		airlines = append(airlines, f.Airline)
	}
	sort.Strings(airlines)
	return airlines
}
