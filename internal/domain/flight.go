package domain

import "strings"

// Endpoint is one end of a flight: when and where.
type Endpoint struct {
	// Time is the ISO-8601 local timestamp reported by the provider.
	// Example: 2025-03-14T08:35:00
	Time string `json:"time"`

	// Airport is the IATA airport code.
	// Example: CDG
	Airport string `json:"airport"`
}

// Flight is the normalized view of one provider offer.
//
// A Flight is never mutated once built. Filter, sort and aggregation
// produce new slices and leave their input untouched.
type Flight struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ID is the provider-assigned offer ID, unique within one result set.
	ID string `json:"id"`

	// ─────────────────────────────
	// Pricing & carrier
	// ─────────────────────────────

	// Price is the total offer price. Always finite and >= 0.
	Price float64 `json:"price"`

	// Airline is the carrier display name, or the raw carrier code
	// when no name is known.
	Airline string `json:"airline"`

	// ─────────────────────────────
	// Shape of the journey
	// ─────────────────────────────

	// Stops is segmentCount - 1 for the outbound itinerary.
	Stops int `json:"stops"`

	// Duration is the display form, e.g. "2h 30m".
	Duration string `json:"duration"`

	// DurationMinutes is the structured duration used for sorting.
	DurationMinutes int `json:"durationMinutes"`

	Departure Endpoint `json:"departure"`
	Arrival   Endpoint `json:"arrival"`
}

// SearchParams is what the user searches for.
type SearchParams struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departureDate"`
	ReturnDate    string `json:"returnDate,omitempty"`
	Adults        int    `json:"adults"`
}

// Normalize upper-cases airport codes, trims every field and defaults
// Adults to one passenger.
func (p SearchParams) Normalize() SearchParams {
	p.Origin = strings.ToUpper(strings.TrimSpace(p.Origin))
	p.Destination = strings.ToUpper(strings.TrimSpace(p.Destination))
	p.DepartureDate = strings.TrimSpace(p.DepartureDate)
	p.ReturnDate = strings.TrimSpace(p.ReturnDate)
	if p.Adults < 1 {
		p.Adults = 1
	}
	return p
}

// Validate reports the first missing required parameter.
func (p SearchParams) Validate() error {
	switch {
	case strings.TrimSpace(p.Origin) == "":
		return &ValidationError{Field: "origin"}
	case strings.TrimSpace(p.Destination) == "":
		return &ValidationError{Field: "destination"}
	case strings.TrimSpace(p.DepartureDate) == "":
		return &ValidationError{Field: "departureDate"}
	}
	return nil
}

// LocationResult is one airport or city suggestion.
type LocationResult struct {
	IATACode    string `json:"iataCode"`
	Name        string `json:"name"`
	CityName    string `json:"cityName"`
	CountryCode string `json:"countryCode"`
	CityCode    string `json:"cityCode"`
}

// PricePoint is one bar of the price graph: the mean price of an airline.
type PricePoint struct {
	Label string `json:"label"`
	Price int    `json:"price"`
	Count int    `json:"count"`
}
