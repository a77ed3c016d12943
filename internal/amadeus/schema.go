package amadeus

// Wire shapes of the provider responses. Only the fields the pipeline reads
// are declared.

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// OffersResponse is the body of a flight-offers search.
type OffersResponse struct {
	Data         []Offer      `json:"data"`
	Dictionaries Dictionaries `json:"dictionaries"`
}

// Dictionaries maps codes found in offers to display names.
type Dictionaries struct {
	Carriers map[string]string `json:"carriers"`
}

type Offer struct {
	ID          string      `json:"id"`
	Itineraries []Itinerary `json:"itineraries"`
	Price       Price       `json:"price"`
}

type Itinerary struct {
	Duration string    `json:"duration"`
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Departure   SegmentEndpoint `json:"departure"`
	Arrival     SegmentEndpoint `json:"arrival"`
	CarrierCode string          `json:"carrierCode"`
}

type SegmentEndpoint struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at"`
}

// Price.Total is a decimal string, e.g. "120.50".
type Price struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

type locationsResponse struct {
	Data []location `json:"data"`
}

type location struct {
	IATACode string          `json:"iataCode"`
	Name     string          `json:"name"`
	Address  locationAddress `json:"address"`
}

type locationAddress struct {
	CityName    string `json:"cityName"`
	CountryCode string `json:"countryCode"`
	CityCode    string `json:"cityCode"`
}

type errorResponse struct {
	Errors []struct {
		Status int    `json:"status"`
		Code   int    `json:"code"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

// detail returns the first error detail, or "".
func (e errorResponse) detail() string {
	if len(e.Errors) == 0 {
		return ""
	}
	return e.Errors[0].Detail
}
