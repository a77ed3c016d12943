package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/flightscope/internal/domain"
	"github.com/MrSnakeDoc/flightscope/internal/logger"
	"github.com/MrSnakeDoc/flightscope/internal/utils"
)

const (
	offersPath    = "/v2/shopping/flight-offers"
	locationsPath = "/v1/reference-data/locations"

	// maxErrorBody caps how much of a failed response is read for its detail.
	maxErrorBody = 64 << 10
)

// Client issues authenticated requests to the provider. It does not manage
// tokens; callers pass the bearer token they obtained.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	maxResults    int
	locationLimit int
	log           logger.Logger
}

// ClientOptions tunes request parameters.
type ClientOptions struct {
	MaxResults    int // "max" of flight-offers (default 50)
	LocationLimit int // "page[limit]" of locations (default 10)
}

func NewClient(httpClient *http.Client, baseURL string, opts ClientOptions, log logger.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if opts.MaxResults < 1 {
		opts.MaxResults = 50
	}
	if opts.LocationLimit < 1 {
		opts.LocationLimit = 10
	}
	return &Client{
		httpClient:    httpClient,
		baseURL:       strings.TrimRight(baseURL, "/"),
		maxResults:    opts.MaxResults,
		locationLimit: opts.LocationLimit,
		log:           log,
	}
}

// SearchOffers runs a flight-offers search. Any non-2xx status or transport
// failure is returned as a *domain.SearchError.
func (c *Client) SearchOffers(ctx context.Context, token string, params domain.SearchParams) (*OffersResponse, error) {
	q := url.Values{}
	q.Set("originLocationCode", params.Origin)
	q.Set("destinationLocationCode", params.Destination)
	q.Set("departureDate", params.DepartureDate)
	q.Set("adults", strconv.Itoa(params.Adults))
	q.Set("max", strconv.Itoa(c.maxResults))
	if params.ReturnDate != "" {
		q.Set("returnDate", params.ReturnDate)
	}

	var out OffersResponse
	if err := c.get(ctx, token, offersPath, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchLocations looks up airports and cities matching keyword.
func (c *Client) SearchLocations(ctx context.Context, token, keyword string) ([]domain.LocationResult, error) {
	q := url.Values{}
	q.Set("subType", "AIRPORT,CITY")
	q.Set("keyword", keyword)
	q.Set("page[limit]", strconv.Itoa(c.locationLimit))

	var body locationsResponse
	if err := c.get(ctx, token, locationsPath, q, &body); err != nil {
		return nil, err
	}

	out := make([]domain.LocationResult, 0, len(body.Data))
	for _, loc := range body.Data {
		out = append(out, toLocationResult(loc))
	}
	return out, nil
}

func toLocationResult(loc location) domain.LocationResult {
	res := domain.LocationResult{
		IATACode:    loc.IATACode,
		Name:        loc.Name,
		CityName:    loc.Address.CityName,
		CountryCode: loc.Address.CountryCode,
		CityCode:    loc.Address.CityCode,
	}
	if res.CityName == "" {
		res.CityName = loc.Name
	}
	if res.CityCode == "" {
		res.CityCode = loc.IATACode
	}
	return res
}

func (c *Client) get(ctx context.Context, token, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return &domain.SearchError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("provider request failed",
			logger.String("path", path),
			logger.Error(err))
		return &domain.SearchError{Err: err}
	}
	defer utils.DrainClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := readErrorDetail(resp.Body)
		c.log.Warn("provider request rejected",
			logger.String("path", path),
			logger.Int("status", resp.StatusCode),
			logger.String("detail", detail))
		return &domain.SearchError{
			Status: resp.StatusCode,
			Detail: detail,
			Err:    fmt.Errorf("provider returned status %d", resp.StatusCode),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.SearchError{Status: resp.StatusCode, Err: fmt.Errorf("decode %s: %w", path, err)}
	}
	return nil
}

// readErrorDetail extracts errors[0].detail, or "" if the body has none.
func readErrorDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var e errorResponse
	if err := json.Unmarshal(raw, &e); err != nil {
		return ""
	}
	return e.detail()
}
