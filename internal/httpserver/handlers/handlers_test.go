package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/flightscope/internal/carriers"
	"github.com/MrSnakeDoc/flightscope/internal/domain"
	"github.com/MrSnakeDoc/flightscope/internal/httpserver/deps"
	"github.com/MrSnakeDoc/flightscope/internal/logger"
	"github.com/MrSnakeDoc/flightscope/internal/pipeline"
	"github.com/MrSnakeDoc/flightscope/internal/session"
)

type fakeTokens struct {
	cleared int
	expiry  time.Time
}

func (f *fakeTokens) ClearToken() { f.cleared++; f.expiry = time.Time{} }

func (f *fakeTokens) Expiry() (time.Time, bool) { return f.expiry, !f.expiry.IsZero() }

type fakeSearcher struct {
	flights []domain.Flight
	err     error
}

func (f fakeSearcher) Search(_ context.Context, p domain.SearchParams) ([]domain.Flight, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return f.flights, f.err
}

type fakeLocations struct{ results []domain.LocationResult }

func (f fakeLocations) Search(context.Context, string) []domain.LocationResult { return f.results }

type fakeCache struct {
	err         error
	flushed     int
	invalidated []domain.SearchParams
}

func (f *fakeCache) Ping(context.Context) error { return f.err }

func (f *fakeCache) FlushCache(context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.flushed, nil
}

func (f *fakeCache) InvalidateSearch(_ context.Context, p domain.SearchParams) error {
	f.invalidated = append(f.invalidated, p)
	return f.err
}

var testFlights = []domain.Flight{
	{
		ID: "1", Price: 120.5, Airline: "AIR FRANCE", Stops: 0, Duration: "2h 0m", DurationMinutes: 120,
		Departure: domain.Endpoint{Time: "2025-01-17T08:00:00", Airport: "CDG"},
		Arrival:   domain.Endpoint{Time: "2025-01-17T09:00:00", Airport: "LHR"},
	},
	{
		ID: "2", Price: 95, Airline: "BRITISH AIRWAYS", Stops: 1, Duration: "3h 15m", DurationMinutes: 195,
		Departure: domain.Endpoint{Time: "2025-01-17T14:30:00", Airport: "CDG"},
		Arrival:   domain.Endpoint{Time: "2025-01-17T16:45:00", Airport: "LHR"},
	},
}

func newDeps(searcher session.Searcher) deps.Deps {
	return deps.Deps{
		Logger:      logger.NewNop(),
		StartTime:   time.Now(),
		Version:     "test",
		PageSize:    1,
		PricePolicy: "lenient",
		Tokens:      &fakeTokens{},
		Searcher:    searcher,
		Locations:   fakeLocations{},
		Sessions:    session.NewStore(0),
		Carriers:    carriers.NewDirectory(),
	}
}

// newRouter mounts the session endpoints the way the server does.
func newRouter(d deps.Deps) http.Handler {
	r := chi.NewRouter()
	r.Post("/sessions", CreateSession(d))
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", GetSession(d))
		r.Delete("/", DeleteSession(d))
		r.Post("/search", SearchSession(d))
		r.Patch("/filters", PatchFilters(d))
		r.Delete("/filters", ResetFilters(d))
		r.Get("/flights", Flights(d))
		r.Get("/prices", Prices(d))
	})
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return v
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/sessions", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, want 201", rec.Code)
	}
	id := decode[sessionCreatedResponse](t, rec).ID
	if id == "" {
		t.Fatal("create: empty id")
	}
	return id
}

const searchBody = `{"origin":"cdg","destination":"lhr","departureDate":"2025-01-17"}`

func TestSessionBrowseFlow(t *testing.T) {
	h := newRouter(newDeps(fakeSearcher{flights: testFlights}))
	id := createSession(t, h)
	base := "/sessions/" + id

	rec := do(t, h, http.MethodPost, base+"/search", searchBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("search: status = %d, want 200", rec.Code)
	}
	res := decode[searchResponse](t, rec)
	if res.Outcome != pipeline.OutcomeResults || res.TotalFlights != 2 {
		t.Fatalf("search: outcome=%s total=%d, want results/2", res.Outcome, res.TotalFlights)
	}
	if res.Search.Origin != "CDG" || res.Search.Adults != 1 {
		t.Errorf("search params not normalized: %+v", res.Search)
	}

	rec = do(t, h, http.MethodPatch, base+"/filters", `{"maxPrice":100}`)
	snap := decode[snapshotResponse](t, rec)
	if !snap.FiltersActive {
		t.Error("filters: filtersActive = false after a maxPrice patch")
	}
	if snap.FilteredCount != 1 || snap.AveragePrice != 95 {
		t.Fatalf("filters: filtered=%d avg=%d, want 1/95", snap.FilteredCount, snap.AveragePrice)
	}
	if len(snap.Airlines) != 2 || snap.PriceRange != (domain.PriceRange{Min: 95, Max: 121}) {
		t.Errorf("airlines/range should cover all flights: %v %+v", snap.Airlines, snap.PriceRange)
	}

	prices := decode[pricesResponse](t, do(t, h, http.MethodGet, base+"/prices", ""))
	if len(prices.PriceData) != 1 || prices.PriceData[0].Label != "BRITISH AIRWAYS" {
		t.Errorf("prices = %+v", prices.PriceData)
	}

	snap = decode[snapshotResponse](t, do(t, h, http.MethodDelete, base+"/filters", ""))
	if snap.FilteredCount != 2 || snap.Filters.Active() || snap.FiltersActive {
		t.Errorf("reset: filtered=%d filters=%+v", snap.FilteredCount, snap.Filters)
	}

	if got := decode[snapshotResponse](t, do(t, h, http.MethodGet, base, "")).Status; got != domain.StatusSuccess {
		t.Errorf("first read status = %s, want success", got)
	}
	if got := decode[snapshotResponse](t, do(t, h, http.MethodGet, base, "")).Status; got != domain.StatusIdle {
		t.Errorf("second read status = %s, want idle", got)
	}

	if rec := do(t, h, http.MethodDelete, base, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d, want 204", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, base, ""); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: status = %d, want 404", rec.Code)
	}
}

func TestFlightsSortedAndPaginated(t *testing.T) {
	h := newRouter(newDeps(fakeSearcher{flights: testFlights}))
	base := "/sessions/" + createSession(t, h)
	do(t, h, http.MethodPost, base+"/search", searchBody)

	res := decode[flightsResponse](t, do(t, h, http.MethodGet, base+"/flights", ""))
	if res.Sort != domain.SortPriceAsc || res.TotalPages != 2 || len(res.Items) != 1 {
		t.Fatalf("default page = %+v", res)
	}
	first := res.Items[0]
	if first.ID != "2" || first.DepartureTime != "2:30 PM" || first.ArrivalDate != "Jan 17" {
		t.Errorf("first item = %+v, want the $95 flight with formatted times", first)
	}

	res = decode[flightsResponse](t, do(t, h, http.MethodGet, base+"/flights?sort=price-desc&page=2", ""))
	if res.Page != 2 || res.Items[0].ID != "2" {
		t.Errorf("page 2 of price-desc = %+v", res)
	}

	if rec := do(t, h, http.MethodGet, base+"/flights?sort=cheapest", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown sort: status = %d, want 400", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, base+"/flights?page=x", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad page: status = %d, want 400", rec.Code)
	}
}

func TestSearchSessionFailures(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		h := newRouter(newDeps(fakeSearcher{flights: testFlights}))
		base := "/sessions/" + createSession(t, h)

		rec := do(t, h, http.MethodPost, base+"/search", `{"origin":"CDG","destination":"LHR"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		res := decode[searchResponse](t, rec)
		if res.Outcome != pipeline.OutcomeError || res.Field != "departureDate" {
			t.Errorf("response = %+v", res)
		}
	})

	t.Run("provider", func(t *testing.T) {
		err := &domain.SearchError{Status: http.StatusBadRequest, Detail: "No flights available"}
		h := newRouter(newDeps(fakeSearcher{err: err}))
		base := "/sessions/" + createSession(t, h)

		rec := do(t, h, http.MethodPost, base+"/search", searchBody)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		res := decode[searchResponse](t, rec)
		if res.Outcome != pipeline.OutcomeError || res.Error != "No flights available" || res.Status != domain.StatusFailed {
			t.Errorf("response = %+v", res)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		h := newRouter(newDeps(fakeSearcher{}))
		base := "/sessions/" + createSession(t, h)
		if rec := do(t, h, http.MethodPost, base+"/search", `{"origin":`); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		h := newRouter(newDeps(fakeSearcher{}))
		if rec := do(t, h, http.MethodPost, "/sessions/nope/search", searchBody); rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestReload(t *testing.T) {
	d := newDeps(fakeSearcher{})
	if rec := do(t, Reload(d), http.MethodPost, "/reload", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("disabled: status = %d, want 503", rec.Code)
	}

	d.ReloadTrigger = make(chan struct{}, 1)
	if rec := do(t, Reload(d), http.MethodPost, "/reload", ""); rec.Code != http.StatusAccepted {
		t.Errorf("first: status = %d, want 202", rec.Code)
	}
	if rec := do(t, Reload(d), http.MethodPost, "/reload", ""); rec.Code != http.StatusTooManyRequests {
		t.Errorf("second: status = %d, want 429", rec.Code)
	}
}

func TestRefreshToken(t *testing.T) {
	d := newDeps(fakeSearcher{})
	tokens := &fakeTokens{expiry: time.Now().Add(time.Hour)}
	d.Tokens = tokens

	if rec := do(t, RefreshToken(d), http.MethodPost, "/api/token/refresh", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if tokens.cleared != 1 {
		t.Errorf("ClearToken calls = %d, want 1", tokens.cleared)
	}
}

func TestLocationsAlwaysOK(t *testing.T) {
	d := newDeps(fakeSearcher{})
	d.Locations = fakeLocations{results: []domain.LocationResult{{IATACode: "LHR", Name: "HEATHROW"}}}

	rec := do(t, Locations(d), http.MethodGet, "/api/locations?keyword=lon", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	res := decode[locationsResponse](t, rec)
	if res.Keyword != "lon" || len(res.Results) != 1 {
		t.Errorf("response = %+v", res)
	}
}

func TestReadyz(t *testing.T) {
	d := newDeps(fakeSearcher{})
	if rec := do(t, Readyz(d), http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Errorf("no carrier file: status = %d, want 200", rec.Code)
	}

	d.CarrierFile = "carriers.yaml"
	if rec := do(t, Readyz(d), http.MethodGet, "/readyz", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("not loaded: status = %d, want 503", rec.Code)
	}

	d.Carriers.Replace(map[string]string{"AF": "AIR FRANCE"})
	if rec := do(t, Readyz(d), http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Errorf("loaded: status = %d, want 200", rec.Code)
	}
}

func TestInfraMode(t *testing.T) {
	d := newDeps(fakeSearcher{})
	if _, err := d.Sessions.Create(); err != nil {
		t.Fatal(err)
	}

	res := decode[infraResponse](t, do(t, Infra(d), http.MethodGet, "/infra", ""))
	if res.Mode != "optimal" {
		t.Errorf("without cache: mode = %s, want optimal", res.Mode)
	}
	if res.Components["cache"].Mode != "disabled" || res.Sessions["total"] != 1 || res.Sessions["idle"] != 1 {
		t.Errorf("response = %+v", res)
	}

	d.Cache = &fakeCache{err: errors.New("connection refused")}
	res = decode[infraResponse](t, do(t, Infra(d), http.MethodGet, "/infra", ""))
	if res.Mode != "degraded" || res.Components["cache"].Error == "" {
		t.Errorf("failing cache: response = %+v", res)
	}
}

func TestHealthz(t *testing.T) {
	rec := do(t, Healthz(newDeps(fakeSearcher{})), http.MethodGet, "/healthz", "")
	res := decode[healthzResponse](t, rec)
	if rec.Code != http.StatusOK || res.Status != "ok" || res.Version != "test" {
		t.Errorf("response = %d %+v", rec.Code, res)
	}
}

func TestCreateSessionStoreFull(t *testing.T) {
	d := newDeps(fakeSearcher{})
	d.Sessions = session.NewStore(1)
	h := newRouter(d)
	createSession(t, h)

	rec := do(t, h, http.MethodPost, "/sessions", "")
	if rec.Code != http.StatusServiceUnavailable || rec.Header().Get("Retry-After") == "" {
		t.Errorf("full store: status = %d retry-after = %q", rec.Code, rec.Header().Get("Retry-After"))
	}
	if n := d.Sessions.Count(); n != 1 {
		t.Errorf("sessions = %d, want 1", n)
	}
}

func TestPatchFiltersRejectsUnknownStopBucket(t *testing.T) {
	h := newRouter(newDeps(fakeSearcher{flights: testFlights}))
	base := "/sessions/" + createSession(t, h)

	for _, body := range []string{`{"stops":[3]}`, `{"stops":[0,-1]}`} {
		rec := do(t, h, http.MethodPatch, base+"/filters", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", body, rec.Code)
			continue
		}
		if res := decode[errorResponse](t, rec); res.Field != "stops" {
			t.Errorf("%s: field = %q, want stops", body, res.Field)
		}
	}

	rec := do(t, h, http.MethodPatch, base+"/filters", `{"stops":[0,2]}`)
	if rec.Code != http.StatusOK {
		t.Errorf("valid buckets: status = %d, want 200", rec.Code)
	}
}

func TestFlushCache(t *testing.T) {
	d := newDeps(fakeSearcher{})
	if rec := do(t, FlushCache(d), http.MethodDelete, "/api/cache", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("no cache: status = %d, want 503", rec.Code)
	}

	d.Cache = &fakeCache{flushed: 3}
	rec := do(t, FlushCache(d), http.MethodDelete, "/api/cache", "")
	if rec.Code != http.StatusOK || decode[flushResponse](t, rec).Deleted != 3 {
		t.Errorf("flush: status = %d", rec.Code)
	}

	d.Cache = &fakeCache{err: errors.New("connection refused")}
	if rec := do(t, FlushCache(d), http.MethodDelete, "/api/cache", ""); rec.Code != http.StatusInternalServerError {
		t.Errorf("failing cache: status = %d, want 500", rec.Code)
	}
}

func TestInvalidateSearch(t *testing.T) {
	cache := &fakeCache{}
	d := newDeps(fakeSearcher{})
	d.Cache = cache

	rec := do(t, InvalidateSearch(d), http.MethodDelete, "/api/cache/search?origin=cdg&destination=lhr", "")
	if rec.Code != http.StatusBadRequest || decode[errorResponse](t, rec).Field != "departureDate" {
		t.Errorf("missing date: status = %d", rec.Code)
	}
	rec = do(t, InvalidateSearch(d), http.MethodDelete, "/api/cache/search?origin=cdg&destination=lhr&departureDate=2025-01-17&adults=two", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad adults: status = %d, want 400", rec.Code)
	}
	if len(cache.invalidated) != 0 {
		t.Fatalf("invalid requests reached the cache: %+v", cache.invalidated)
	}

	rec = do(t, InvalidateSearch(d), http.MethodDelete, "/api/cache/search?origin=cdg&destination=lhr&departureDate=2025-01-17", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("invalidate: status = %d, want 204", rec.Code)
	}
	want := domain.SearchParams{Origin: "CDG", Destination: "LHR", DepartureDate: "2025-01-17", Adults: 1}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != want {
		t.Errorf("invalidated = %+v, want %+v", cache.invalidated, want)
	}
}
