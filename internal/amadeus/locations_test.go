package amadeus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrSnakeDoc/flightscope/internal/domain"
	"github.com/MrSnakeDoc/flightscope/internal/logger"
)

type stubTokens struct {
	tok string
	err error
}

func (s stubTokens) Token(context.Context) (string, error) { return s.tok, s.err }

type memLocationCache struct {
	entries map[string][]domain.LocationResult
	writes  int
}

func (m *memLocationCache) GetCachedLocations(_ context.Context, k string) ([]domain.LocationResult, bool, error) {
	r, ok := m.entries[k]
	return r, ok, nil
}

func (m *memLocationCache) CacheLocations(_ context.Context, k string, r []domain.LocationResult, _ time.Duration) error {
	m.entries[k] = r
	m.writes++
	return nil
}

func locationServer(t *testing.T, calls *int32, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"data":[{"iataCode":"LHR","name":"HEATHROW","address":{"cityName":"LONDON","countryCode":"GB","cityCode":"LON"}}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLocationSearchShortKeyword(t *testing.T) {
	var calls int32
	srv := locationServer(t, &calls, http.StatusOK)
	s := NewLocationSearch(stubTokens{tok: "tok"}, newTestClient(srv.URL), nil, time.Hour, logger.NewNop())

	for _, kw := range []string{"", "L", " L "} {
		if got := s.Search(context.Background(), kw); got == nil || len(got) != 0 {
			t.Errorf("Search(%q) = %v, want empty", kw, got)
		}
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("short keywords reached the network")
	}
}

func TestLocationSearchDegradesToEmpty(t *testing.T) {
	var calls int32
	srv := locationServer(t, &calls, http.StatusInternalServerError)

	tests := []struct {
		name   string
		tokens Tokens
	}{
		{name: "token failure", tokens: stubTokens{err: domain.ErrAuthentication}},
		{name: "provider failure", tokens: stubTokens{tok: "tok"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewLocationSearch(tt.tokens, newTestClient(srv.URL), nil, time.Hour, logger.NewNop())
			if got := s.Search(context.Background(), "lon"); got == nil || len(got) != 0 {
				t.Errorf("Search() = %v, want empty", got)
			}
		})
	}
}

func TestLocationSearchUsesCache(t *testing.T) {
	var calls int32
	srv := locationServer(t, &calls, http.StatusOK)
	cache := &memLocationCache{entries: map[string][]domain.LocationResult{}}
	s := NewLocationSearch(stubTokens{tok: "tok"}, newTestClient(srv.URL), cache, time.Hour, logger.NewNop())

	first := s.Search(context.Background(), "Lon")
	second := s.Search(context.Background(), "lon")

	if len(first) != 1 || len(second) != 1 || second[0].IATACode != "LHR" {
		t.Fatalf("unexpected results %v / %v", first, second)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("provider calls = %d, want 1", got)
	}
	if cache.writes != 1 {
		t.Errorf("cache writes = %d, want 1", cache.writes)
	}
}
