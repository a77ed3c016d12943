package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/flightscope/internal/carriers"
	"github.com/MrSnakeDoc/flightscope/internal/domain"
	"github.com/MrSnakeDoc/flightscope/internal/logger"
	"github.com/MrSnakeDoc/flightscope/internal/session"
)

// TokenCache is the provider token cache as seen by the admin endpoints.
type TokenCache interface {
	ClearToken()
	Expiry() (time.Time, bool)
}

// LocationSearcher backs the airport autocomplete.
type LocationSearcher interface {
	Search(ctx context.Context, keyword string) []domain.LocationResult
}

// CacheAdmin is the search cache as seen by /infra and the admin endpoints.
type CacheAdmin interface {
	Ping(ctx context.Context) error
	FlushCache(ctx context.Context) (int, error)
	InvalidateSearch(ctx context.Context, params domain.SearchParams) error
}

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	AllowedHosts []string // Host headers allowed on admin endpoints
	AllowedCIDRS []string // IPs allowed on admin endpoints (admin routes are off when both lists are empty)
	TrustProxy   bool     // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RateBurst    int      // per-IP burst on provider-backed endpoints
	RatePerMin   int      // per-IP refill on provider-backed endpoints
	PageSize     int      // flights per results page
	PricePolicy  string   // reported by /infra

	Tokens    TokenCache
	Searcher  session.Searcher
	Locations LocationSearcher
	Sessions  *session.Store
	Carriers  *carriers.Directory
	Cache     CacheAdmin // nil when Redis is not configured

	CarrierFile   string        // empty when the carrier directory is disabled
	ReloadTrigger chan struct{} // manual carrier reload (nil when disabled)
}
