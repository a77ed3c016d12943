package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline, must cover a provider round trip

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Flight provider
	AmadeusURL       string        // ex: "https://test.api.amadeus.com"
	AmadeusKey       string        // client_id
	AmadeusSecret    string        // client_secret
	AmadeusTimeout   time.Duration // upstream HTTP timeout
	SearchMaxResults int           // "max" parameter of flight-offers
	LocationLimit    int           // "page[limit]" parameter of locations
	PricePolicy      string        // "strict" | "lenient"

	// Browsing
	PageSize       int           // flights per results page
	MaxSessions    int           // cap on live browse sessions
	SessionIdleTTL time.Duration // idle browse sessions older than this are evicted
	GCInterval     time.Duration // session eviction interval

	// Carrier directory
	CarrierFile    string        // optional YAML of carrier code -> name (empty = disabled)
	ReloadInterval time.Duration // interval to reload CarrierFile

	// Cache TTLs (only used when Redis is configured)
	SearchCacheTTL   time.Duration
	LocationCacheTTL time.Duration

	// Redis (optional, empty RedisAddr disables caching)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	// Access
	AllowedHosts []string // optional, restrict admin endpoints to specific Host headers
	AllowedCIDRS []string // optional, restrict admin endpoints to specific IPs (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (only behind a proxy that overwrites them)
	CORSOrigins  []string // browser origins allowed to call the API
	RateBurst    int      // per-IP burst on search endpoints
	RatePerMin   int      // per-IP refill on search endpoints
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("FLIGHTSCOPE_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("FLIGHTSCOPE_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("FLIGHTSCOPE_REQUEST_TIMEOUT", 30*time.Second),

		// Logging
		LogLevel:  getenv("FLIGHTSCOPE_LOG_LEVEL", "info"),
		PrettyLog: mustBool("FLIGHTSCOPE_PRETTY_LOG", true),

		// Provider
		AmadeusURL:       strings.TrimRight(getenv("FLIGHTSCOPE_AMADEUS_URL", "https://test.api.amadeus.com"), "/"),
		AmadeusKey:       requireEnv("FLIGHTSCOPE_AMADEUS_API_KEY"),
		AmadeusSecret:    requireEnv("FLIGHTSCOPE_AMADEUS_API_SECRET"),
		AmadeusTimeout:   mustDuration("FLIGHTSCOPE_AMADEUS_TIMEOUT", 20*time.Second),
		SearchMaxResults: getenvInt("FLIGHTSCOPE_SEARCH_MAX_RESULTS", 50),
		LocationLimit:    getenvInt("FLIGHTSCOPE_LOCATION_LIMIT", 10),
		PricePolicy:      strings.ToLower(getenv("FLIGHTSCOPE_PRICE_POLICY", "lenient")),

		// Browsing
		PageSize:       getenvInt("FLIGHTSCOPE_PAGE_SIZE", 10),
		MaxSessions:    getenvInt("FLIGHTSCOPE_MAX_SESSIONS", 10000),
		SessionIdleTTL: mustDuration("FLIGHTSCOPE_SESSION_IDLE_TTL", 2*time.Hour),
		GCInterval:     mustDuration("FLIGHTSCOPE_GC_INTERVAL", 10*time.Minute),

		// Carrier directory
		CarrierFile:    getenv("FLIGHTSCOPE_CARRIER_FILE", ""),
		ReloadInterval: mustDuration("FLIGHTSCOPE_RELOAD_INTERVAL", 24*time.Hour),

		// Cache
		SearchCacheTTL:   mustDuration("FLIGHTSCOPE_SEARCH_CACHE_TTL", 5*time.Minute),
		LocationCacheTTL: mustDuration("FLIGHTSCOPE_LOCATION_CACHE_TTL", 24*time.Hour),

		// Redis settings
		RedisAddr:             getenv("FLIGHTSCOPE_REDIS_ADDR", ""),
		RedisUser:             getenv("FLIGHTSCOPE_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("FLIGHTSCOPE_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("FLIGHTSCOPE_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("FLIGHTSCOPE_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("FLIGHTSCOPE_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("FLIGHTSCOPE_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("FLIGHTSCOPE_TRUST_PROXY", false),
		CORSOrigins:  splitAndTrim(getenv("FLIGHTSCOPE_CORS_ORIGINS", "*")),
		RateBurst:    getenvInt("FLIGHTSCOPE_RATE_BURST", 20),
		RatePerMin:   getenvInt("FLIGHTSCOPE_RATE_PER_MIN", 60),
	}

	if err := cfg.validate(); err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.AmadeusSecret = "***REDACTED***"
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// CacheEnabled reports whether a Redis address was configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

func (c *Config) validate() error {
	switch c.PricePolicy {
	case "strict", "lenient":
	default:
		return fmt.Errorf("FLIGHTSCOPE_PRICE_POLICY must be strict or lenient, got %q", c.PricePolicy)
	}
	if c.SearchMaxResults < 1 {
		return fmt.Errorf("FLIGHTSCOPE_SEARCH_MAX_RESULTS must be > 0, got %d", c.SearchMaxResults)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("FLIGHTSCOPE_PAGE_SIZE must be > 0, got %d", c.PageSize)
	}
	if c.MaxSessions < 1 {
		return fmt.Errorf("FLIGHTSCOPE_MAX_SESSIONS must be > 0, got %d", c.MaxSessions)
	}
	for _, iv := range []struct {
		name string
		d    time.Duration
	}{
		{"FLIGHTSCOPE_REQUEST_TIMEOUT", c.RequestTimeout},
		{"FLIGHTSCOPE_AMADEUS_TIMEOUT", c.AmadeusTimeout},
		{"FLIGHTSCOPE_SESSION_IDLE_TTL", c.SessionIdleTTL},
		{"FLIGHTSCOPE_GC_INTERVAL", c.GCInterval},
		{"FLIGHTSCOPE_RELOAD_INTERVAL", c.ReloadInterval},
	} {
		if iv.d <= 0 {
			return fmt.Errorf("%s must be > 0, got %v", iv.name, iv.d)
		}
	}
	if c.CacheEnabled() && c.RedisPasswordRequired && c.RedisPassword == "" {
		return fmt.Errorf("FLIGHTSCOPE_REDIS_PASSWORD is required when FLIGHTSCOPE_REDIS_PASSWORD_REQUIRED=true")
	}
	return nil
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
