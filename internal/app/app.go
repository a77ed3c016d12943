package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/flightscope/internal/amadeus"
	"github.com/MrSnakeDoc/flightscope/internal/carriers"
	"github.com/MrSnakeDoc/flightscope/internal/config"
	"github.com/MrSnakeDoc/flightscope/internal/httpserver"
	"github.com/MrSnakeDoc/flightscope/internal/httpserver/deps"
	"github.com/MrSnakeDoc/flightscope/internal/logger"
	"github.com/MrSnakeDoc/flightscope/internal/pipeline"
	"github.com/MrSnakeDoc/flightscope/internal/redis"
	"github.com/MrSnakeDoc/flightscope/internal/scheduler"
	"github.com/MrSnakeDoc/flightscope/internal/session"
	redisstore "github.com/MrSnakeDoc/flightscope/internal/store/redis"
	"github.com/MrSnakeDoc/flightscope/internal/version"
)

type App struct {
	cfg             *config.Config
	logger          logger.Logger
	server          *httpserver.Server
	redisClient     *goredis.Client
	carrierReloader *scheduler.CarrierReloader
	collector       *scheduler.SessionCollector
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Redis is optional: without it every search goes to the provider.
	var (
		redisClient *goredis.Client
		store       *redisstore.Store
	)
	if cfg.CacheEnabled() {
		client, err := redis.Connect(context.Background(), redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Warn("search cache disabled", logger.Error(err))
		} else {
			redisClient = client
			store = redisstore.NewStore(client)
		}
	} else {
		loggerClient.Info("redis address not configured, search cache disabled")
	}

	// Interfaces stay untyped nil when the store is absent.
	var (
		searchCache   pipeline.SearchCache
		locationCache amadeus.LocationCache
		flusher       scheduler.SearchFlusher
		cacheAdmin    deps.CacheAdmin
	)
	if store != nil {
		searchCache, locationCache, flusher, cacheAdmin = store, store, store, store
	}

	httpClient := &http.Client{Timeout: cfg.AmadeusTimeout}
	tokens := amadeus.NewTokenProvider(httpClient, cfg.AmadeusURL, cfg.AmadeusKey, cfg.AmadeusSecret, loggerClient)
	client := amadeus.NewClient(httpClient, cfg.AmadeusURL, amadeus.ClientOptions{
		MaxResults:    cfg.SearchMaxResults,
		LocationLimit: cfg.LocationLimit,
	}, loggerClient)

	policy, err := amadeus.ParsePricePolicy(cfg.PricePolicy)
	if err != nil {
		// config.Load already validated the value.
		loggerClient.Fatal("invalid price policy", logger.Error(err))
	}

	directory := carriers.NewDirectory()
	transformer := amadeus.NewTransformer(policy, directory, loggerClient)
	orchestrator := pipeline.New(tokens, client, transformer, pipeline.Options{
		Cache:    searchCache,
		CacheTTL: cfg.SearchCacheTTL,
	}, loggerClient)
	locations := amadeus.NewLocationSearch(tokens, client, locationCache, cfg.LocationCacheTTL, loggerClient)

	sessions := session.NewStore(cfg.MaxSessions)
	collector := scheduler.NewSessionCollector(sessions, loggerClient, cfg.GCInterval, cfg.SessionIdleTTL)

	// Carrier directory (if a carrier file is configured)
	var carrierReloader *scheduler.CarrierReloader
	var reloadTrigger chan struct{}
	if cfg.CarrierFile != "" {
		loggerClient.Info("carrier file configured, initializing carrier reloader",
			logger.String("file", cfg.CarrierFile))
		reloadTrigger = make(chan struct{}, 1)
		carrierReloader = scheduler.NewCarrierReloader(
			cfg.CarrierFile,
			directory,
			flusher,
			loggerClient,
			cfg.ReloadInterval,
			reloadTrigger,
		)
	} else {
		loggerClient.Info("carrier file not configured, using provider carrier names only")
	}

	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		RateBurst:     cfg.RateBurst,
		RatePerMin:    cfg.RatePerMin,
		PageSize:      cfg.PageSize,
		PricePolicy:   string(transformer.Policy()),
		Tokens:        tokens,
		Searcher:      orchestrator,
		Locations:     locations,
		Sessions:      sessions,
		Carriers:      directory,
		Cache:         cacheAdmin,
		CarrierFile:   cfg.CarrierFile,
		ReloadTrigger: reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:             cfg,
		logger:          loggerClient,
		server:          server,
		redisClient:     redisClient,
		carrierReloader: carrierReloader,
		collector:       collector,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting FlightScope v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("FlightScope %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.carrierReloader != nil {
		if err := a.carrierReloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start carrier reloader: %w", err)
		}
		a.logger.Info("carrier reloader started",
			logger.Duration("interval", a.cfg.ReloadInterval))
	}

	a.collector.Start(ctx)
	a.logger.Info("session collector started",
		logger.Duration("interval", a.cfg.GCInterval),
		logger.Duration("idle_ttl", a.cfg.SessionIdleTTL))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.carrierReloader != nil {
		a.carrierReloader.Stop()
	}
	a.collector.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ FlightScope stopped cleanly")
	_ = a.logger.Sync()
	return nil
}
