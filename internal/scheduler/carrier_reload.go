package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/flightscope/internal/carriers"
	"github.com/MrSnakeDoc/flightscope/internal/logger"
)

// SearchFlusher drops cached searches. Implemented by the Redis store.
type SearchFlusher interface {
	FlushSearches(ctx context.Context) (int, error)
}

// CarrierReloader keeps the carrier directory in sync with its YAML file,
// on a ticker and on demand.
type CarrierReloader struct {
	loader        *carriers.Loader
	directory     *carriers.Directory
	cache         SearchFlusher // nil when caching is disabled
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewCarrierReloader creates a new carrier reloader
func NewCarrierReloader(
	carrierFile string,
	directory *carriers.Directory,
	cache SearchFlusher,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *CarrierReloader {
	return &CarrierReloader{
		loader:        carriers.NewLoader(carrierFile),
		directory:     directory,
		cache:         cache,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the file once, then keeps reloading it in the background.
// A failing first load is returned to the caller.
func (cr *CarrierReloader) Start(ctx context.Context) error {
	if err := cr.Reload(ctx); err != nil {
		return fmt.Errorf("initial carrier load failed: %w", err)
	}

	ticker := time.NewTicker(cr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload carriers",
						logger.Error(err))
				}
			case <-cr.manualTrigger:
				cr.logger.Info("manual carrier reload triggered")
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload carriers",
						logger.Error(err))
				}
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (cr *CarrierReloader) Stop() {
	close(cr.stopCh)
}

// Reload reads the file and swaps the directory. On failure the previous
// directory stays in place.
func (cr *CarrierReloader) Reload(ctx context.Context) error {
	names, err := cr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load carriers: %w", err)
	}

	before := cr.directory.Len()
	cr.directory.Replace(names)
	cr.logger.Info("carrier directory loaded",
		logger.String("file", cr.loader.Path()),
		logger.Int("count", len(names)),
		logger.Int("previous", before))

	// Cached flights carry resolved airline names.
	if cr.cache != nil {
		n, err := cr.cache.FlushSearches(ctx)
		if err != nil {
			cr.logger.Warn("failed to flush search cache", logger.Error(err))
		} else if n > 0 {
			cr.logger.Info("search cache flushed", logger.Int("keys", n))
		}
	}

	return nil
}
