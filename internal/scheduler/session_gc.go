package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/flightscope/internal/logger"
	"github.com/MrSnakeDoc/flightscope/internal/session"
)

const (
	// DefaultSessionTTL is how long an untouched browse session is kept
	DefaultSessionTTL = 2 * time.Hour
)

// SessionCollector evicts browse sessions nobody has touched for a while.
type SessionCollector struct {
	store    *session.Store
	logger   logger.Logger
	interval time.Duration
	ttl      time.Duration
	stopCh   chan struct{}
}

// NewSessionCollector creates a new session collector
func NewSessionCollector(
	store *session.Store,
	log logger.Logger,
	interval time.Duration,
	ttl time.Duration,
) *SessionCollector {
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}

	return &SessionCollector{
		store:    store,
		logger:   log,
		interval: interval,
		ttl:      ttl,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic collection
func (sc *SessionCollector) Start(ctx context.Context) {
	ticker := time.NewTicker(sc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sc.Collect()
			case <-sc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the collector
func (sc *SessionCollector) Stop() {
	close(sc.stopCh)
}

// Collect evicts idle sessions and returns how many were removed.
func (sc *SessionCollector) Collect() int {
	evicted := sc.store.EvictIdle(sc.ttl)
	if len(evicted) > 0 {
		sc.logger.Info("idle sessions evicted",
			logger.Int("count", len(evicted)),
			logger.Int("remaining", sc.store.Count()),
			logger.Duration("ttl", sc.ttl))
	} else {
		sc.logger.Debug("no idle sessions to evict")
	}
	return len(evicted)
}
