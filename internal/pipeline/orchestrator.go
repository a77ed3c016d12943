package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/flightscope/internal/amadeus"
	"github.com/MrSnakeDoc/flightscope/internal/domain"
	"github.com/MrSnakeDoc/flightscope/internal/logger"
)

// Tokens supplies provider tokens and can drop a rejected one.
type Tokens interface {
	Token(ctx context.Context) (string, error)
	ClearToken()
}

// OfferSource runs the raw flight-offers search.
type OfferSource interface {
	SearchOffers(ctx context.Context, token string, params domain.SearchParams) (*amadeus.OffersResponse, error)
}

// SearchCache holds transformed flights per search.
type SearchCache interface {
	GetCachedSearch(ctx context.Context, params domain.SearchParams) ([]domain.Flight, bool, error)
	CacheSearch(ctx context.Context, params domain.SearchParams, flights []domain.Flight, ttl time.Duration) error
}

// Options configures optional orchestrator behavior.
type Options struct {
	Cache    SearchCache // nil disables caching
	CacheTTL time.Duration
}

// Orchestrator runs one flight search end to end: validate, authenticate,
// fetch, normalize. It never retries.
type Orchestrator struct {
	tokens      Tokens
	offers      OfferSource
	transformer *amadeus.Transformer
	cache       SearchCache
	cacheTTL    time.Duration
	log         logger.Logger
}

func New(tokens Tokens, offers OfferSource, transformer *amadeus.Transformer, opts Options, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		tokens:      tokens,
		offers:      offers,
		transformer: transformer,
		cache:       opts.Cache,
		cacheTTL:    opts.CacheTTL,
		log:         log,
	}
}

// Search returns the normalized flights for params.
//
// Errors: *domain.ValidationError before any network call,
// domain.ErrAuthentication when no token can be obtained,
// *domain.SearchError when the provider rejects the search, and
// domain.ErrTransformation under the strict price policy.
func (o *Orchestrator) Search(ctx context.Context, params domain.SearchParams) ([]domain.Flight, error) {
	params = params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	log := o.log.With(
		logger.String("origin", params.Origin),
		logger.String("destination", params.Destination),
		logger.String("departure_date", params.DepartureDate))

	if flights, ok := o.cached(ctx, params, log); ok {
		return flights, nil
	}

	token, err := o.tokens.Token(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrAuthentication) {
			err = fmt.Errorf("%w: %w", domain.ErrAuthentication, err)
		}
		return nil, err
	}

	started := time.Now()
	resp, err := o.offers.SearchOffers(ctx, token, params)
	if err != nil {
		var se *domain.SearchError
		if errors.As(err, &se) && se.Status == http.StatusUnauthorized {
			o.tokens.ClearToken()
		}
		log.Warn("flight search failed", logger.Error(err))
		return nil, err
	}

	flights, err := o.transformer.Transform(resp.Data, resp.Dictionaries.Carriers)
	if err != nil {
		log.Warn("flight offers rejected", logger.Error(err))
		return nil, err
	}

	log.Info("flight search completed",
		logger.Int("offers", len(resp.Data)),
		logger.Int("flights", len(flights)),
		logger.Duration("elapsed", time.Since(started)))

	if o.cache != nil {
		if err := o.cache.CacheSearch(ctx, params, flights, o.cacheTTL); err != nil {
			log.Warn("search cache write failed", logger.Error(err))
		}
	}
	return flights, nil
}

func (o *Orchestrator) cached(ctx context.Context, params domain.SearchParams, log logger.Logger) ([]domain.Flight, bool) {
	if o.cache == nil {
		return nil, false
	}
	flights, ok, err := o.cache.GetCachedSearch(ctx, params)
	if err != nil {
		log.Warn("search cache read failed", logger.Error(err))
		return nil, false
	}
	if ok {
		log.Debug("flight search served from cache", logger.Int("flights", len(flights)))
	}
	return flights, ok
}
