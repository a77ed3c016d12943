package amadeus

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MrSnakeDoc/flightscope/internal/domain"
	"github.com/MrSnakeDoc/flightscope/internal/logger"
)

// minKeywordLen is the shortest keyword sent upstream.
const minKeywordLen = 2

// Tokens is the token source used by provider calls.
type Tokens interface {
	Token(ctx context.Context) (string, error)
}

// LocationCache stores location lookups per keyword.
type LocationCache interface {
	GetCachedLocations(ctx context.Context, keyword string) ([]domain.LocationResult, bool, error)
	CacheLocations(ctx context.Context, keyword string, results []domain.LocationResult, ttl time.Duration) error
}

// LocationSearch backs the airport/city autocomplete. It never fails:
// every error degrades to an empty result.
type LocationSearch struct {
	tokens Tokens
	client *Client
	cache  LocationCache // nil disables caching
	ttl    time.Duration
	log    logger.Logger
}

func NewLocationSearch(tokens Tokens, client *Client, cache LocationCache, ttl time.Duration, log logger.Logger) *LocationSearch {
	return &LocationSearch{tokens: tokens, client: client, cache: cache, ttl: ttl, log: log}
}

// Search returns up to the configured number of matches for keyword.
func (s *LocationSearch) Search(ctx context.Context, keyword string) []domain.LocationResult {
	keyword = strings.TrimSpace(keyword)
	if utf8.RuneCountInString(keyword) < minKeywordLen {
		return []domain.LocationResult{}
	}
	cacheKey := strings.ToLower(keyword)

	if s.cache != nil {
		cached, ok, err := s.cache.GetCachedLocations(ctx, cacheKey)
		switch {
		case err != nil:
			s.log.Warn("location cache read failed", logger.Error(err))
		case ok:
			return cached
		}
	}

	token, err := s.tokens.Token(ctx)
	if err != nil {
		s.log.Warn("location search skipped", logger.String("keyword", keyword), logger.Error(err))
		return []domain.LocationResult{}
	}

	results, err := s.client.SearchLocations(ctx, token, keyword)
	if err != nil {
		s.log.Warn("location search failed", logger.String("keyword", keyword), logger.Error(err))
		return []domain.LocationResult{}
	}

	if s.cache != nil && len(results) > 0 {
		if err := s.cache.CacheLocations(ctx, cacheKey, results, s.ttl); err != nil {
			s.log.Warn("location cache write failed", logger.Error(err))
		}
	}
	return results
}
