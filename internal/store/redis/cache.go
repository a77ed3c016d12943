package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/flightscope/internal/domain"
)

// CacheSearch stores the transformed flights of a search.
func (s *Store) CacheSearch(ctx context.Context, params domain.SearchParams, flights []domain.Flight, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultSearchTTL
	}
	return s.setJSON(ctx, SearchKey(params), flights, ttl)
}

// GetCachedSearch returns the cached flights of a search, if any.
func (s *Store) GetCachedSearch(ctx context.Context, params domain.SearchParams) ([]domain.Flight, bool, error) {
	var flights []domain.Flight
	ok, err := s.getJSON(ctx, SearchKey(params), &flights)
	if err != nil || !ok {
		return nil, false, err
	}
	if flights == nil {
		flights = []domain.Flight{}
	}
	return flights, true, nil
}

// InvalidateSearch removes one cached search.
func (s *Store) InvalidateSearch(ctx context.Context, params domain.SearchParams) error {
	if err := s.client.Del(ctx, SearchKey(params)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate search: %w", err)
	}
	return nil
}

// CacheLocations stores the results of a location lookup.
func (s *Store) CacheLocations(ctx context.Context, keyword string, results []domain.LocationResult, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultLocationTTL
	}
	return s.setJSON(ctx, LocationsKey(keyword), results, ttl)
}

// GetCachedLocations returns the cached results of a location lookup, if any.
func (s *Store) GetCachedLocations(ctx context.Context, keyword string) ([]domain.LocationResult, bool, error) {
	var results []domain.LocationResult
	ok, err := s.getJSON(ctx, LocationsKey(keyword), &results)
	if err != nil || !ok {
		return nil, false, err
	}
	return results, true, nil
}

// FlushSearches removes every cached search. Airline names are baked into
// cached flights, so this runs after the carrier directory changes.
func (s *Store) FlushSearches(ctx context.Context) (int, error) {
	return s.flush(ctx, KeyPrefixSearch)
}

// FlushCache removes every cache entry.
func (s *Store) FlushCache(ctx context.Context) (int, error) {
	return s.flush(ctx, KeyPrefixCache)
}

func (s *Store) flush(ctx context.Context, prefix string) (int, error) {
	deleted := 0
	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("failed to delete cache key: %w", err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("failed to flush cache: %w", err)
	}
	return deleted, nil
}
