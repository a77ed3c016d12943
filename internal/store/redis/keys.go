package redis

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/flightscope/internal/domain"
)

const (
	// KeyPrefixCache is the common prefix of every cache entry
	KeyPrefixCache = "flightscope:"
	// KeyPrefixSearch is the prefix for cached flight searches
	KeyPrefixSearch = KeyPrefixCache + "search:"
	// KeyPrefixLocations is the prefix for cached location lookups
	KeyPrefixLocations = KeyPrefixCache + "locations:"
)

// SearchKey returns the cache key for a search. params should already be
// normalized so equivalent searches share one entry.
func SearchKey(params domain.SearchParams) string {
	ret := params.ReturnDate
	if ret == "" {
		ret = "oneway"
	}
	return fmt.Sprintf("%s%s-%s:%s:%s:%d",
		KeyPrefixSearch, params.Origin, params.Destination, params.DepartureDate, ret, params.Adults)
}

// LocationsKey returns the cache key for a location keyword.
func LocationsKey(keyword string) string {
	return KeyPrefixLocations + strings.ToLower(strings.TrimSpace(keyword))
}
