// Package cache holds in-process TTL caches.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/catalogus/catalogus-backend/internal/provider"
)

// SearchCache keeps merged search results for a short TTL.
// Stored slices are copied on the way in and out so callers may mutate them.
type SearchCache struct {
	c *gocache.Cache
}

// NewSearchCache creates a cache whose entries expire after ttl.
// Expired entries are purged every cleanupInterval.
func NewSearchCache(ttl, cleanupInterval time.Duration) *SearchCache {
	return &SearchCache{c: gocache.New(ttl, cleanupInterval)}
}

// Get returns the cached results for key.
func (s *SearchCache) Get(key string) ([]provider.SearchResult, bool) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false
	}
	results, ok := v.([]provider.SearchResult)
	if !ok {
		return nil, false
	}
	return clone(results), true
}

// Set stores results under key with the default TTL.
func (s *SearchCache) Set(key string, results []provider.SearchResult) {
	s.c.Set(key, clone(results), gocache.DefaultExpiration)
}

// Len returns the number of cached keys, including expired ones not yet purged.
func (s *SearchCache) Len() int {
	return s.c.ItemCount()
}

func clone(in []provider.SearchResult) []provider.SearchResult {
	out := make([]provider.SearchResult, len(in))
	copy(out, in)
	return out
}
