package metadata

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/vmunix/postarr/internal/tmdb"
)

// DefaultSearchTTL is how long search results stay cached.
const DefaultSearchTTL = 7 * 24 * time.Hour

const keyPrefixSearch = "tmdb:search:"

// Searcher is the uncached search call being wrapped.
type Searcher interface {
	Search(ctx context.Context, kind tmdb.MediaKind, query string) ([]tmdb.SearchResult, error)
}

// CachedSearcher serves TMDB searches from the cache, calling through on a miss.
// Empty result lists are cached too, so known misses cost nothing on re-runs.
type CachedSearcher struct {
	next  Searcher
	cache *Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewCachedSearcher wraps next with cache. A ttl of zero uses DefaultSearchTTL.
func NewCachedSearcher(next Searcher, cache *Cache, ttl time.Duration, log *slog.Logger) *CachedSearcher {
	if ttl <= 0 {
		ttl = DefaultSearchTTL
	}
	return &CachedSearcher{
		next:  next,
		cache: cache,
		ttl:   ttl,
		log:   log.With("component", "metadata"),
	}
}

func searchKey(kind tmdb.MediaKind, query string) string {
	return keyPrefixSearch + kind.String() + ":" + strings.ToLower(query)
}

// Search returns cached results for (kind, query) or fetches and stores them.
func (s *CachedSearcher) Search(ctx context.Context, kind tmdb.MediaKind, query string) ([]tmdb.SearchResult, error) {
	key := searchKey(kind, query)

	if data, ok := s.cache.Get(ctx, key); ok {
		var results []tmdb.SearchResult
		if err := json.Unmarshal(data, &results); err == nil {
			s.log.Debug("cache hit for search", "kind", kind, "query", query, "results", len(results))
			return results, nil
		}
		s.log.Warn("failed to unmarshal cached search results, dropping entry", "kind", kind, "query", query)
		if err := s.cache.Delete(ctx, key); err != nil {
			s.log.Warn("failed to delete cached search results", "key", key, "error", err)
		}
	}

	s.log.Debug("cache miss for search, calling API", "kind", kind, "query", query)

	results, err := s.next.Search(ctx, kind, query)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []tmdb.SearchResult{}
	}

	data, err := json.Marshal(results)
	if err != nil {
		s.log.Warn("failed to marshal search results for cache", "query", query, "error", err)
		return results, nil
	}

	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.log.Warn("failed to cache search results", "query", query, "error", err)
	}

	return results, nil
}
