package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/catalogus/catalogus-backend/internal/domain"
	"github.com/catalogus/catalogus-backend/internal/metrics"
	"github.com/catalogus/catalogus-backend/internal/provider"
)

// Search returns provider results for query merged with matching titles from
// the local catalog. Provider results come first, ordered by popularity and
// then by edit distance to the query; local-only titles follow. A result
// already in the catalog carries its ItemID.
//
// An empty query returns an empty result. A type without a provider returns
// domain.ErrUnsupportedMediaType.
func (s *Service) Search(ctx context.Context, t domain.MediaType, query string) ([]provider.SearchResult, error) {
	norm := domain.NormalizeQuery(query)
	if norm == "" {
		return []provider.SearchResult{}, nil
	}

	p := t.DefaultProvider()
	st, ok := s.strategyFor(p, t)
	if !ok {
		return nil, domain.ErrUnsupportedMediaType
	}

	key := t.String() + ":" + norm
	if cached, hit := s.cache.Get(key); hit {
		metrics.SearchCache.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.SearchCache.WithLabelValues("miss").Inc()

	remote, err := st.search(ctx, norm)
	if err != nil {
		return nil, fmt.Errorf("search %s %s: %w", p, t, err)
	}

	local, err := s.media.Search(ctx, norm, &t, localSearchLimit)
	if err != nil {
		s.log.WarnContext(ctx, "local catalog search failed, returning provider results only",
			slog.String("query", norm),
			slog.String("error", err.Error()),
		)
		local = nil
	}

	results := merge(rank(remote, norm), local)
	s.cache.Set(key, results)
	metrics.SearchCacheEntries.Set(float64(s.cache.Len()))
	return results, nil
}

// rank orders results by popularity (desc), then by edit distance between the
// folded title and the query (asc). Equal results keep provider order.
func rank(results []provider.SearchResult, norm string) []provider.SearchResult {
	dist := make(map[string]int, len(results))
	for _, r := range results {
		dist[r.Key()] = levenshtein.ComputeDistance(domain.NormalizeQuery(r.Title), norm)
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Popularity != results[j].Popularity {
			return results[i].Popularity > results[j].Popularity
		}
		return dist[results[i].Key()] < dist[results[j].Key()]
	})
	return results
}

// merge de-duplicates on (provider, external id). Provider entries win and
// borrow the local ItemID.
func merge(remote []provider.SearchResult, local []*domain.MediaRecord) []provider.SearchResult {
	out := make([]provider.SearchResult, 0, len(remote)+len(local))
	localByKey := make(map[string]*domain.MediaRecord, len(local))
	for _, rec := range local {
		localByKey[string(rec.Provider)+":"+rec.ExternalID] = rec
	}

	seen := make(map[string]struct{}, len(remote)+len(local))
	for _, r := range remote {
		k := r.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if rec, ok := localByKey[k]; ok {
			id := rec.ItemID
			r.ItemID = &id
		}
		out = append(out, r)
	}

	for _, rec := range local {
		r := fromRecord(rec)
		if _, dup := seen[r.Key()]; dup {
			continue
		}
		seen[r.Key()] = struct{}{}
		out = append(out, r)
	}
	return out
}

func fromRecord(rec *domain.MediaRecord) provider.SearchResult {
	id := rec.ItemID
	r := provider.SearchResult{
		Title:      rec.Title,
		MediaType:  rec.MediaType,
		Provider:   rec.Provider,
		ExternalID: rec.ExternalID,
		Metadata:   rec.Metadata,
		ItemID:     &id,
	}
	if pop, ok := rec.Metadata["popularity"].(float64); ok {
		r.Popularity = pop
	}
	return r
}
