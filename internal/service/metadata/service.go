// Package metadata resolves title details and search results from external
// providers, dispatching on (provider, media type).
package metadata

import (
	"context"
	"log/slog"

	"github.com/catalogus/catalogus-backend/internal/domain"
	"github.com/catalogus/catalogus-backend/internal/provider"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type tmdbClient interface {
	FetchMovie(ctx context.Context, externalID string) (*provider.NormalizedMedia, error)
	FetchTV(ctx context.Context, externalID string) (*provider.NormalizedMedia, error)
	SearchMovies(ctx context.Context, query string) ([]provider.SearchResult, error)
	SearchTV(ctx context.Context, query string) ([]provider.SearchResult, error)
}

type mediaRepo interface {
	Search(ctx context.Context, q string, mediaType *domain.MediaType, limit int) ([]*domain.MediaRecord, error)
}

type searchCache interface {
	Get(key string) ([]provider.SearchResult, bool)
	Set(key string, results []provider.SearchResult)
	Len() int
}

// ---------------------------------------------------------------------------
// Strategies
// ---------------------------------------------------------------------------

type strategyKey struct {
	provider  domain.Provider
	mediaType domain.MediaType
}

type fetchFunc func(ctx context.Context, externalID string) (*provider.NormalizedMedia, error)

type searchFunc func(ctx context.Context, query string) ([]provider.SearchResult, error)

type strategy struct {
	fetch  fetchFunc
	search searchFunc
}

// unsupported is the strategy for every pair without a wired provider.
var unsupported = strategy{
	fetch: func(context.Context, string) (*provider.NormalizedMedia, error) {
		return nil, domain.ErrUnsupportedMediaType
	},
	search: func(context.Context, string) ([]provider.SearchResult, error) {
		return nil, domain.ErrUnsupportedMediaType
	},
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// localSearchLimit bounds how many local catalog matches join a search.
const localSearchLimit = 10

// Service implements provider dispatch, merged search and search caching.
type Service struct {
	log        *slog.Logger
	strategies map[strategyKey]strategy
	media      mediaRepo
	cache      searchCache
}

// NewService creates a metadata service with the TMDB client registered for
// movies and TV. Other (provider, type) pairs are unsupported.
func NewService(logger *slog.Logger, tmdb tmdbClient, media mediaRepo, cache searchCache) *Service {
	return &Service{
		log: logger.With("service", "metadata"),
		strategies: map[strategyKey]strategy{
			{domain.ProviderTMDB, domain.MediaTypeMovie}: {fetch: tmdb.FetchMovie, search: tmdb.SearchMovies},
			{domain.ProviderTMDB, domain.MediaTypeTV}:    {fetch: tmdb.FetchTV, search: tmdb.SearchTV},
		},
		media: media,
		cache: cache,
	}
}

func (s *Service) strategyFor(p domain.Provider, t domain.MediaType) (strategy, bool) {
	st, ok := s.strategies[strategyKey{provider: p, mediaType: t}]
	if !ok {
		return unsupported, false
	}
	return st, true
}

// Supports reports whether a provider is wired for the pair.
func (s *Service) Supports(p domain.Provider, t domain.MediaType) bool {
	_, ok := s.strategyFor(p, t)
	return ok
}
