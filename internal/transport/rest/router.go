package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/catalogus/catalogus-backend/internal/config"
	"github.com/catalogus/catalogus-backend/internal/transport/middleware"
)

// RouterDeps holds everything the HTTP surface is assembled from.
// Limiter may be nil to disable rate limiting.
type RouterDeps struct {
	Logger       *slog.Logger
	Authenticate middleware.Middleware
	CORS         config.CORSConfig
	RateLimit    config.RateLimitConfig
	Limiter      *middleware.RateLimiter

	Health    *HealthHandler
	Watchlist *WatchlistHandler
	Media     *MediaHandler
}

// NewRouter builds the chi router with the full middleware chain.
func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.CORS(d.CORS))

	r.Get("/live", d.Health.Live)
	r.Get("/ready", d.Health.Ready)
	r.Get("/health", d.Health.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if d.Limiter != nil && d.RateLimit.RequestsPerMinute > 0 {
			r.Use(d.Limiter.Limit("api", d.RateLimit.RequestsPerMinute))
		}
		r.Use(d.Authenticate)

		r.Route("/watchlist", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/", d.Watchlist.List)
			r.Post("/", d.Watchlist.Add)
			r.Get("/stats", d.Watchlist.Stats)
			r.Get("/{id}", d.Watchlist.Get)
			r.Patch("/{id}", d.Watchlist.Update)
			r.Delete("/{id}", d.Watchlist.Delete)
		})

		r.Route("/media", func(r chi.Router) {
			var search chi.Router = r
			if d.Limiter != nil && d.RateLimit.SearchPerMinute > 0 {
				search = r.With(d.Limiter.Limit("search", d.RateLimit.SearchPerMinute))
			}
			search.Get("/search", d.Media.Search)
			r.Get("/{id}", d.Media.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", d.Media.Create)
				r.Patch("/{id}", d.Media.Update)
				r.Post("/{id}/refresh", d.Media.Refresh)
			})
		})
	})

	return r
}
