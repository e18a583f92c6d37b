package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/catalogus/catalogus-backend/internal/adapter/cache"
	"github.com/catalogus/catalogus-backend/internal/adapter/postgres"
	"github.com/catalogus/catalogus-backend/internal/adapter/postgres/entry"
	mediarepo "github.com/catalogus/catalogus-backend/internal/adapter/postgres/media"
	"github.com/catalogus/catalogus-backend/internal/adapter/provider/tmdb"
	"github.com/catalogus/catalogus-backend/internal/auth"
	"github.com/catalogus/catalogus-backend/internal/config"
	"github.com/catalogus/catalogus-backend/internal/service/media"
	"github.com/catalogus/catalogus-backend/internal/service/metadata"
	"github.com/catalogus/catalogus-backend/internal/service/watchlist"
	"github.com/catalogus/catalogus-backend/internal/transport/middleware"
	"github.com/catalogus/catalogus-backend/internal/transport/rest"
	"github.com/catalogus/catalogus-backend/migrations"
)

// Server is the assembled HTTP service and the resources it owns.
type Server struct {
	cfg     *config.Config
	log     *slog.Logger
	pool    *pgxpool.Pool
	limiter *middleware.RateLimiter
	handler http.Handler
}

// Run builds the server from cfg and serves until ctx is done.
func Run(ctx context.Context, cfg *config.Config) error {
	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	srv, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer srv.Close()

	return srv.ListenAndServe(ctx)
}

// New connects to the database, applies migrations when enabled and wires
// repositories, the metadata provider, services and the router.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg.Database.AutoMigrate {
		if err := postgres.NewMigrator(cfg.Database.DSN, migrations.FS, logger).Up(ctx); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	return NewWithPool(cfg, logger, pool), nil
}

// NewWithPool wires the server around an existing pool. The server takes
// ownership of pool and closes it in Close.
func NewWithPool(cfg *config.Config, logger *slog.Logger, pool *pgxpool.Pool) *Server {
	s := &Server{cfg: cfg, log: logger, pool: pool}
	s.handler = s.wire()
	return s
}

func (s *Server) wire() http.Handler {
	cfg, logger := s.cfg, s.log

	// Repositories
	entries := entry.New(s.pool)
	records := mediarepo.New(s.pool)
	tx := postgres.NewTxManager(s.pool)

	// Providers and caches
	tmdbClient := tmdb.NewClient(cfg.TMDB, logger)
	searchCache := cache.NewSearchCache(cfg.Cache.SearchTTL, cfg.Cache.CleanupInterval)

	// Services
	metadataSvc := metadata.NewService(logger, tmdbClient, records, searchCache)
	watchlistSvc := watchlist.NewService(logger, entries, records, metadataSvc, tx, cfg.Watchlist)
	mediaSvc := media.NewService(logger, records, metadataSvc)

	// Transport
	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	if cfg.RateLimit.Enabled {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	}

	return rest.NewRouter(rest.RouterDeps{
		Logger:       logger,
		Authenticate: middleware.Authenticate(tokens),
		CORS:         cfg.CORS,
		RateLimit:    cfg.RateLimit,
		Limiter:      s.limiter,
		Health:       rest.NewHealthHandler(Version, map[string]rest.Pinger{"database": s.pool}),
		Watchlist:    rest.NewWatchlistHandler(watchlistSvc, logger),
		Media:        rest.NewMediaHandler(metadataSvc, mediaSvc, logger),
	})
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe serves HTTP until ctx is cancelled, then drains in-flight
// requests for at most the configured shutdown timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	sc := s.cfg.Server
	httpSrv := &http.Server{
		Addr:              net.JoinHostPort(sc.Host, strconv.Itoa(sc.Port)),
		Handler:           s.handler,
		ReadTimeout:       sc.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      sc.WriteTimeout,
		IdleTimeout:       sc.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", slog.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down", slog.Duration("timeout", sc.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), sc.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

// Close releases the database pool and background workers.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	s.pool.Close()
}
