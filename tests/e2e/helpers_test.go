//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/catalogus/catalogus-backend/internal/adapter/postgres/testhelper"
	"github.com/catalogus/catalogus-backend/internal/app"
	authpkg "github.com/catalogus/catalogus-backend/internal/auth"
	"github.com/catalogus/catalogus-backend/internal/config"
	"github.com/catalogus/catalogus-backend/internal/domain"
)

const jwtSecret = "test-secret-at-least-32-chars-long!!"

// ---------------------------------------------------------------------------
// TMDB stub
// ---------------------------------------------------------------------------

type tmdbStub struct {
	*httptest.Server
	movieCalls  atomic.Int32
	searchCalls atomic.Int32
}

func newTMDBStub(t *testing.T) *tmdbStub {
	t.Helper()

	stub := &tmdbStub{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /movie/597", func(w http.ResponseWriter, _ *http.Request) {
		stub.movieCalls.Add(1)
		writeStub(w, `{
			"id": 597,
			"title": "Titanic",
			"overview": "A seventeen-year-old aristocrat falls in love with a kind but poor artist.",
			"release_date": "1997-11-18",
			"runtime": 194,
			"genres": [{"id": 18, "name": "Drama"}],
			"popularity": 120.5,
			"vote_average": 7.9
		}`)
	})
	mux.HandleFunc("GET /movie/603", func(w http.ResponseWriter, _ *http.Request) {
		stub.movieCalls.Add(1)
		writeStub(w, `{"id": 603, "title": "The Matrix", "release_date": "1999-03-30", "runtime": 136, "genres": [], "popularity": 80}`)
	})
	mux.HandleFunc("GET /movie/680", func(w http.ResponseWriter, _ *http.Request) {
		stub.movieCalls.Add(1)
		// Keep both concurrent fetches in flight at the same time.
		time.Sleep(50 * time.Millisecond)
		writeStub(w, `{"id": 680, "title": "Pulp Fiction", "release_date": "1994-09-10", "runtime": 154, "genres": [], "popularity": 65.2}`)
	})
	mux.HandleFunc("GET /movie/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		writeStub(w, `{"status_code":34,"status_message":"The resource you requested could not be found."}`)
	})
	mux.HandleFunc("GET /search/movie", func(w http.ResponseWriter, r *http.Request) {
		stub.searchCalls.Add(1)
		if !strings.Contains(strings.ToLower(r.URL.Query().Get("query")), "titanic") {
			writeStub(w, `{"page":1,"results":[],"total_results":0}`)
			return
		}
		writeStub(w, `{"page":1,"results":[
			{"id": 44918, "title": "Titanic II", "release_date": "2010-08-07", "popularity": 8.1},
			{"id": 597, "title": "Titanic", "release_date": "1997-11-18", "popularity": 120.5}
		],"total_results":2}`)
	})

	stub.Server = httptest.NewServer(mux)
	t.Cleanup(stub.Close)
	return stub
}

func writeStub(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, body)
}

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	TMDB   *tmdbStub
	Pool   *pgxpool.Pool
	jwt    *authpkg.JWTManager
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// setupTestServer bootstraps the application against a PostgreSQL container
// (shared via testhelper) and a stubbed TMDB.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	stub := newTMDBStub(t)
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:      jwtSecret,
			JWTIssuer:      "test-issuer",
			AccessTokenTTL: 15 * time.Minute,
		},
		TMDB: config.TMDBConfig{
			BaseURL:           stub.URL,
			APIKey:            "e2e-key",
			Timeout:           2 * time.Second,
			MaxAttempts:       3,
			InitialBackoff:    time.Millisecond,
			RequestsPerSecond: 100,
		},
		Watchlist: config.WatchlistConfig{
			FreshnessWindow: 7 * 24 * time.Hour,
			DefaultPageSize: 10,
			MaxPageSize:     30,
		},
		Cache: config.CacheConfig{SearchTTL: time.Minute, CleanupInterval: time.Minute},
		CORS:  config.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET,POST,PATCH,DELETE"},
	}

	srv := app.NewWithPool(cfg, logger, pool)
	t.Cleanup(srv.Close)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &testServer{
		URL:    ts.URL,
		Client: ts.Client(),
		TMDB:   stub,
		Pool:   pool,
		jwt:    authpkg.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL),
	}
}

// token issues an access token for a fresh user.
func (ts *testServer) token(t *testing.T, role domain.UserRole) string {
	t.Helper()
	tok, err := ts.jwt.GenerateAccessToken(uuid.New(), role)
	require.NoError(t, err)
	return tok
}

// do sends a JSON request and decodes a JSON response into a map.
// A nil map is returned for empty bodies.
func (ts *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	status, out, err := ts.send(method, path, token, body)
	require.NoError(t, err)
	return status, out
}

// send is do without assertions, safe to call from other goroutines.
func (ts *testServer) send(method, path, token string, body any) (int, map[string]any, error) {
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		rdr = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.URL+path, rdr)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	if len(raw) == 0 {
		return resp.StatusCode, nil, nil
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return 0, nil, fmt.Errorf("decode %q: %w", raw, err)
	}
	return resp.StatusCode, out, nil
}
