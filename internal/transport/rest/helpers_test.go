package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/catalogus/catalogus-backend/internal/auth"
	"github.com/catalogus/catalogus-backend/internal/config"
	"github.com/catalogus/catalogus-backend/internal/domain"
	"github.com/catalogus/catalogus-backend/internal/provider"
	"github.com/catalogus/catalogus-backend/internal/service/media"
	"github.com/catalogus/catalogus-backend/internal/service/watchlist"
	"github.com/catalogus/catalogus-backend/internal/transport/middleware"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type watchlistServiceMock struct {
	AddToListFunc   func(ctx context.Context, input watchlist.AddToListInput) (*domain.ListEntry, error)
	ListEntriesFunc func(ctx context.Context, input watchlist.ListEntriesInput) (*watchlist.EntryPage, error)
	GetEntryFunc    func(ctx context.Context, entryID uuid.UUID) (*domain.ListEntry, error)
	UpdateEntryFunc func(ctx context.Context, input watchlist.UpdateEntryInput) (*domain.ListEntry, error)
	DeleteEntryFunc func(ctx context.Context, entryID uuid.UUID) error
	StatsFunc       func(ctx context.Context) (*watchlist.Stats, error)
}

func (m *watchlistServiceMock) AddToList(ctx context.Context, input watchlist.AddToListInput) (*domain.ListEntry, error) {
	return m.AddToListFunc(ctx, input)
}

func (m *watchlistServiceMock) ListEntries(ctx context.Context, input watchlist.ListEntriesInput) (*watchlist.EntryPage, error) {
	return m.ListEntriesFunc(ctx, input)
}

func (m *watchlistServiceMock) GetEntry(ctx context.Context, entryID uuid.UUID) (*domain.ListEntry, error) {
	return m.GetEntryFunc(ctx, entryID)
}

func (m *watchlistServiceMock) UpdateEntry(ctx context.Context, input watchlist.UpdateEntryInput) (*domain.ListEntry, error) {
	return m.UpdateEntryFunc(ctx, input)
}

func (m *watchlistServiceMock) DeleteEntry(ctx context.Context, entryID uuid.UUID) error {
	return m.DeleteEntryFunc(ctx, entryID)
}

func (m *watchlistServiceMock) Stats(ctx context.Context) (*watchlist.Stats, error) {
	return m.StatsFunc(ctx)
}

type searchServiceMock struct {
	SearchFunc   func(ctx context.Context, t domain.MediaType, query string) ([]provider.SearchResult, error)
	SupportsFunc func(p domain.Provider, t domain.MediaType) bool
	calls        int
}

func (m *searchServiceMock) Supports(p domain.Provider, t domain.MediaType) bool {
	if m.SupportsFunc == nil {
		return true
	}
	return m.SupportsFunc(p, t)
}

func (m *searchServiceMock) Search(ctx context.Context, t domain.MediaType, query string) ([]provider.SearchResult, error) {
	m.calls++
	return m.SearchFunc(ctx, t, query)
}

type mediaServiceMock struct {
	GetByIDFunc func(ctx context.Context, itemID int64) (*domain.MediaRecord, error)
	CreateFunc  func(ctx context.Context, input media.CreateInput) (*domain.MediaRecord, error)
	UpdateFunc  func(ctx context.Context, input media.UpdateInput) (*domain.MediaRecord, error)
	RefreshFunc func(ctx context.Context, itemID int64) (*domain.MediaRecord, error)
}

func (m *mediaServiceMock) GetByID(ctx context.Context, itemID int64) (*domain.MediaRecord, error) {
	return m.GetByIDFunc(ctx, itemID)
}

func (m *mediaServiceMock) Create(ctx context.Context, input media.CreateInput) (*domain.MediaRecord, error) {
	return m.CreateFunc(ctx, input)
}

func (m *mediaServiceMock) Update(ctx context.Context, input media.UpdateInput) (*domain.MediaRecord, error) {
	return m.UpdateFunc(ctx, input)
}

func (m *mediaServiceMock) Refresh(ctx context.Context, itemID int64) (*domain.MediaRecord, error) {
	return m.RefreshFunc(ctx, itemID)
}

// tokenTable resolves fixed test tokens to identities.
type tokenTable map[string]auth.Identity

func (t tokenTable) ValidateAccessToken(token string) (auth.Identity, error) {
	id, ok := t[token]
	if !ok {
		return auth.Identity{}, auth.ErrInvalidToken
	}
	return id, nil
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

const (
	userToken  = "user-token"
	adminToken = "admin-token"
)

type fixture struct {
	userID    uuid.UUID
	watchlist *watchlistServiceMock
	search    *searchServiceMock
	media     *mediaServiceMock
	handler   http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		userID:    uuid.New(),
		watchlist: &watchlistServiceMock{},
		search:    &searchServiceMock{},
		media:     &mediaServiceMock{},
	}
	tokens := tokenTable{
		userToken:  {UserID: f.userID, Role: domain.UserRoleUser},
		adminToken: {UserID: uuid.New(), Role: domain.UserRoleAdmin},
	}

	f.handler = NewRouter(RouterDeps{
		Logger:       logger,
		Authenticate: middleware.Authenticate(tokens),
		CORS:         config.CORSConfig{AllowedOrigins: "*"},
		Health:       NewHealthHandler("test", map[string]Pinger{}),
		Watchlist:    NewWatchlistHandler(f.watchlist, logger),
		Media:        NewMediaHandler(f.search, f.media, logger),
	})
	return f
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rdr)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}
