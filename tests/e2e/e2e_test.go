//go:build e2e

package e2e_test

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalogus/catalogus-backend/internal/domain"
)

func TestE2E_Probes(t *testing.T) {
	ts := setupTestServer(t)

	status, body := ts.do(t, http.MethodGet, "/live", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, body = ts.do(t, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, body = ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	components := body["components"].(map[string]any)
	assert.Equal(t, "ok", components["database"].(map[string]any)["status"])
}

// TestE2E_WatchlistLifecycle walks one title through add, duplicate add,
// completion, deletion and the follow-up lookup.
func TestE2E_WatchlistLifecycle(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.token(t, domain.UserRoleUser)

	// 1. Add Titanic.
	status, entry := ts.do(t, http.MethodPost, "/watchlist", token, map[string]any{
		"apiSource": "TMDB",
		"apiId":     "597",
		"type":      "MOVIE",
	})
	require.Equal(t, http.StatusCreated, status, entry)
	assert.Equal(t, "PLAN_TO_WATCH", entry["status"])
	assert.Nil(t, entry["rating"])
	assert.Nil(t, entry["completedAt"])

	media := entry["media"].(map[string]any)
	assert.Equal(t, "Titanic", media["title"])
	assert.Equal(t, "MOVIE", media["type"])
	assert.Equal(t, float64(194), media["metadata"].(map[string]any)["runtime"])

	entryID := entry["id"].(string)
	assert.LessOrEqual(t, ts.TMDB.movieCalls.Load(), int32(1))

	// 2. Adding it again conflicts.
	status, body := ts.do(t, http.MethodPost, "/watchlist", token, map[string]any{
		"apiSource": "TMDB",
		"apiId":     "597",
		"type":      "MOVIE",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "ALREADY_IN_LIST", body["code"])

	// 3. Complete it with a rating.
	status, entry = ts.do(t, http.MethodPatch, "/watchlist/"+entryID, token, map[string]any{
		"status": "COMPLETED",
		"rating": 8.5,
	})
	require.Equal(t, http.StatusOK, status, entry)
	assert.Equal(t, "COMPLETED", entry["status"])
	assert.Equal(t, 8.5, entry["rating"])
	assert.NotNil(t, entry["completedAt"])

	// 4. Stats reflect the change.
	status, stats := ts.do(t, http.MethodGet, "/watchlist/stats", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), stats["total"])
	assert.Equal(t, float64(1), stats["byStatus"].(map[string]any)["COMPLETED"])

	// 5. Delete.
	status, _ = ts.do(t, http.MethodDelete, "/watchlist/"+entryID, token, nil)
	assert.Equal(t, http.StatusNoContent, status)

	// 6. Gone.
	status, body = ts.do(t, http.MethodGet, "/watchlist/"+entryID, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

// TestE2E_SecondUserReusesCachedMedia checks that a fresh cached record is
// shared across users without another provider call.
func TestE2E_SecondUserReusesCachedMedia(t *testing.T) {
	ts := setupTestServer(t)

	add := map[string]any{"apiId": 597, "type": "movie"}

	status, first := ts.do(t, http.MethodPost, "/watchlist", ts.token(t, domain.UserRoleUser), add)
	require.Equal(t, http.StatusCreated, status, first)
	calls := ts.TMDB.movieCalls.Load()

	status, second := ts.do(t, http.MethodPost, "/watchlist", ts.token(t, domain.UserRoleUser), add)
	require.Equal(t, http.StatusCreated, status, second)

	assert.Equal(t, first["mediaItemId"], second["mediaItemId"])
	assert.Equal(t, calls, ts.TMDB.movieCalls.Load())
}

// TestE2E_ConcurrentAddsShareOneMediaRecord races two users adding the same
// uncached title. Both entries must point at a single media row.
func TestE2E_ConcurrentAddsShareOneMediaRecord(t *testing.T) {
	ts := setupTestServer(t)
	tokens := []string{ts.token(t, domain.UserRoleUser), ts.token(t, domain.UserRoleUser)}
	add := map[string]any{"apiSource": "TMDB", "apiId": "680", "type": "MOVIE"}

	type result struct {
		status int
		body   map[string]any
		err    error
	}
	results := make([]result, len(tokens))

	var wg sync.WaitGroup
	for i, tok := range tokens {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, body, err := ts.send(http.MethodPost, "/watchlist", tok, add)
			results[i] = result{status: status, body: body, err: err}
		}()
	}
	wg.Wait()

	for _, res := range results {
		require.NoError(t, res.err)
		require.Equal(t, http.StatusCreated, res.status, res.body)
	}
	assert.Equal(t, results[0].body["mediaItemId"], results[1].body["mediaItemId"])
	assert.NotEqual(t, results[0].body["id"], results[1].body["id"])

	var rows int
	err := ts.Pool.QueryRow(context.Background(),
		`SELECT count(*) FROM media_items WHERE api_source = 'TMDB' AND api_id = '680'`).Scan(&rows)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	var entries int
	err = ts.Pool.QueryRow(context.Background(),
		`SELECT count(*) FROM watchlist_entries e JOIN media_items m ON m.item_id = e.media_item_id
		 WHERE m.api_source = 'TMDB' AND m.api_id = '680'`).Scan(&entries)
	require.NoError(t, err)
	assert.Equal(t, 2, entries)
}

func TestE2E_EntriesAreIsolatedPerUser(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.token(t, domain.UserRoleUser)
	bob := ts.token(t, domain.UserRoleUser)

	status, entry := ts.do(t, http.MethodPost, "/watchlist", alice, map[string]any{"apiId": "597", "type": "MOVIE"})
	require.Equal(t, http.StatusCreated, status, entry)
	entryID := entry["id"].(string)

	status, _ = ts.do(t, http.MethodGet, "/watchlist/"+entryID, bob, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = ts.do(t, http.MethodDelete, "/watchlist/"+entryID, bob, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, page := ts.do(t, http.MethodGet, "/watchlist", bob, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), page["total"])
	assert.Empty(t, page["items"])
}

func TestE2E_ProviderNotFound(t *testing.T) {
	ts := setupTestServer(t)

	status, body := ts.do(t, http.MethodPost, "/watchlist", ts.token(t, domain.UserRoleUser),
		map[string]any{"apiId": "999999", "type": "MOVIE"})

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestE2E_ValidationAndAuth(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.token(t, domain.UserRoleUser)

	status, body := ts.do(t, http.MethodGet, "/watchlist", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body["code"])

	status, body = ts.do(t, http.MethodPost, "/watchlist", token, map[string]any{"type": "MOVIE", "rating": 11})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
	assert.Len(t, body["details"], 2)

	status, body = ts.do(t, http.MethodGet, "/watchlist?limit=31", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestE2E_Search(t *testing.T) {
	ts := setupTestServer(t)

	status, body := ts.do(t, http.MethodGet, "/media/search?type=movie&q=Titanic", "", nil)
	require.Equal(t, http.StatusOK, status)
	results := body["results"].([]any)
	require.Len(t, results, 2)
	assert.Equal(t, "Titanic", results[0].(map[string]any)["title"])

	// Served from cache the second time.
	status, _ = ts.do(t, http.MethodGet, "/media/search?type=movie&q=%20TITANIC%20", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int32(1), ts.TMDB.searchCalls.Load())

	status, body = ts.do(t, http.MethodGet, "/media/search?type=movie", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["results"])

	status, body = ts.do(t, http.MethodGet, "/media/search?type=anime&q=naruto", "", nil)
	assert.Equal(t, http.StatusNotImplemented, status)
	assert.Equal(t, "UNSUPPORTED_MEDIA_TYPE", body["code"])
}

func TestE2E_AdminMediaEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.token(t, domain.UserRoleAdmin)
	user := ts.token(t, domain.UserRoleUser)

	status, _ := ts.do(t, http.MethodPost, "/media", user, map[string]any{
		"apiSource": "TMDB", "apiId": "603", "title": "The Matrix", "type": "MOVIE",
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, rec := ts.do(t, http.MethodPost, "/media", admin, map[string]any{
		"apiSource": "TMDB", "apiId": "603", "title": "Matrix (draft)", "type": "MOVIE",
	})
	require.Equal(t, http.StatusCreated, status, rec)
	itemID := int64(rec["itemId"].(float64))

	status, rec = ts.do(t, http.MethodPost, "/media/"+itoa(itemID)+"/refresh", admin, nil)
	require.Equal(t, http.StatusOK, status, rec)
	assert.Equal(t, "The Matrix", rec["title"])
	assert.Equal(t, float64(136), rec["metadata"].(map[string]any)["runtime"])

	status, rec = ts.do(t, http.MethodPatch, "/media/"+itoa(itemID), admin, map[string]any{"title": "The Matrix (1999)"})
	require.Equal(t, http.StatusOK, status, rec)

	status, rec = ts.do(t, http.MethodGet, "/media/"+itoa(itemID), "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "The Matrix (1999)", rec["title"])
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
