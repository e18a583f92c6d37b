package media_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalogus/catalogus-backend/internal/adapter/postgres/media"
	"github.com/catalogus/catalogus-backend/internal/adapter/postgres/testhelper"
	"github.com/catalogus/catalogus-backend/internal/domain"
	"github.com/catalogus/catalogus-backend/internal/provider"
)

func newRepo(t *testing.T) (*media.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return media.New(pool), pool
}

func normalized(externalID, title string) *provider.NormalizedMedia {
	return &provider.NormalizedMedia{
		Title:      title,
		MediaType:  domain.MediaTypeMovie,
		Provider:   domain.ProviderTMDB,
		ExternalID: externalID,
		Metadata:   domain.Metadata{"runtime": float64(117)},
	}
}

func TestRepo_CreateAndFind(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, normalized("create-1", "Spirited Away"))
	require.NoError(t, err)
	assert.NotZero(t, created.ItemID)
	assert.Equal(t, "Spirited Away", created.Title)
	assert.Equal(t, float64(117), created.Metadata["runtime"])

	found, err := repo.FindByNaturalKey(ctx, domain.ProviderTMDB, "create-1")
	require.NoError(t, err)
	assert.Equal(t, created.ItemID, found.ItemID)

	byID, err := repo.GetByID(ctx, created.ItemID)
	require.NoError(t, err)
	assert.Equal(t, "create-1", byID.ExternalID)
}

func TestRepo_Create_Duplicate(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, normalized("dup-1", "A"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, normalized("dup-1", "B"))
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestRepo_FindByNaturalKey_NotFound(t *testing.T) {
	repo, _ := newRepo(t)

	_, err := repo.FindByNaturalKey(context.Background(), domain.ProviderTMDB, "missing-404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepo_Refresh(t *testing.T) {
	repo, pool := newRepo(t)
	ctx := context.Background()

	old := testhelper.SeedMediaCustom(t, pool, domain.ProviderTMDB, "refresh-1", "Old", domain.MediaTypeMovie,
		time.Now().Add(-10*24*time.Hour))

	refreshed, err := repo.Refresh(ctx, old.ItemID, normalized("refresh-1", "New"))
	require.NoError(t, err)
	assert.Equal(t, "New", refreshed.Title)
	assert.True(t, refreshed.UpdatedAt.After(old.UpdatedAt))
	assert.True(t, domain.IsFresh(refreshed, time.Now()))

	_, err = repo.Refresh(ctx, -1, normalized("refresh-1", "New"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepo_UpsertByNaturalKey(t *testing.T) {
	repo, pool := newRepo(t)
	ctx := context.Background()

	stale := testhelper.SeedMediaCustom(t, pool, domain.ProviderTMDB, "upsert-1", "Stale", domain.MediaTypeMovie,
		time.Now().Add(-8*24*time.Hour))

	got, err := repo.UpsertByNaturalKey(ctx, normalized("upsert-1", "Fresh"))
	require.NoError(t, err)
	assert.Equal(t, stale.ItemID, got.ItemID, "upsert must keep the surrogate key")
	assert.Equal(t, "Fresh", got.Title)
	assert.True(t, domain.IsFresh(got, time.Now()))

	inserted, err := repo.UpsertByNaturalKey(ctx, normalized("upsert-2", "Brand New"))
	require.NoError(t, err)
	assert.NotEqual(t, stale.ItemID, inserted.ItemID)
}

func TestRepo_UpsertByNaturalKey_Concurrent(t *testing.T) {
	repo, pool := newRepo(t)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	ids := make([]int64, workers)
	errs := make([]error, workers)

	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec, err := repo.UpsertByNaturalKey(ctx, normalized("race-1", "Race"))
			errs[i] = err
			if rec != nil {
				ids[i] = rec.ItemID
			}
		}(i)
	}
	wg.Wait()

	for i := range workers {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var count int
	err := pool.QueryRow(ctx, `SELECT count(*) FROM media_items WHERE api_source = 'TMDB' AND api_id = 'race-1'`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRepo_Search(t *testing.T) {
	repo, pool := newRepo(t)
	ctx := context.Background()

	suffix := time.Now().Format("150405.000000")
	testhelper.SeedMediaCustom(t, pool, domain.ProviderTMDB, "s1-"+suffix, "Zyx Matrix "+suffix, domain.MediaTypeMovie, time.Now())
	testhelper.SeedMediaCustom(t, pool, domain.ProviderTMDB, "s2-"+suffix, "zyx MATRIX Reloaded "+suffix, domain.MediaTypeTV, time.Now())
	testhelper.SeedMediaCustom(t, pool, domain.ProviderTMDB, "s3-"+suffix, "Other "+suffix, domain.MediaTypeMovie, time.Now())

	got, err := repo.Search(ctx, "zyx matrix", nil, 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	tv := domain.MediaTypeTV
	got, err = repo.Search(ctx, "zyx matrix", &tv, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.MediaTypeTV, got[0].MediaType)

	got, err = repo.Search(ctx, "%", nil, 10)
	require.NoError(t, err)
	for _, r := range got {
		assert.Contains(t, r.Title, "%", "wildcards must match literally")
	}
}

func TestRepo_Update(t *testing.T) {
	repo, pool := newRepo(t)
	ctx := context.Background()

	rec := testhelper.SeedMedia(t, pool, "Before")
	title := "After"

	got, err := repo.Update(ctx, rec.ItemID, domain.MediaPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "After", got.Title)
	assert.Equal(t, rec.Metadata, got.Metadata)

	got, err = repo.Update(ctx, rec.ItemID, domain.MediaPatch{Metadata: domain.Metadata{"overview": "x"}})
	require.NoError(t, err)
	assert.Equal(t, "x", got.Metadata["overview"])

	_, err = repo.Update(ctx, -5, domain.MediaPatch{Title: &title})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
