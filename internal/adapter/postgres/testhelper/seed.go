package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/catalogus/catalogus-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedMedia inserts a TMDB movie with a unique external id and the given title.
func SeedMedia(t *testing.T, pool *pgxpool.Pool, title string) domain.MediaRecord {
	t.Helper()
	return SeedMediaCustom(t, pool, domain.ProviderTMDB, "ext-"+uniqueSuffix(), title, domain.MediaTypeMovie, time.Now())
}

// SeedMediaCustom inserts a media record with explicit fields. updatedAt lets
// tests place the record on either side of the freshness window.
func SeedMediaCustom(
	t *testing.T, pool *pgxpool.Pool,
	p domain.Provider, externalID, title string, mediaType domain.MediaType, updatedAt time.Time,
) domain.MediaRecord {
	t.Helper()
	ctx := context.Background()

	rec := domain.MediaRecord{
		Provider:   p,
		ExternalID: externalID,
		Title:      title,
		MediaType:  mediaType,
		Metadata:   domain.Metadata{"seeded": true},
		UpdatedAt:  updatedAt.UTC().Truncate(time.Microsecond),
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO media_items (api_source, api_id, title, type, metadata, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING item_id, created_at`,
		string(rec.Provider), rec.ExternalID, rec.Title, string(rec.MediaType), map[string]any(rec.Metadata), rec.UpdatedAt,
	).Scan(&rec.ItemID, &rec.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedMedia insert: %v", err)
	}

	return rec
}

// SeedEntry inserts a list entry for userID pointing at mediaItemID.
// rating may be nil. completed_at follows status.
func SeedEntry(
	t *testing.T, pool *pgxpool.Pool,
	userID uuid.UUID, mediaItemID int64, status domain.WatchStatus, rating *float64, updatedAt time.Time,
) domain.ListEntry {
	t.Helper()
	ctx := context.Background()

	updatedAt = updatedAt.UTC().Truncate(time.Microsecond)
	e := domain.ListEntry{
		ID:          uuid.New(),
		UserID:      userID,
		MediaItemID: mediaItemID,
		Status:      status,
		Rating:      rating,
		CompletedAt: domain.CompletionTime(status, nil, updatedAt),
		CreatedAt:   updatedAt,
		UpdatedAt:   updatedAt,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO watchlist_entries
		   (entry_id, user_id, media_item_id, status, rating, completed_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.UserID, e.MediaItemID, string(e.Status), e.Rating, e.CompletedAt, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedEntry insert: %v", err)
	}

	return e
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
