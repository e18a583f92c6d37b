// Package entry implements the watchlist entry repository using PostgreSQL.
// Every read and write is scoped by user_id so an entry owned by someone
// else is indistinguishable from a missing one.
package entry

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/catalogus/catalogus-backend/internal/adapter/postgres"
	"github.com/catalogus/catalogus-backend/internal/domain"
)

const table = "watchlist_entries"

var entryColumns = []string{
	"entry_id", "user_id", "media_item_id", "status", "rating", "comments",
	"completed_at", "created_at", "updated_at",
}

var joinedColumns = []string{
	"e.entry_id", "e.user_id", "e.media_item_id", "e.status", "e.rating", "e.comments",
	"e.completed_at", "e.created_at", "e.updated_at",
	"m.api_source AS m_api_source", "m.api_id AS m_api_id", "m.title AS m_title",
	"m.type AS m_type", "m.metadata AS m_metadata",
	"m.created_at AS m_created_at", "m.updated_at AS m_updated_at",
}

const joinMedia = "media_items m ON m.item_id = e.media_item_id"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides watchlist entry persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new entry repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

type entryRow struct {
	EntryID     uuid.UUID  `db:"entry_id"`
	UserID      uuid.UUID  `db:"user_id"`
	MediaItemID int64      `db:"media_item_id"`
	Status      string     `db:"status"`
	Rating      *float64   `db:"rating"`
	Comments    *string    `db:"comments"`
	CompletedAt *time.Time `db:"completed_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

type joinedRow struct {
	entryRow
	MediaSource    string         `db:"m_api_source"`
	MediaAPIID     string         `db:"m_api_id"`
	MediaTitle     string         `db:"m_title"`
	MediaType      string         `db:"m_type"`
	MediaMetadata  map[string]any `db:"m_metadata"`
	MediaCreatedAt time.Time      `db:"m_created_at"`
	MediaUpdatedAt time.Time      `db:"m_updated_at"`
}

func (r entryRow) toDomain() *domain.ListEntry {
	return &domain.ListEntry{
		ID:          r.EntryID,
		UserID:      r.UserID,
		MediaItemID: r.MediaItemID,
		Status:      domain.WatchStatus(r.Status),
		Rating:      r.Rating,
		Comments:    r.Comments,
		CompletedAt: r.CompletedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (r joinedRow) toDomain() *domain.ListEntry {
	e := r.entryRow.toDomain()
	md := domain.Metadata(r.MediaMetadata)
	if md == nil {
		md = domain.Metadata{}
	}
	e.Media = &domain.MediaRecord{
		ItemID:     r.MediaItemID,
		Provider:   domain.Provider(r.MediaSource),
		ExternalID: r.MediaAPIID,
		Title:      r.MediaTitle,
		MediaType:  domain.MediaType(r.MediaType),
		Metadata:   md,
		CreatedAt:  r.MediaCreatedAt,
		UpdatedAt:  r.MediaUpdatedAt,
	}
	return e
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ExistsByNaturalKey reports whether the user already tracks the media item
// identified by (provider, externalID).
func (r *Repo) ExistsByNaturalKey(ctx context.Context, userID uuid.UUID, p domain.Provider, externalID string) (bool, error) {
	// Nested builders keep '?' placeholders; the outer builder renumbers them.
	sub := sq.Select("1").From(table + " e").Join(joinMedia).
		Where(sq.Eq{"e.user_id": userID, "m.api_source": string(p), "m.api_id": externalID})

	query := psql.Select().Column(sq.Expr("EXISTS (?)", sub))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists query: %w", err)
	}

	var exists bool
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sqlStr, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check watchlist entry %s:%s: %w", p, externalID, err)
	}
	return exists, nil
}

// GetByID returns the user's entry with its media record attached.
// Returns domain.ErrNotFound if the entry does not exist or belongs to another user.
func (r *Repo) GetByID(ctx context.Context, userID, entryID uuid.UUID) (*domain.ListEntry, error) {
	query := psql.Select(joinedColumns...).From(table + " e").Join(joinMedia).
		Where(sq.Eq{"e.entry_id": entryID, "e.user_id": userID})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build entry query: %w", err)
	}

	var dst joinedRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &dst, sqlStr, args...); err != nil {
		return nil, postgres.MapError(err, "watchlist_entry", entryID)
	}
	return dst.toDomain(), nil
}

// List returns one page of the user's entries matching f, with media attached.
func (r *Repo) List(ctx context.Context, userID uuid.UUID, f domain.EntryFilter) ([]*domain.ListEntry, error) {
	if f.Limit < 0 || f.Offset < 0 {
		return nil, fmt.Errorf("list entries: negative limit or offset: %w", domain.ErrValidation)
	}

	query := applyFilter(psql.Select(joinedColumns...).From(table+" e").Join(joinMedia), userID, f).
		OrderBy(orderBy(f.Sort)...).
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	var rows []joinedRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("list watchlist_entries: %w", err)
	}

	out := make([]*domain.ListEntry, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

// Count returns the number of the user's entries matching f, ignoring paging.
func (r *Repo) Count(ctx context.Context, userID uuid.UUID, f domain.EntryFilter) (int, error) {
	query := applyFilter(psql.Select("count(*)").From(table+" e").Join(joinMedia), userID, f)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count watchlist_entries: %w", err)
	}
	return total, nil
}

// CountByStatus returns how many entries the user has per status.
// Statuses with no entries are omitted.
func (r *Repo) CountByStatus(ctx context.Context, userID uuid.UUID) ([]domain.StatusCount, error) {
	query := psql.Select("status", "count(*) AS count").From(table).
		Where(sq.Eq{"user_id": userID}).
		GroupBy("status").
		OrderBy("status")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build stats query: %w", err)
	}

	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("count watchlist_entries by status: %w", err)
	}

	out := make([]domain.StatusCount, len(rows))
	for i, row := range rows {
		out[i] = domain.StatusCount{Status: domain.WatchStatus(row.Status), Count: row.Count}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new entry. A zero ID is replaced with a fresh UUID.
// Returns domain.ErrAlreadyExists if the user already tracks the media item
// and domain.ErrNotFound if the media item does not exist.
func (r *Repo) Create(ctx context.Context, e *domain.ListEntry) (*domain.ListEntry, error) {
	id := e.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	query := psql.Insert(table).
		Columns("entry_id", "user_id", "media_item_id", "status", "rating", "comments", "completed_at").
		Values(id, e.UserID, e.MediaItemID, string(e.Status), e.Rating, e.Comments, e.CompletedAt).
		Suffix("RETURNING " + strings.Join(entryColumns, ", "))

	return r.writeOne(ctx, query, id)
}

// Update applies patch to the user's entry and bumps updated_at.
// A status change recomputes completed_at: entering COMPLETED stamps it
// unless already set, any other status clears it.
// Returns domain.ErrNotFound if the entry does not exist or belongs to another user.
func (r *Repo) Update(ctx context.Context, userID, entryID uuid.UUID, patch domain.EntryPatch) (*domain.ListEntry, error) {
	query := psql.Update(table).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"entry_id": entryID, "user_id": userID})

	if patch.Status != nil {
		query = query.Set("status", string(*patch.Status))
		if *patch.Status == domain.WatchStatusCompleted {
			query = query.Set("completed_at", sq.Expr("COALESCE(completed_at, now())"))
		} else {
			query = query.Set("completed_at", nil)
		}
	}
	if patch.Rating != nil {
		query = query.Set("rating", *patch.Rating)
	}
	if patch.Comments != nil {
		query = query.Set("comments", *patch.Comments)
	}

	query = query.Suffix("RETURNING " + strings.Join(entryColumns, ", "))

	return r.writeOne(ctx, query, entryID)
}

// Delete removes the user's entry.
// Returns domain.ErrNotFound if the entry does not exist or belongs to another user.
func (r *Repo) Delete(ctx context.Context, userID, entryID uuid.UUID) error {
	query := psql.Delete(table).Where(sq.Eq{"entry_id": entryID, "user_id": userID})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sqlStr, args...)
	if err != nil {
		return postgres.MapError(err, "watchlist_entry", entryID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("watchlist_entry %s: %w", entryID, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) writeOne(ctx context.Context, query sq.Sqlizer, id uuid.UUID) (*domain.ListEntry, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build entry write: %w", err)
	}

	var dst entryRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &dst, sqlStr, args...); err != nil {
		return nil, postgres.MapError(err, "watchlist_entry", id)
	}
	return dst.toDomain(), nil
}
