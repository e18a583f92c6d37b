// Package media implements the media registry using PostgreSQL.
// Records are keyed by the natural key (api_source, api_id) and are never
// deleted.
package media

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/catalogus/catalogus-backend/internal/adapter/postgres"
	"github.com/catalogus/catalogus-backend/internal/domain"
	"github.com/catalogus/catalogus-backend/internal/provider"
)

const table = "media_items"

var columns = []string{
	"item_id", "api_source", "api_id", "title", "type", "metadata", "created_at", "updated_at",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides media record persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new media repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

type row struct {
	ItemID    int64          `db:"item_id"`
	APISource string         `db:"api_source"`
	APIID     string         `db:"api_id"`
	Title     string         `db:"title"`
	Type      string         `db:"type"`
	Metadata  map[string]any `db:"metadata"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r row) toDomain() *domain.MediaRecord {
	md := domain.Metadata(r.Metadata)
	if md == nil {
		md = domain.Metadata{}
	}
	return &domain.MediaRecord{
		ItemID:     r.ItemID,
		Provider:   domain.Provider(r.APISource),
		ExternalID: r.APIID,
		Title:      r.Title,
		MediaType:  domain.MediaType(r.Type),
		Metadata:   md,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func metadataOrEmpty(md domain.Metadata) map[string]any {
	if md == nil {
		return map[string]any{}
	}
	return md
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// FindByNaturalKey returns the record for (provider, externalID).
// Returns domain.ErrNotFound if no such record exists.
func (r *Repo) FindByNaturalKey(ctx context.Context, p domain.Provider, externalID string) (*domain.MediaRecord, error) {
	query := psql.Select(columns...).From(table).
		Where(sq.Eq{"api_source": string(p), "api_id": externalID})

	return r.getOne(ctx, query, p.String()+":"+externalID)
}

// GetByID returns a record by its surrogate key.
func (r *Repo) GetByID(ctx context.Context, itemID int64) (*domain.MediaRecord, error) {
	query := psql.Select(columns...).From(table).Where(sq.Eq{"item_id": itemID})
	return r.getOne(ctx, query, itemID)
}

// Search returns local records whose title contains q, case-insensitively,
// most recently refreshed first.
func (r *Repo) Search(ctx context.Context, q string, mediaType *domain.MediaType, limit int) ([]*domain.MediaRecord, error) {
	query := psql.Select(columns...).From(table).
		Where(sq.ILike{"title": "%" + postgres.EscapeLike(q) + "%"}).
		OrderBy("updated_at DESC", "item_id DESC").
		Limit(uint64(limit))
	if mediaType != nil {
		query = query.Where(sq.Eq{"type": string(*mediaType)})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build media search: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("search media_items: %w", err)
	}

	out := make([]*domain.MediaRecord, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new record. Returns domain.ErrAlreadyExists if the
// natural key is taken.
func (r *Repo) Create(ctx context.Context, m *provider.NormalizedMedia) (*domain.MediaRecord, error) {
	query := psql.Insert(table).
		Columns("api_source", "api_id", "title", "type", "metadata").
		Values(string(m.Provider), m.ExternalID, m.Title, string(m.MediaType), metadataOrEmpty(m.Metadata)).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	return r.getOne(ctx, query, m.Provider.String()+":"+m.ExternalID)
}

// Refresh replaces the title and metadata of an existing record and bumps updated_at.
// Returns domain.ErrNotFound if the record vanished.
func (r *Repo) Refresh(ctx context.Context, itemID int64, m *provider.NormalizedMedia) (*domain.MediaRecord, error) {
	query := psql.Update(table).
		Set("title", m.Title).
		Set("metadata", metadataOrEmpty(m.Metadata)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"item_id": itemID}).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	return r.getOne(ctx, query, itemID)
}

// UpsertByNaturalKey inserts the record or, when (provider, external id)
// already exists, overwrites its title and metadata and bumps updated_at.
// Concurrent upserts of the same key leave exactly one row.
func (r *Repo) UpsertByNaturalKey(ctx context.Context, m *provider.NormalizedMedia) (*domain.MediaRecord, error) {
	query := psql.Insert(table).
		Columns("api_source", "api_id", "title", "type", "metadata").
		Values(string(m.Provider), m.ExternalID, m.Title, string(m.MediaType), metadataOrEmpty(m.Metadata)).
		Suffix("ON CONFLICT (api_source, api_id) DO UPDATE SET " +
			"title = EXCLUDED.title, metadata = EXCLUDED.metadata, updated_at = now() " +
			"RETURNING " + strings.Join(columns, ", "))

	return r.getOne(ctx, query, m.Provider.String()+":"+m.ExternalID)
}

// Update applies an administrative patch. Metadata edits bump updated_at.
func (r *Repo) Update(ctx context.Context, itemID int64, patch domain.MediaPatch) (*domain.MediaRecord, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, itemID)
	}

	query := psql.Update(table).Where(sq.Eq{"item_id": itemID})
	if patch.Title != nil {
		query = query.Set("title", *patch.Title)
	}
	if patch.Metadata != nil {
		query = query.Set("metadata", map[string]any(patch.Metadata)).
			Set("updated_at", sq.Expr("now()"))
	}
	query = query.Suffix("RETURNING " + strings.Join(columns, ", "))

	return r.getOne(ctx, query, itemID)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (r *Repo) getOne(ctx context.Context, query sq.Sqlizer, id any) (*domain.MediaRecord, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build media query: %w", err)
	}

	var dst row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &dst, sqlStr, args...); err != nil {
		return nil, postgres.MapError(err, "media_item", id)
	}
	return dst.toDomain(), nil
}
