// Package watchlist implements the per-user list of tracked titles.
package watchlist

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/catalogus/catalogus-backend/internal/config"
	"github.com/catalogus/catalogus-backend/internal/domain"
	"github.com/catalogus/catalogus-backend/internal/provider"
	"github.com/catalogus/catalogus-backend/internal/validation"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type entryRepo interface {
	ExistsByNaturalKey(ctx context.Context, userID uuid.UUID, p domain.Provider, externalID string) (bool, error)
	GetByID(ctx context.Context, userID, entryID uuid.UUID) (*domain.ListEntry, error)
	List(ctx context.Context, userID uuid.UUID, f domain.EntryFilter) ([]*domain.ListEntry, error)
	Count(ctx context.Context, userID uuid.UUID, f domain.EntryFilter) (int, error)
	CountByStatus(ctx context.Context, userID uuid.UUID) ([]domain.StatusCount, error)
	Create(ctx context.Context, e *domain.ListEntry) (*domain.ListEntry, error)
	Update(ctx context.Context, userID, entryID uuid.UUID, patch domain.EntryPatch) (*domain.ListEntry, error)
	Delete(ctx context.Context, userID, entryID uuid.UUID) error
}

type mediaRepo interface {
	FindByNaturalKey(ctx context.Context, p domain.Provider, externalID string) (*domain.MediaRecord, error)
	UpsertByNaturalKey(ctx context.Context, m *provider.NormalizedMedia) (*domain.MediaRecord, error)
}

type metadataClient interface {
	FetchDetails(ctx context.Context, p domain.Provider, externalID string, t domain.MediaType) (*provider.NormalizedMedia, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

var validate = validation.New()

// Service implements watchlist business logic.
type Service struct {
	log      *slog.Logger
	entries  entryRepo
	media    mediaRepo
	metadata metadataClient
	tx       txManager
	cfg      config.WatchlistConfig
}

// NewService creates a new Watchlist service.
func NewService(
	logger *slog.Logger,
	entries entryRepo,
	media mediaRepo,
	metadata metadataClient,
	tx txManager,
	cfg config.WatchlistConfig,
) *Service {
	return &Service{
		log:      logger.With("service", "watchlist"),
		entries:  entries,
		media:    media,
		metadata: metadata,
		tx:       tx,
		cfg:      cfg,
	}
}
