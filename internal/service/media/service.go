// Package media exposes the shared media registry: detail reads for everyone
// and administrative maintenance of cached records.
package media

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/catalogus/catalogus-backend/internal/domain"
	"github.com/catalogus/catalogus-backend/internal/provider"
	"github.com/catalogus/catalogus-backend/internal/validation"
	"github.com/catalogus/catalogus-backend/pkg/ctxutil"
)

type mediaRepo interface {
	GetByID(ctx context.Context, itemID int64) (*domain.MediaRecord, error)
	Create(ctx context.Context, m *provider.NormalizedMedia) (*domain.MediaRecord, error)
	Refresh(ctx context.Context, itemID int64, m *provider.NormalizedMedia) (*domain.MediaRecord, error)
	Update(ctx context.Context, itemID int64, patch domain.MediaPatch) (*domain.MediaRecord, error)
}

type metadataClient interface {
	FetchDetails(ctx context.Context, p domain.Provider, externalID string, t domain.MediaType) (*provider.NormalizedMedia, error)
}

var validate = validation.New()

// Service implements media registry reads and admin operations.
type Service struct {
	log      *slog.Logger
	media    mediaRepo
	metadata metadataClient
}

// NewService creates a new Media service.
func NewService(logger *slog.Logger, media mediaRepo, metadata metadataClient) *Service {
	return &Service{
		log:      logger.With("service", "media"),
		media:    media,
		metadata: metadata,
	}
}

// CreateInput holds a record inserted directly by an administrator.
type CreateInput struct {
	Provider   domain.Provider  `json:"apiSource" validate:"required,provider"`
	ExternalID string           `json:"apiId"     validate:"required,max=64"`
	Title      string           `json:"title"     validate:"required,max=500"`
	MediaType  domain.MediaType `json:"type"      validate:"required,media_type"`
	Metadata   domain.Metadata  `json:"metadata"`
}

// UpdateInput holds an administrative edit. Nil fields are left unchanged.
type UpdateInput struct {
	ItemID   int64           `json:"-"        validate:"gt=0"`
	Title    *string         `json:"title"    validate:"omitnil,min=1,max=500"`
	Metadata domain.Metadata `json:"metadata"`
}

// GetByID returns a media record.
func (s *Service) GetByID(ctx context.Context, itemID int64) (*domain.MediaRecord, error) {
	return s.media.GetByID(ctx, itemID)
}

// Create inserts a record without consulting the provider (admin only).
// Returns domain.ErrAlreadyExists if the natural key is taken.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.MediaRecord, error) {
	if !ctxutil.IsAdminCtx(ctx) {
		return nil, domain.ErrForbidden
	}

	input.ExternalID = strings.TrimSpace(input.ExternalID)
	input.Title = strings.TrimSpace(input.Title)
	if err := validate.Validate(&input); err != nil {
		return nil, err
	}

	rec, err := s.media.Create(ctx, &provider.NormalizedMedia{
		Title:      input.Title,
		MediaType:  input.MediaType,
		Provider:   input.Provider,
		ExternalID: input.ExternalID,
		Metadata:   input.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("media.Create: %w", err)
	}

	s.log.InfoContext(ctx, "media record created",
		slog.Int64("item_id", rec.ItemID),
		slog.String("provider", rec.Provider.String()),
		slog.String("api_id", rec.ExternalID),
	)
	return rec, nil
}

// Update edits a record's title and/or metadata (admin only).
func (s *Service) Update(ctx context.Context, input UpdateInput) (*domain.MediaRecord, error) {
	if !ctxutil.IsAdminCtx(ctx) {
		return nil, domain.ErrForbidden
	}

	if input.Title != nil {
		t := strings.TrimSpace(*input.Title)
		input.Title = &t
	}
	patch := domain.MediaPatch{Title: input.Title, Metadata: input.Metadata}
	if patch.IsEmpty() {
		return nil, domain.NewValidationError("body", "at least one of title, metadata is required")
	}
	if err := validate.Validate(&input); err != nil {
		return nil, err
	}

	rec, err := s.media.Update(ctx, input.ItemID, patch)
	if err != nil {
		return nil, fmt.Errorf("media.Update: %w", err)
	}

	s.log.InfoContext(ctx, "media record updated", slog.Int64("item_id", rec.ItemID))
	return rec, nil
}

// Refresh re-fetches a record from its provider and overwrites the cached
// copy (admin only).
func (s *Service) Refresh(ctx context.Context, itemID int64) (*domain.MediaRecord, error) {
	if !ctxutil.IsAdminCtx(ctx) {
		return nil, domain.ErrForbidden
	}

	current, err := s.media.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	fetched, err := s.metadata.FetchDetails(ctx, current.Provider, current.ExternalID, current.MediaType)
	if err != nil {
		return nil, err
	}

	rec, err := s.media.Refresh(ctx, itemID, fetched)
	if err != nil {
		return nil, fmt.Errorf("media.Refresh: %w", err)
	}

	s.log.InfoContext(ctx, "media record refreshed", slog.Int64("item_id", rec.ItemID))
	return rec, nil
}
