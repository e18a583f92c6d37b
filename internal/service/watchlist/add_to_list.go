package watchlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/catalogus/catalogus-backend/internal/domain"
	"github.com/catalogus/catalogus-backend/internal/metrics"
	"github.com/catalogus/catalogus-backend/internal/provider"
	"github.com/catalogus/catalogus-backend/pkg/ctxutil"
)

// AddToList starts tracking a title for the caller.
//
// A media record that is still fresh is reused as is. A missing or stale one
// is fetched from the provider first (outside the transaction) and then
// upserted together with the new entry in one transaction. Returns
// domain.ErrAlreadyInList if the caller already tracks the title.
func (s *Service) AddToList(ctx context.Context, input AddToListInput) (*domain.ListEntry, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	input.ExternalID = strings.TrimSpace(input.ExternalID)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	p := input.Provider
	if p == "" {
		p = input.MediaType.DefaultProvider()
	}

	// 1. Early exit on duplicates. The unique constraint stays authoritative.
	exists, err := s.entries.ExistsByNaturalKey(ctx, userID, p, input.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("check existing entry: %w", err)
	}
	if exists {
		return nil, domain.ErrAlreadyInList
	}

	// 2. Look up the media registry.
	record, err := s.media.FindByNaturalKey(ctx, p, input.ExternalID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("find media: %w", err)
	}
	if err != nil {
		record = nil
	}

	// 3. Fetch from the provider when missing or stale. A stored record keeps
	// its type; movie and TV ids share one number space at TMDB.
	mediaType := input.MediaType
	if record != nil {
		mediaType = record.MediaType
	}
	now := time.Now()
	var fetched *provider.NormalizedMedia
	decision := metrics.DecisionFresh
	if !domain.IsFreshWithin(record, now, s.cfg.FreshnessWindow) {
		decision = metrics.DecisionMiss
		if record != nil {
			decision = metrics.DecisionStale
		}

		fetched, err = s.metadata.FetchDetails(ctx, p, input.ExternalID, mediaType)
		if err != nil {
			return nil, err
		}
	}

	status := domain.WatchStatusPlanToWatch
	if input.Status != nil {
		status = *input.Status
	}
	entry := &domain.ListEntry{
		UserID:      userID,
		Status:      status,
		Rating:      input.Rating,
		Comments:    input.Comments,
		CompletedAt: domain.CompletionTime(status, nil, now),
	}

	// 4. Persist media and entry together.
	var created *domain.ListEntry
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if fetched != nil {
			saved, upErr := s.media.UpsertByNaturalKey(txCtx, fetched)
			if upErr != nil {
				return fmt.Errorf("upsert media: %w", upErr)
			}
			record = saved
		}

		entry.MediaItemID = record.ItemID
		var createErr error
		created, createErr = s.entries.Create(txCtx, entry)
		if createErr != nil {
			return fmt.Errorf("create entry: %w", createErr)
		}
		return nil
	})
	if txErr != nil {
		// A concurrent add by the same user lost the race on the unique constraint.
		if errors.Is(txErr, domain.ErrAlreadyExists) {
			return nil, domain.ErrAlreadyInList
		}
		return nil, txErr
	}

	metrics.MetadataDecisions.WithLabelValues(decision).Inc()
	created.Media = record

	s.log.InfoContext(ctx, "title added to watchlist",
		slog.String("user_id", userID.String()),
		slog.String("entry_id", created.ID.String()),
		slog.String("provider", p.String()),
		slog.String("api_id", input.ExternalID),
		slog.String("metadata", decision),
	)

	return created, nil
}
