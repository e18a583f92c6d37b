package watchlist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/catalogus/catalogus-backend/internal/domain"
	"github.com/catalogus/catalogus-backend/pkg/ctxutil"
)

// UpdateEntry applies a partial update to one of the caller's entries and
// returns the entry with its media attached. Moving to COMPLETED stamps the
// completion time unless one is already set; any other status clears it.
func (s *Service) UpdateEntry(ctx context.Context, input UpdateEntryInput) (*domain.ListEntry, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.ListEntry
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.entries.Update(txCtx, userID, input.EntryID, input.patch()); err != nil {
			return fmt.Errorf("update entry: %w", err)
		}

		var err error
		updated, err = s.entries.GetByID(txCtx, userID, input.EntryID)
		if err != nil {
			return fmt.Errorf("reload entry: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.InfoContext(ctx, "watchlist entry updated",
		slog.String("user_id", userID.String()),
		slog.String("entry_id", input.EntryID.String()),
		slog.String("status", updated.Status.String()),
	)

	return updated, nil
}

// DeleteEntry removes one of the caller's entries.
func (s *Service) DeleteEntry(ctx context.Context, entryID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := s.entries.Delete(ctx, userID, entryID); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "watchlist entry deleted",
		slog.String("user_id", userID.String()),
		slog.String("entry_id", entryID.String()),
	)
	return nil
}

// GetEntry returns one of the caller's entries with its media attached.
func (s *Service) GetEntry(ctx context.Context, entryID uuid.UUID) (*domain.ListEntry, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	return s.entries.GetByID(ctx, userID, entryID)
}
