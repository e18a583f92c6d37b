package metadata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/catalogus/catalogus-backend/internal/domain"
	"github.com/catalogus/catalogus-backend/internal/provider"
)

// FetchDetails retrieves and normalizes a title's details from its provider.
// It has no persistence side effects.
func (s *Service) FetchDetails(ctx context.Context, p domain.Provider, externalID string, t domain.MediaType) (*provider.NormalizedMedia, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, domain.NewValidationError("apiId", "required")
	}

	st, ok := s.strategyFor(p, t)
	if !ok {
		s.log.InfoContext(ctx, "no provider strategy",
			slog.String("provider", p.String()),
			slog.String("type", t.String()),
		)
	}

	media, err := st.fetch(ctx, externalID)
	if err != nil {
		if !errors.Is(err, domain.ErrUnsupportedMediaType) && !errors.Is(err, domain.ErrNotFound) {
			s.log.ErrorContext(ctx, "provider fetch failed",
				slog.String("provider", p.String()),
				slog.String("type", t.String()),
				slog.String("api_id", externalID),
				slog.String("error", err.Error()),
			)
		}
		return nil, fmt.Errorf("fetch %s %s/%s: %w", p, t, externalID, err)
	}

	return media, nil
}
