package watchlist

import (
	"context"
	"fmt"
	"strings"

	"github.com/catalogus/catalogus-backend/internal/domain"
	"github.com/catalogus/catalogus-backend/pkg/ctxutil"
)

// ListEntries returns one page of the caller's list. Filters combine
// conjunctively; an unknown sort key falls back to latest.
func (s *Service) ListEntries(ctx context.Context, input ListEntriesInput) (*EntryPage, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(s.cfg.MaxPageSize); err != nil {
		return nil, err
	}

	page := input.Page
	if page == 0 {
		page = 1
	}
	limit := input.Limit
	if limit == 0 {
		limit = s.cfg.DefaultPageSize
	}

	filter := domain.EntryFilter{
		Status:    input.Status,
		MediaType: input.MediaType,
		Sort:      domain.ParseSortKey(input.Sort.String()),
		Limit:     limit,
		Offset:    (page - 1) * limit,
	}
	if input.Query != nil {
		if q := strings.TrimSpace(*input.Query); q != "" {
			filter.Search = &q
		}
	}

	items, err := s.entries.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	total, err := s.entries.Count(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}

	return &EntryPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

// Stats returns the caller's entry counts per status, zero-filled.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	counts, err := s.entries.CountByStatus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}

	byStatus := make(map[domain.WatchStatus]int, len(counts))
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}

	stats := &Stats{}
	for _, st := range domain.AllWatchStatuses() {
		n := byStatus[st]
		stats.Total += n
		stats.ByStatus = append(stats.ByStatus, domain.StatusCount{Status: st, Count: n})
	}
	return stats, nil
}
