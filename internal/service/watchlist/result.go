package watchlist

import "github.com/catalogus/catalogus-backend/internal/domain"

// EntryPage is one page of a user's list.
type EntryPage struct {
	Items      []*domain.ListEntry
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// Stats summarizes a user's list by status. Every status is present.
type Stats struct {
	Total    int
	ByStatus []domain.StatusCount
}
