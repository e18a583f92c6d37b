package entry

import (
	sq "github.com/Masterminds/squirrel"

	postgres "github.com/catalogus/catalogus-backend/internal/adapter/postgres"
	"github.com/catalogus/catalogus-backend/internal/domain"
)

// orderBy returns ORDER BY terms for key. entry_id breaks ties so pages are
// stable. Unknown keys sort like latest. Unrated entries sort as the lowest rating.
func orderBy(key domain.SortKey) []string {
	switch key {
	case domain.SortOldest:
		return []string{"e.updated_at ASC", "e.entry_id ASC"}
	case domain.SortScoreHigh:
		return []string{"e.rating DESC NULLS LAST", "e.entry_id DESC"}
	case domain.SortScoreLow:
		return []string{"e.rating ASC NULLS FIRST", "e.entry_id ASC"}
	case domain.SortTitleAZ:
		return []string{"lower(m.title) ASC", "e.entry_id ASC"}
	case domain.SortTitleZA:
		return []string{"lower(m.title) DESC", "e.entry_id DESC"}
	default:
		return []string{"e.updated_at DESC", "e.entry_id DESC"}
	}
}

// applyFilter adds the user scope and every set filter, combined with AND.
// The page query and the count query share it so the total matches the page.
func applyFilter(b sq.SelectBuilder, userID any, f domain.EntryFilter) sq.SelectBuilder {
	b = b.Where(sq.Eq{"e.user_id": userID})
	if f.Status != nil {
		b = b.Where(sq.Eq{"e.status": string(*f.Status)})
	}
	if f.MediaType != nil {
		b = b.Where(sq.Eq{"m.type": string(*f.MediaType)})
	}
	if f.Search != nil && *f.Search != "" {
		b = b.Where(sq.ILike{"m.title": "%" + postgres.EscapeLike(*f.Search) + "%"})
	}
	return b
}
