package domain

import (
	"time"

	"github.com/google/uuid"
)

// ListEntry is one user's tracking row for one media item.
// CompletedAt is non-nil exactly when Status is COMPLETED.
type ListEntry struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	MediaItemID int64
	Status      WatchStatus
	Rating      *float64
	Comments    *string
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Media is populated by reads that join the media registry.
	Media *MediaRecord
}

// IsCompleted returns true if the entry is marked as completed.
func (e *ListEntry) IsCompleted() bool {
	return e.Status == WatchStatusCompleted
}

// CompletionTime returns the completed_at value implied by moving an entry
// into status next. prev is the current value (nil for a new entry).
func CompletionTime(next WatchStatus, prev *time.Time, now time.Time) *time.Time {
	if next != WatchStatusCompleted {
		return nil
	}
	if prev != nil {
		return prev
	}
	t := now
	return &t
}

// EntryPatch is a partial update of a list entry. Nil fields are left unchanged.
type EntryPatch struct {
	Status   *WatchStatus
	Rating   *float64
	Comments *string
}

// IsEmpty reports whether the patch changes nothing.
func (p EntryPatch) IsEmpty() bool {
	return p.Status == nil && p.Rating == nil && p.Comments == nil
}

// StatusCount is the number of entries a user has in one status.
type StatusCount struct {
	Status WatchStatus
	Count  int
}
