package domain

import "time"

// Metadata is the provider-normalized document stored alongside a media item.
type Metadata map[string]any

// MediaRecord is the locally cached copy of a provider's title.
// (Provider, ExternalID) is unique across all records.
type MediaRecord struct {
	ItemID     int64
	Provider   Provider
	ExternalID string
	Title      string
	MediaType  MediaType
	Metadata   Metadata
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MediaPatch is an administrative edit of a media record. Nil fields are left unchanged.
type MediaPatch struct {
	Title    *string
	Metadata Metadata
}

// IsEmpty reports whether the patch changes nothing.
func (p MediaPatch) IsEmpty() bool {
	return p.Title == nil && p.Metadata == nil
}
