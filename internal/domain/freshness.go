package domain

import "time"

// FreshnessWindow is how long cached metadata is served without asking the provider again.
const FreshnessWindow = 7 * 24 * time.Hour

// IsFresh reports whether record was refreshed less than FreshnessWindow before now.
// A nil record is never fresh.
func IsFresh(record *MediaRecord, now time.Time) bool {
	return IsFreshWithin(record, now, FreshnessWindow)
}

// IsFreshWithin is IsFresh with a configurable window.
func IsFreshWithin(record *MediaRecord, now time.Time, window time.Duration) bool {
	if record == nil {
		return false
	}
	return now.Sub(record.UpdatedAt) < window
}
