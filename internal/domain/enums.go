package domain

import "strings"

// MediaType is the kind of title tracked in a watchlist.
type MediaType string

const (
	MediaTypeMovie MediaType = "MOVIE"
	MediaTypeTV    MediaType = "TV"
	MediaTypeAnime MediaType = "ANIME"
	MediaTypeDrama MediaType = "DRAMA"
)

func (t MediaType) String() string { return string(t) }

func (t MediaType) IsValid() bool {
	switch t {
	case MediaTypeMovie, MediaTypeTV, MediaTypeAnime, MediaTypeDrama:
		return true
	}
	return false
}

// DefaultProvider returns the provider a title of this type is looked up in
// when the caller does not name one.
func (t MediaType) DefaultProvider() Provider {
	switch t {
	case MediaTypeAnime:
		return ProviderAniList
	case MediaTypeDrama:
		return ProviderMDL
	default:
		return ProviderTMDB
	}
}

// ParseMediaType accepts the upper or lower case form ("movie", "TV").
func ParseMediaType(s string) (MediaType, bool) {
	t := MediaType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.IsValid()
}

// Provider identifies an external metadata source.
type Provider string

const (
	ProviderTMDB    Provider = "TMDB"
	ProviderTVDB    Provider = "TVDB"
	ProviderAniList Provider = "ANILIST"
	ProviderMDL     Provider = "MDL"
)

func (p Provider) String() string { return string(p) }

func (p Provider) IsValid() bool {
	switch p {
	case ProviderTMDB, ProviderTVDB, ProviderAniList, ProviderMDL:
		return true
	}
	return false
}

// WatchStatus is the user's progress on a list entry.
type WatchStatus string

const (
	WatchStatusPlanToWatch WatchStatus = "PLAN_TO_WATCH"
	WatchStatusWatching    WatchStatus = "WATCHING"
	WatchStatusCompleted   WatchStatus = "COMPLETED"
	WatchStatusOnHold      WatchStatus = "ON_HOLD"
	WatchStatusDropped     WatchStatus = "DROPPED"
)

func (s WatchStatus) String() string { return string(s) }

func (s WatchStatus) IsValid() bool {
	switch s {
	case WatchStatusPlanToWatch, WatchStatusWatching, WatchStatusCompleted,
		WatchStatusOnHold, WatchStatusDropped:
		return true
	}
	return false
}

// AllWatchStatuses lists statuses in display order.
func AllWatchStatuses() []WatchStatus {
	return []WatchStatus{
		WatchStatusPlanToWatch, WatchStatusWatching, WatchStatusCompleted,
		WatchStatusOnHold, WatchStatusDropped,
	}
}

// SortKey selects the ordering of a watchlist page.
type SortKey string

const (
	SortLatest    SortKey = "latest"
	SortOldest    SortKey = "oldest"
	SortScoreHigh SortKey = "score_high"
	SortScoreLow  SortKey = "score_low"
	SortTitleAZ   SortKey = "title_az"
	SortTitleZA   SortKey = "title_za"
)

func (k SortKey) String() string { return string(k) }

func (k SortKey) IsValid() bool {
	switch k {
	case SortLatest, SortOldest, SortScoreHigh, SortScoreLow, SortTitleAZ, SortTitleZA:
		return true
	}
	return false
}

// ParseSortKey maps unknown or empty keys to SortLatest.
func ParseSortKey(s string) SortKey {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return SortLatest
	}
	return k
}

// UserRole represents the authorization level of a user.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleUser, UserRoleAdmin:
		return true
	}
	return false
}

// IsAdmin returns true if the role has admin privileges.
func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin
}
