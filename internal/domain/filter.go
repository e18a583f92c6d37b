package domain

// EntryFilter contains filtering/pagination parameters for watchlist queries.
// All set filters are combined conjunctively.
type EntryFilter struct {
	Status    *WatchStatus
	MediaType *MediaType
	Search    *string
	Sort      SortKey
	Limit     int
	Offset    int
}
