package rest

import (
	"time"

	"github.com/google/uuid"

	"github.com/catalogus/catalogus-backend/internal/domain"
	"github.com/catalogus/catalogus-backend/internal/provider"
	"github.com/catalogus/catalogus-backend/internal/service/watchlist"
)

type mediaResponse struct {
	ItemID    int64            `json:"itemId"`
	APISource domain.Provider  `json:"apiSource"`
	APIID     string           `json:"apiId"`
	Title     string           `json:"title"`
	Type      domain.MediaType `json:"type"`
	Metadata  domain.Metadata  `json:"metadata"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

func toMediaResponse(m *domain.MediaRecord) *mediaResponse {
	if m == nil {
		return nil
	}
	md := m.Metadata
	if md == nil {
		md = domain.Metadata{}
	}
	return &mediaResponse{
		ItemID:    m.ItemID,
		APISource: m.Provider,
		APIID:     m.ExternalID,
		Title:     m.Title,
		Type:      m.MediaType,
		Metadata:  md,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type entryResponse struct {
	ID          uuid.UUID          `json:"id"`
	UserID      uuid.UUID          `json:"userId"`
	MediaItemID int64              `json:"mediaItemId"`
	Status      domain.WatchStatus `json:"status"`
	Rating      *float64           `json:"rating"`
	Comments    *string            `json:"comments"`
	CompletedAt *time.Time         `json:"completedAt"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	Media       *mediaResponse     `json:"media,omitempty"`
}

func toEntryResponse(e *domain.ListEntry) entryResponse {
	return entryResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		MediaItemID: e.MediaItemID,
		Status:      e.Status,
		Rating:      e.Rating,
		Comments:    e.Comments,
		CompletedAt: e.CompletedAt,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		Media:       toMediaResponse(e.Media),
	}
}

type entryPageResponse struct {
	Items      []entryResponse `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"totalPages"`
}

func toEntryPageResponse(p *watchlist.EntryPage) entryPageResponse {
	items := make([]entryResponse, len(p.Items))
	for i, e := range p.Items {
		items[i] = toEntryResponse(e)
	}
	return entryPageResponse{
		Items:      items,
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}

type statsResponse struct {
	Total    int                        `json:"total"`
	ByStatus map[domain.WatchStatus]int `json:"byStatus"`
}

func toStatsResponse(s *watchlist.Stats) statsResponse {
	by := make(map[domain.WatchStatus]int, len(s.ByStatus))
	for _, c := range s.ByStatus {
		by[c.Status] = c.Count
	}
	return statsResponse{Total: s.Total, ByStatus: by}
}

type searchResultResponse struct {
	Title     string           `json:"title"`
	APISource domain.Provider  `json:"apiSource"`
	APIID     string           `json:"apiId"`
	Type      domain.MediaType `json:"type"`
	Metadata  domain.Metadata  `json:"metadata"`
	ItemID    *int64           `json:"itemId,omitempty"`
}

type searchResponse struct {
	Results []searchResultResponse `json:"results"`
}

func toSearchResponse(results []provider.SearchResult) searchResponse {
	out := make([]searchResultResponse, len(results))
	for i, r := range results {
		md := r.Metadata
		if md == nil {
			md = domain.Metadata{}
		}
		out[i] = searchResultResponse{
			Title:     r.Title,
			APISource: r.Provider,
			APIID:     r.ExternalID,
			Type:      r.MediaType,
			Metadata:  md,
			ItemID:    r.ItemID,
		}
	}
	return searchResponse{Results: out}
}
