package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/catalogus/catalogus-backend/internal/domain"
	"github.com/catalogus/catalogus-backend/internal/service/watchlist"
)

type watchlistService interface {
	AddToList(ctx context.Context, input watchlist.AddToListInput) (*domain.ListEntry, error)
	ListEntries(ctx context.Context, input watchlist.ListEntriesInput) (*watchlist.EntryPage, error)
	GetEntry(ctx context.Context, entryID uuid.UUID) (*domain.ListEntry, error)
	UpdateEntry(ctx context.Context, input watchlist.UpdateEntryInput) (*domain.ListEntry, error)
	DeleteEntry(ctx context.Context, entryID uuid.UUID) error
	Stats(ctx context.Context) (*watchlist.Stats, error)
}

// WatchlistHandler serves the authenticated user's list.
type WatchlistHandler struct {
	svc watchlistService
	log *slog.Logger
}

// NewWatchlistHandler creates a WatchlistHandler.
func NewWatchlistHandler(svc watchlistService, logger *slog.Logger) *WatchlistHandler {
	return &WatchlistHandler{svc: svc, log: logger.With("handler", "watchlist")}
}

type addEntryRequest struct {
	APISource string     `json:"apiSource"`
	APIID     flexString `json:"apiId"`
	Type      string     `json:"type"`
	Status    *string    `json:"status"`
	Rating    *float64   `json:"rating"`
	Comments  *string    `json:"comments"`
}

type updateEntryRequest struct {
	Status   *string  `json:"status"`
	Rating   *float64 `json:"rating"`
	Comments *string  `json:"comments"`
}

// List handles GET /watchlist.
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := queryInt(r, "page")
	if !ok {
		writeValidation(w, "page", "must be an integer")
		return
	}
	limit, ok := queryInt(r, "limit")
	if !ok {
		writeValidation(w, "limit", "must be an integer")
		return
	}

	input := watchlist.ListEntriesInput{
		Page:   page,
		Limit:  limit,
		Status: parseStatus(queryString(r, "status")),
		Query:  queryString(r, "q"),
		Sort:   domain.ParseSortKey(r.URL.Query().Get("sort")),
	}
	if raw := queryString(r, "type"); raw != nil {
		t, _ := domain.ParseMediaType(*raw)
		input.MediaType = &t
	}

	result, err := h.svc.ListEntries(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryPageResponse(result))
}

// Add handles POST /watchlist.
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	t, _ := domain.ParseMediaType(req.Type)
	input := watchlist.AddToListInput{
		Provider:   domain.Provider(strings.ToUpper(strings.TrimSpace(req.APISource))),
		ExternalID: string(req.APIID),
		MediaType:  t,
		Status:     parseStatus(req.Status),
		Rating:     req.Rating,
		Comments:   req.Comments,
	}

	entry, err := h.svc.AddToList(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryResponse(entry))
}

// Stats handles GET /watchlist/stats.
func (h *WatchlistHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatsResponse(stats))
}

// Get handles GET /watchlist/{id}.
func (h *WatchlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := entryIDParam(w, r)
	if !ok {
		return
	}
	entry, err := h.svc.GetEntry(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

// Update handles PATCH /watchlist/{id}.
func (h *WatchlistHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := entryIDParam(w, r)
	if !ok {
		return
	}
	var req updateEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.svc.UpdateEntry(r.Context(), watchlist.UpdateEntryInput{
		EntryID:  id,
		Status:   parseStatus(req.Status),
		Rating:   req.Rating,
		Comments: req.Comments,
	})
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

// Delete handles DELETE /watchlist/{id}.
func (h *WatchlistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := entryIDParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteEntry(r.Context(), id); err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func entryIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeValidation(w, "id", "must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// parseStatus upper-cases a status so "completed" is accepted. Unknown
// values pass through and fail validation in the service.
func parseStatus(raw *string) *domain.WatchStatus {
	if raw == nil {
		return nil
	}
	s := domain.WatchStatus(strings.ToUpper(strings.TrimSpace(*raw)))
	return &s
}
