package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/catalogus/catalogus-backend/internal/domain"
	"github.com/catalogus/catalogus-backend/internal/provider"
	"github.com/catalogus/catalogus-backend/internal/service/media"
)

type searchService interface {
	Search(ctx context.Context, t domain.MediaType, query string) ([]provider.SearchResult, error)
	Supports(p domain.Provider, t domain.MediaType) bool
}

type mediaService interface {
	GetByID(ctx context.Context, itemID int64) (*domain.MediaRecord, error)
	Create(ctx context.Context, input media.CreateInput) (*domain.MediaRecord, error)
	Update(ctx context.Context, input media.UpdateInput) (*domain.MediaRecord, error)
	Refresh(ctx context.Context, itemID int64) (*domain.MediaRecord, error)
}

// MediaHandler serves title search and the shared media registry.
type MediaHandler struct {
	search searchService
	media  mediaService
	log    *slog.Logger
}

// NewMediaHandler creates a MediaHandler.
func NewMediaHandler(search searchService, media mediaService, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{search: search, media: media, log: logger.With("handler", "media")}
}

type createMediaRequest struct {
	APISource string          `json:"apiSource"`
	APIID     flexString      `json:"apiId"`
	Title     string          `json:"title"`
	Type      string          `json:"type"`
	Metadata  domain.Metadata `json:"metadata"`
}

type updateMediaRequest struct {
	Title    *string         `json:"title"`
	Metadata domain.Metadata `json:"metadata"`
}

// Search handles GET /media/search?type=&q=. A missing query or unknown type
// yields an empty result rather than an error.
func (h *MediaHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	t, ok := domain.ParseMediaType(r.URL.Query().Get("type"))
	if !ok || strings.TrimSpace(q) == "" {
		writeJSON(w, http.StatusOK, toSearchResponse(nil))
		return
	}
	if !h.search.Supports(t.DefaultProvider(), t) {
		writeDomainError(w, r, h.log, domain.ErrUnsupportedMediaType)
		return
	}

	results, err := h.search.Search(r.Context(), t, q)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toSearchResponse(results))
}

// Get handles GET /media/{id}.
func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := itemIDParam(w, r)
	if !ok {
		return
	}
	rec, err := h.media.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toMediaResponse(rec))
}

// Create handles POST /media (admin).
func (h *MediaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMediaRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	t, _ := domain.ParseMediaType(req.Type)
	rec, err := h.media.Create(r.Context(), media.CreateInput{
		Provider:   domain.Provider(strings.ToUpper(strings.TrimSpace(req.APISource))),
		ExternalID: string(req.APIID),
		Title:      req.Title,
		MediaType:  t,
		Metadata:   req.Metadata,
	})
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMediaResponse(rec))
}

// Update handles PATCH /media/{id} (admin).
func (h *MediaHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := itemIDParam(w, r)
	if !ok {
		return
	}
	var req updateMediaRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rec, err := h.media.Update(r.Context(), media.UpdateInput{
		ItemID:   id,
		Title:    req.Title,
		Metadata: req.Metadata,
	})
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toMediaResponse(rec))
}

// Refresh handles POST /media/{id}/refresh (admin).
func (h *MediaHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	id, ok := itemIDParam(w, r)
	if !ok {
		return
	}
	rec, err := h.media.Refresh(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toMediaResponse(rec))
}

func itemIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeValidation(w, "id", "must be a positive integer")
		return 0, false
	}
	return id, true
}
