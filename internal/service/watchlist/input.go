package watchlist

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/catalogus/catalogus-backend/internal/domain"
)

// AddToListInput holds the parameters for tracking a new title.
// Provider is derived from MediaType when empty.
type AddToListInput struct {
	Provider   domain.Provider     `json:"apiSource" validate:"omitempty,provider"`
	ExternalID string              `json:"apiId"     validate:"required,max=64"`
	MediaType  domain.MediaType    `json:"type"      validate:"required,media_type"`
	Status     *domain.WatchStatus `json:"status"    validate:"omitnil,watch_status"`
	Rating     *float64            `json:"rating"    validate:"omitnil,gte=0,lte=10"`
	Comments   *string             `json:"comments"  validate:"omitnil,max=1000"`
}

// Validate checks all fields and collects all errors.
func (i *AddToListInput) Validate() error {
	return validate.Validate(i)
}

// UpdateEntryInput holds a partial update of an entry.
type UpdateEntryInput struct {
	EntryID  uuid.UUID           `json:"-"`
	Status   *domain.WatchStatus `json:"status"   validate:"omitnil,watch_status"`
	Rating   *float64            `json:"rating"   validate:"omitnil,gte=0,lte=10"`
	Comments *string             `json:"comments" validate:"omitnil,max=1000"`
}

func (i *UpdateEntryInput) patch() domain.EntryPatch {
	return domain.EntryPatch{Status: i.Status, Rating: i.Rating, Comments: i.Comments}
}

// Validate checks all fields and collects all errors. An update that
// changes nothing is rejected.
func (i *UpdateEntryInput) Validate() error {
	if i.EntryID == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}
	if i.patch().IsEmpty() {
		return domain.NewValidationError("body", "at least one of status, rating, comments is required")
	}
	return validate.Validate(i)
}

// ListEntriesInput holds paging, filtering and sorting for a list query.
// Zero Page and Limit select the defaults.
type ListEntriesInput struct {
	Page      int                 `json:"page"   validate:"gte=0"`
	Limit     int                 `json:"limit"  validate:"gte=0"`
	Status    *domain.WatchStatus `json:"status" validate:"omitnil,watch_status"`
	MediaType *domain.MediaType   `json:"type"   validate:"omitnil,media_type"`
	Query     *string             `json:"q"      validate:"omitnil,max=200"`
	Sort      domain.SortKey      `json:"sort"`
}

// Validate checks all fields against the configured page size ceiling.
func (i *ListEntriesInput) Validate(maxLimit int) error {
	if err := validate.Validate(i); err != nil {
		return err
	}
	if i.Limit > maxLimit {
		return domain.NewValidationError("limit", fmt.Sprintf("must not exceed %d", maxLimit))
	}
	if maxLimit > 0 && i.Page > math.MaxInt32/maxLimit {
		return domain.NewValidationError("page", fmt.Sprintf("must not exceed %d", math.MaxInt32/maxLimit))
	}
	return nil
}
