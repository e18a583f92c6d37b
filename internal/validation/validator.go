// Package validation adapts go-playground/validator to domain.ValidationError.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/catalogus/catalogus-backend/internal/domain"
)

// Validator wraps validator.Validate with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator that reports fields by their json tag names and
// knows the watchlist enum tags (watch_status, media_type, provider).
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		switch name {
		case "":
			return fld.Name
		case "-":
			return ""
		}
		return name
	})

	mustRegister(v, "watch_status", func(fl validator.FieldLevel) bool {
		return domain.WatchStatus(fl.Field().String()).IsValid()
	})
	mustRegister(v, "media_type", func(fl validator.FieldLevel) bool {
		return domain.MediaType(fl.Field().String()).IsValid()
	})
	mustRegister(v, "provider", func(fl validator.FieldLevel) bool {
		return domain.Provider(fl.Field().String()).IsValid()
	})

	return &Validator{v: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

// Validate checks s and returns a *domain.ValidationError listing every
// failing field, in struct order.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]domain.FieldError, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, domain.FieldError{
			Field:   e.Field(),
			Message: friendlyMessage(e),
		})
	}
	return domain.NewValidationErrors(fields)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "required"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("too short (min %s)", e.Param())
		}
		return "must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("too long (max %s)", e.Param())
		}
		return "must not exceed " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "uuid":
		return "must be a valid UUID"
	case "watch_status":
		return "must be one of: PLAN_TO_WATCH WATCHING COMPLETED ON_HOLD DROPPED"
	case "media_type":
		return "must be one of: MOVIE TV ANIME DRAMA"
	case "provider":
		return "must be one of: TMDB TVDB ANILIST MDL"
	default:
		return "invalid value"
	}
}
