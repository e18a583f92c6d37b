package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/catalogus/catalogus-backend/internal/domain"
)

// Error codes returned in the "code" field of error bodies.
const (
	codeValidation           = "VALIDATION"
	codeUnauthorized         = "UNAUTHORIZED"
	codeForbidden            = "FORBIDDEN"
	codeNotFound             = "NOT_FOUND"
	codeAlreadyInList        = "ALREADY_IN_LIST"
	codeAlreadyExists        = "ALREADY_EXISTS"
	codeConflict             = "CONFLICT"
	codeProviderUnavailable  = "PROVIDER_UNAVAILABLE"
	codeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
	codeInternal             = "INTERNAL"
)

type errorResponse struct {
	Error   string        `json:"error"`
	Code    string        `json:"code"`
	Details []fieldDetail `json:"details,omitempty"`
}

type fieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

func writeValidation(w http.ResponseWriter, field, message string) {
	writeDomainError(w, nil, nil, domain.NewValidationError(field, message))
}

// writeDomainError maps a service error onto an HTTP status and error body.
// Unexpected errors are logged and reported as 500 without internals.
func writeDomainError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		details := make([]fieldDetail, len(verr.Errors))
		for i, fe := range verr.Errors {
			details[i] = fieldDetail{Field: fe.Field, Message: fe.Message}
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Code: codeValidation, Details: details})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "authentication required")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, codeForbidden, "forbidden")
	case errors.Is(err, domain.ErrAlreadyInList):
		writeError(w, http.StatusConflict, codeAlreadyInList, "media is already in your list")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, codeAlreadyExists, "already exists")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, codeConflict, "conflict")
	case errors.Is(err, domain.ErrProviderNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "media not found at provider")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	case errors.Is(err, domain.ErrProviderUnavailable):
		writeError(w, http.StatusBadGateway, codeProviderUnavailable, "metadata provider unavailable, try again later")
	case errors.Is(err, domain.ErrUnsupportedMediaType):
		writeError(w, http.StatusNotImplemented, codeUnsupportedMediaType, "media type is not supported yet")
	default:
		if log != nil && r != nil && !errors.Is(err, context.Canceled) {
			log.ErrorContext(r.Context(), "internal error",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("error", err.Error()),
			)
		}
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}
