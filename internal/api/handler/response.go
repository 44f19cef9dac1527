package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/paddyrails/mortgage-customer-service/internal/api/handler/dto"
	"github.com/paddyrails/mortgage-customer-service/internal/pkg/apperrors"
)

const (
	msgValidationFailed = "Validation failed"
	msgNotSaved         = "Customer could not be saved"
	msgDuplicate        = "A customer with this email or SSN already exists"
	msgNotFound         = "Resource not found"
	msgInternal         = "An unexpected error occurred"
)

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return fmt.Errorf("%w: no request body", apperrors.ErrInvalidArgument)
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", apperrors.ErrInvalidArgument, err)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"success":false,"message":"Internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func respondSuccess(w http.ResponseWriter, status int, data any, message string) {
	respondJSON(w, status, dto.NewSuccessResponse(data, message))
}

func respondFail(w http.ResponseWriter, status int, message string, errs ...string) {
	respondJSON(w, status, dto.NewFailResponse(message, errs...))
}

// respondError maps an error onto the envelope. notFound replaces the generic
// message when the error is a not-found.
func respondError(w http.ResponseWriter, err error, notFound string) {
	var fieldErrs *apperrors.FieldErrors
	var validationErr *apperrors.ValidationError

	switch {
	case errors.As(err, &fieldErrs):
		respondFail(w, http.StatusBadRequest, msgValidationFailed, fieldErrs.Messages...)
	case errors.As(err, &validationErr):
		respondFail(w, http.StatusBadRequest, msgValidationFailed, validationErr.Error())
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		respondFail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		if notFound == "" {
			notFound = msgNotFound
		}
		respondFail(w, http.StatusNotFound, notFound)
	case errors.Is(err, apperrors.ErrAlreadyExists):
		respondFail(w, http.StatusBadRequest, msgNotSaved, msgDuplicate)
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
		respondFail(w, http.StatusInternalServerError, msgInternal)
	}
}

func getCustomerIDFromURL(r *http.Request) (uuid.UUID, error) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%w: customer id not found in URL path", apperrors.ErrInvalidArgument)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid customer id format in URL path: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return id, nil
}

// logLevelFor keeps expected client-side failures out of the error log.
func logLevelFor(err error) slog.Level {
	if errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrAlreadyExists) ||
		errors.Is(err, apperrors.ErrInvalidArgument) ||
		errors.Is(err, apperrors.ErrValidation) {
		return slog.LevelWarn
	}
	return slog.LevelError
}
