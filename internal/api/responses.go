package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"movie-catalog-api/internal/domain"
	"movie-catalog-api/internal/repository"
)

func respondJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.ErrorContext(r.Context(), "failed to encode JSON response",
			slog.String("error", err.Error()), slog.String("path", r.URL.Path))
	}
}

func respondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, message string) {
	respondJSON(w, r, logger, status, map[string]string{"error": message})
}

// respondDomainError maps the core's typed errors onto HTTP status codes.
// Validation failures carry their own message; store faults stay opaque.
func respondDomainError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var (
		missingFilter *domain.MissingFilterError
		invalidFields *domain.InvalidFieldsError
		invalidValue  *domain.InvalidValueError
		execution     *domain.ExecutionError
	)
	switch {
	case errors.As(err, &missingFilter), errors.As(err, &invalidFields), errors.As(err, &invalidValue):
		respondError(w, r, logger, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		respondError(w, r, logger, http.StatusNotFound, "not found")
	case errors.As(err, &execution):
		logger.ErrorContext(r.Context(), "store call failed", slog.String("error", err.Error()))
		respondError(w, r, logger, http.StatusInternalServerError, "internal server error")
	default:
		logger.ErrorContext(r.Context(), "unexpected error", slog.String("error", err.Error()))
		respondError(w, r, logger, http.StatusInternalServerError, "internal server error")
	}
}
