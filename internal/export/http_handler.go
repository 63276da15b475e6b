package export

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"movie-catalog-api/internal/domain"
)

// Handler serves gender distribution downloads.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHTTPHandler wraps the export service with a GET endpoint. The format
// query parameter selects csv (default) or xlsx.
func NewHTTPHandler(service *Service, logger *slog.Logger) http.Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	dimension := domain.Dimension(mux.Vars(r)["dimension"])
	value := r.URL.Query().Get("value")

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	fileName := fmt.Sprintf("gender-statistics-%s.%s", dimension, format)
	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
		h.fail(w, h.service.WriteCSV(r.Context(), dimension, value, w))
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
		h.fail(w, h.service.WriteXLSX(r.Context(), dimension, value, w))
	default:
		http.Error(w, "format must be csv or xlsx", http.StatusBadRequest)
	}
}

// fail reports an export error. Headers are already written by the time a
// streaming error surfaces, so mid-stream failures are only logged.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	var invalidValue *domain.InvalidValueError
	if errors.As(err, &invalidValue) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.logger.Error("export failed", "error", err)
	http.Error(w, "export failed", http.StatusInternalServerError)
}
