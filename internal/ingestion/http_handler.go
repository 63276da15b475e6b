package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Handler exposes the dump loaders as an HTTP upload endpoint.
type Handler struct {
	service *Service
}

// NewHTTPHandler wraps the service with a POST upload endpoint. The
// multipart form carries the file plus a dataset field naming which
// dump it is (movies, credits or ratings).
func NewHTTPHandler(service *Service) http.Handler {
	return &Handler{service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, fmt.Sprintf("invalid form data: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, fmt.Sprintf("file required: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read file: %v", err), http.StatusBadRequest)
		return
	}

	var load func(context.Context, string, io.Reader) (Summary, error)
	dataset := strings.TrimSpace(r.FormValue("dataset"))
	switch dataset {
	case "movies":
		load = h.service.LoadMovies
	case "credits":
		load = h.service.LoadCredits
	case "ratings":
		load = h.service.LoadRatings
	default:
		http.Error(w, "dataset must be one of movies, credits, ratings", http.StatusBadRequest)
		return
	}

	summary, err := load(r.Context(), header.Filename, bytes.NewReader(data))
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, ErrUnsupportedFormat) && summary.Loaded > 0 {
			status = http.StatusInternalServerError
		}
		http.Error(w, err.Error(), status)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// DeriveHandler triggers the gender-record derivation pass.
type DeriveHandler struct {
	service *Service
}

// NewDeriveHandler wraps DeriveGenderRecords with a POST endpoint.
func NewDeriveHandler(service *Service) http.Handler {
	return &DeriveHandler{service: service}
}

func (h *DeriveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	written, err := h.service.DeriveGenderRecords(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"written": written})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
