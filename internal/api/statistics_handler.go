package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"movie-catalog-api/internal/aggregation"
	"movie-catalog-api/internal/domain"
	"movie-catalog-api/internal/repository"
)

// StatisticsHandler serves the gender-data listing and the five
// distribution endpoints.
type StatisticsHandler struct {
	genderData repository.GenderDataRepository
	stats      *aggregation.Service
	logger     *slog.Logger
}

// NewStatisticsHandler creates the statistics handler.
func NewStatisticsHandler(
	genderData repository.GenderDataRepository,
	stats *aggregation.Service,
	logger *slog.Logger,
) *StatisticsHandler {
	return &StatisticsHandler{genderData: genderData, stats: stats, logger: logger}
}

// GetGenderData handles GET /gender-statistics: the raw denormalized
// records, paginated.
func (h *StatisticsHandler) GetGenderData(w http.ResponseWriter, r *http.Request) {
	filters := queryFilters(r)
	page, perPage, err := pageParams(r, filters)
	if err != nil {
		respondError(w, r, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	records, total, err := h.genderData.List(r.Context(), repository.Page{Number: page, PerPage: perPage})
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}
	if len(records) == 0 {
		respondError(w, r, h.logger, http.StatusNotFound, "no gender statistics data found")
		return
	}

	respondJSON(w, r, h.logger, http.StatusOK, map[string]any{
		"message":           "Gender statistics data fetched successfully",
		"total":             total,
		"gender_statistics": records,
		"_links":            paginationLinks("/gender-statistics", page, perPage, total),
	})
}

// GetDistribution handles GET /gender-statistics/{dimension}. An optional
// ?value= narrows the aggregation to one dimension value.
func (h *StatisticsHandler) GetDistribution(w http.ResponseWriter, r *http.Request) {
	dimension := domain.Dimension(mux.Vars(r)["dimension"])
	value := r.URL.Query().Get("value")

	stats, err := h.stats.Distribution(r.Context(), dimension, value)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}
	if len(stats) == 0 {
		respondError(w, r, h.logger, http.StatusNotFound, "no gender statistics data found")
		return
	}

	rows := make([]map[string]any, len(stats))
	for i, stat := range stats {
		rows[i] = map[string]any{
			string(dimension): stat.Value,
			"total_count":     stat.TotalCount,
			"breakdown":       stat.Breakdown,
		}
	}

	respondJSON(w, r, h.logger, http.StatusOK, map[string]any{
		"message":      "Gender statistics fetched successfully",
		"dimension":    dimension,
		"total":        len(rows),
		"distribution": rows,
	})
}
