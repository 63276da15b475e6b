package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"movie-catalog-api/internal/domain"
	"movie-catalog-api/internal/query"
	"movie-catalog-api/internal/repository"
)

// RatingHandler serves the rating listing and search endpoints.
type RatingHandler struct {
	ratings repository.RatingRepository
	movies  repository.MovieRepository
	builder *query.Builder
	logger  *slog.Logger
}

// NewRatingHandler creates the rating handler.
func NewRatingHandler(
	ratings repository.RatingRepository,
	movies repository.MovieRepository,
	builder *query.Builder,
	logger *slog.Logger,
) *RatingHandler {
	return &RatingHandler{ratings: ratings, movies: movies, builder: builder, logger: logger}
}

type ratingView struct {
	Text  string `json:"text"`
	Movie string `json:"movie"`
}

// GetRatings handles GET /ratings.
func (h *RatingHandler) GetRatings(w http.ResponseWriter, r *http.Request) {
	filters := queryFilters(r)
	page, perPage, err := pageParams(r, filters)
	if err != nil {
		respondError(w, r, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	ratings, total, err := h.ratings.List(r.Context(), repository.Page{Number: page, PerPage: perPage})
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}
	if len(ratings) == 0 {
		respondError(w, r, h.logger, http.StatusNotFound, "no ratings found")
		return
	}

	views, err := h.ratingViews(r, ratings)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondJSON(w, r, h.logger, http.StatusOK, map[string]any{
		"message": "Ratings fetched successfully",
		"total":   total,
		"ratings": views,
		"_links":  mergeLinks(collectionLinks("/ratings"), paginationLinks("/ratings", page, perPage, total)),
	})
}

// SearchRatings handles GET /ratings/search?rating=; the threshold applies
// directly to the ratings collection.
func (h *RatingHandler) SearchRatings(w http.ResponseWriter, r *http.Request) {
	filters := queryFilters(r)
	page, perPage, err := pageParams(r, filters)
	if err != nil {
		respondError(w, r, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	predicate, err := h.builder.Build(r.Context(), domain.ResourceRating, filters)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	ratings, total, err := h.ratings.FindByQuery(r.Context(), predicate, repository.Page{Number: page, PerPage: perPage})
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}
	if len(ratings) == 0 {
		respondError(w, r, h.logger, http.StatusNotFound, "no ratings found with the given filters")
		return
	}

	views, err := h.ratingViews(r, ratings)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondJSON(w, r, h.logger, http.StatusOK, map[string]any{
		"message": "Ratings fetched successfully",
		"total":   total,
		"ratings": views,
		"_links":  mergeLinks(collectionLinks("/ratings"), paginationLinks("/ratings/search", page, perPage, total)),
	})
}

// ratingViews renders ratings as "n/5 of <title>" rows, resolving every
// referenced movie in one query.
func (h *RatingHandler) ratingViews(r *http.Request, ratings []domain.Rating) ([]ratingView, error) {
	movieIDs := make([]int, 0, len(ratings))
	for _, rating := range ratings {
		movieIDs = append(movieIDs, rating.MovieID)
	}

	predicate := domain.Predicate{}.And(domain.InTerm{Field: "movie_id", IDs: movieIDs})
	movies, _, err := h.movies.FindByQuery(r.Context(), predicate, repository.Page{Number: 1, PerPage: len(movieIDs)})
	if err != nil {
		return nil, err
	}
	titles := make(map[int]string, len(movies))
	for _, movie := range movies {
		titles[movie.MovieID] = movie.Title
	}

	views := make([]ratingView, len(ratings))
	for i, rating := range ratings {
		title, ok := titles[rating.MovieID]
		if !ok {
			title = "Unknown"
		}
		views[i] = ratingView{
			Text:  fmt.Sprintf("%g/5", rating.Rating),
			Movie: title,
		}
	}
	return views, nil
}
