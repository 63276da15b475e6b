package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"movie-catalog-api/internal/domain"
	"movie-catalog-api/internal/query"
	"movie-catalog-api/internal/repository"
)

// MovieHandler serves the movie, actor and rating endpoints.
type MovieHandler struct {
	movies    repository.MovieRepository
	credits   repository.CreditRepository
	ratings   repository.RatingRepository
	builder   *query.Builder
	validator *validator.Validate
	logger    *slog.Logger
}

// NewMovieHandler creates the catalog handler.
func NewMovieHandler(
	movies repository.MovieRepository,
	credits repository.CreditRepository,
	ratings repository.RatingRepository,
	builder *query.Builder,
	v *validator.Validate,
	logger *slog.Logger,
) *MovieHandler {
	return &MovieHandler{
		movies:    movies,
		credits:   credits,
		ratings:   ratings,
		builder:   builder,
		validator: v,
		logger:    logger,
	}
}

// movieView is the trimmed movie representation the API serves.
type movieView struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	ReleaseYear int      `json:"release_year,omitempty"`
	Genre       []string `json:"genre"`
	Description string   `json:"description,omitempty"`
}

func newMovieView(m domain.Movie) movieView {
	return movieView{
		ID:          m.MovieID,
		Title:       m.Title,
		ReleaseYear: m.ReleaseYear(),
		Genre:       m.GenreNames(),
		Description: m.Overview,
	}
}

// createMovieRequest is the POST /movies payload.
type createMovieRequest struct {
	MovieID     int      `json:"movie_id" validate:"required,gt=0"`
	Title       string   `json:"title" validate:"required,min=1,max=500"`
	ReleaseYear int      `json:"release_year" validate:"omitempty,gte=1900"`
	Genres      []string `json:"genres" validate:"omitempty,dive,min=1"`
	Description string   `json:"description" validate:"omitempty,max=5000"`
}

// GetMovies handles GET /movies.
func (h *MovieHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	filters := queryFilters(r)
	page, perPage, err := pageParams(r, filters)
	if err != nil {
		respondError(w, r, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	movies, total, err := h.movies.List(r.Context(), repository.Page{Number: page, PerPage: perPage})
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}
	if len(movies) == 0 {
		respondError(w, r, h.logger, http.StatusNotFound, "no movies found")
		return
	}

	views := make([]movieView, len(movies))
	for i, m := range movies {
		views[i] = newMovieView(m)
	}

	respondJSON(w, r, h.logger, http.StatusOK, map[string]any{
		"message": "Movies fetched successfully",
		"total":   total,
		"movies":  views,
		"_links":  mergeLinks(collectionLinks("/movies"), paginationLinks("/movies", page, perPage, total)),
	})
}

// GetMovieByID handles GET /movies/{movie_id}.
func (h *MovieHandler) GetMovieByID(w http.ResponseWriter, r *http.Request) {
	movieID, ok := h.moviePathID(w, r)
	if !ok {
		return
	}

	movie, err := h.movies.GetByMovieID(r.Context(), movieID)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, r, h.logger, http.StatusNotFound, "movie not found")
		return
	}
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondJSON(w, r, h.logger, http.StatusOK, map[string]any{
		"message": "Movie fetched successfully",
		"movie":   newMovieView(movie),
		"_links":  movieLinks(movie.MovieID),
	})
}

// SearchMovies handles GET /movies/search. The filter set is translated
// into one compound predicate; an empty result is a 404, not an empty 200.
func (h *MovieHandler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	filters := queryFilters(r)
	page, perPage, err := pageParams(r, filters)
	if err != nil {
		respondError(w, r, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	predicate, err := h.builder.Build(r.Context(), domain.ResourceMovie, filters)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	movies, total, err := h.movies.FindByQuery(r.Context(), predicate, repository.Page{Number: page, PerPage: perPage})
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}
	if len(movies) == 0 {
		respondError(w, r, h.logger, http.StatusNotFound, "no movies found with the given filters")
		return
	}

	views := make([]movieView, len(movies))
	for i, m := range movies {
		views[i] = newMovieView(m)
	}

	respondJSON(w, r, h.logger, http.StatusOK, map[string]any{
		"message": "Movies fetched successfully",
		"total":   total,
		"movies":  views,
		"_links":  mergeLinks(collectionLinks("/movies"), paginationLinks("/movies/search", page, perPage, total)),
	})
}

// CreateMovie handles POST /movies.
func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req createMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, h.logger, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validator.StructCtx(r.Context(), req); err != nil {
		respondError(w, r, h.logger, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	movie := domain.Movie{
		MovieID:  req.MovieID,
		Title:    req.Title,
		Overview: req.Description,
	}
	if req.ReleaseYear > 0 {
		movie.ReleaseDate = time.Date(req.ReleaseYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	for i, name := range req.Genres {
		movie.Genres = append(movie.Genres, domain.Genre{ID: i + 1, Name: name})
	}

	if err := h.movies.Create(r.Context(), movie); err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondJSON(w, r, h.logger, http.StatusCreated, map[string]any{
		"message": "Movie created successfully",
		"movie":   newMovieView(movie),
		"_links":  movieLinks(movie.MovieID),
	})
}

// UpdateMovie handles PUT /movies/{movie_id}.
func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	movieID, ok := h.moviePathID(w, r)
	if !ok {
		return
	}

	var req createMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, h.logger, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()
	req.MovieID = movieID

	if err := h.validator.StructCtx(r.Context(), req); err != nil {
		respondError(w, r, h.logger, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	movie := domain.Movie{
		MovieID:  movieID,
		Title:    req.Title,
		Overview: req.Description,
	}
	if req.ReleaseYear > 0 {
		movie.ReleaseDate = time.Date(req.ReleaseYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	for i, name := range req.Genres {
		movie.Genres = append(movie.Genres, domain.Genre{ID: i + 1, Name: name})
	}

	err := h.movies.Update(r.Context(), movie)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, r, h.logger, http.StatusNotFound, "movie not found")
		return
	}
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondJSON(w, r, h.logger, http.StatusOK, map[string]any{
		"message": "Movie updated successfully",
		"movie":   newMovieView(movie),
		"_links":  movieLinks(movieID),
	})
}

// DeleteMovie handles DELETE /movies/{movie_id}.
func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	movieID, ok := h.moviePathID(w, r)
	if !ok {
		return
	}

	err := h.movies.Delete(r.Context(), movieID)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, r, h.logger, http.StatusNotFound, "movie not found")
		return
	}
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondJSON(w, r, h.logger, http.StatusOK, map[string]any{
		"message": "Movie deleted successfully",
		"_links":  collectionLinks("/movies"),
	})
}

// GetMovieCredits handles GET /movies/{movie_id}/credits.
func (h *MovieHandler) GetMovieCredits(w http.ResponseWriter, r *http.Request) {
	movieID, ok := h.moviePathID(w, r)
	if !ok {
		return
	}

	credit, err := h.credits.GetByMovieID(r.Context(), movieID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && len(credit.Cast) == 0) {
		respondError(w, r, h.logger, http.StatusNotFound, "no actors found for this movie")
		return
	}
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondJSON(w, r, h.logger, http.StatusOK, map[string]any{
		"message": "Actors fetched successfully",
		"total":   len(credit.Cast),
		"actors":  credit.Cast,
		"_links":  movieLinks(movieID),
	})
}

// GetMovieRatings handles GET /movies/{movie_id}/ratings.
func (h *MovieHandler) GetMovieRatings(w http.ResponseWriter, r *http.Request) {
	movieID, ok := h.moviePathID(w, r)
	if !ok {
		return
	}

	ratings, err := h.ratings.ListByMovieID(r.Context(), movieID)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}
	if len(ratings) == 0 {
		respondError(w, r, h.logger, http.StatusNotFound, "no ratings found for this movie")
		return
	}

	respondJSON(w, r, h.logger, http.StatusOK, map[string]any{
		"message": "Ratings fetched successfully",
		"total":   len(ratings),
		"ratings": ratings,
		"_links":  movieLinks(movieID),
	})
}

func (h *MovieHandler) moviePathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := mux.Vars(r)["movie_id"]
	movieID, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, r, h.logger, http.StatusBadRequest, "movie id must be an integer")
		return 0, false
	}
	return movieID, true
}
