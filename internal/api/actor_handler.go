package api

import (
	"log/slog"
	"net/http"

	"movie-catalog-api/internal/domain"
	"movie-catalog-api/internal/query"
	"movie-catalog-api/internal/repository"
)

// ActorHandler serves the actor listing and search endpoints. Actors are
// not stored as their own collection; they are projected out of credit
// documents.
type ActorHandler struct {
	movies  repository.MovieRepository
	credits repository.CreditRepository
	builder *query.Builder
	logger  *slog.Logger
}

// NewActorHandler creates the actor handler.
func NewActorHandler(
	movies repository.MovieRepository,
	credits repository.CreditRepository,
	builder *query.Builder,
	logger *slog.Logger,
) *ActorHandler {
	return &ActorHandler{movies: movies, credits: credits, builder: builder, logger: logger}
}

type actorView struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	MoviesPlayed []string `json:"movies_played"`
}

// GetActors handles GET /actors: the distinct cast members of the current
// credits page with the titles they played in.
func (h *ActorHandler) GetActors(w http.ResponseWriter, r *http.Request) {
	filters := queryFilters(r)
	page, perPage, err := pageParams(r, filters)
	if err != nil {
		respondError(w, r, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	credits, _, err := h.credits.List(r.Context(), repository.Page{Number: page, PerPage: perPage})
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}
	if len(credits) == 0 {
		respondError(w, r, h.logger, http.StatusNotFound, "no actors found")
		return
	}

	actors, err := h.actorsFromCredits(r, credits)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondJSON(w, r, h.logger, http.StatusOK, map[string]any{
		"message": "Actors fetched successfully",
		"total":   len(actors),
		"actors":  actors,
		"_links":  collectionLinks("/actors"),
	})
}

// SearchActors handles GET /actors/search?actor=; the single allow-listed
// filter matches cast names as a substring.
func (h *ActorHandler) SearchActors(w http.ResponseWriter, r *http.Request) {
	filters := queryFilters(r)
	page, perPage, err := pageParams(r, filters)
	if err != nil {
		respondError(w, r, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	predicate, err := h.builder.Build(r.Context(), domain.ResourceActor, filters)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	credits, _, err := h.credits.FindByQuery(r.Context(), predicate, repository.Page{Number: page, PerPage: perPage})
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}
	if len(credits) == 0 {
		respondError(w, r, h.logger, http.StatusNotFound, "no actors found with the given filters")
		return
	}

	actors, err := h.actorsFromCredits(r, credits)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondJSON(w, r, h.logger, http.StatusOK, map[string]any{
		"message": "Actors fetched successfully",
		"total":   len(actors),
		"actors":  actors,
		"_links":  collectionLinks("/actors"),
	})
}

// actorsFromCredits projects distinct cast members from credit documents,
// resolving every referenced movie title in one store round trip.
func (h *ActorHandler) actorsFromCredits(r *http.Request, credits []domain.Credit) ([]actorView, error) {
	movieIDs := make([]int, 0, len(credits))
	for _, credit := range credits {
		movieIDs = append(movieIDs, credit.MovieID)
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

	byPerson := make(map[int]*actorView)
	var order []int
	for _, credit := range credits {
		title, ok := titles[credit.MovieID]
		if !ok {
			continue
		}
		for _, member := range credit.Cast {
			actor, seen := byPerson[member.PersonID]
			if !seen {
				actor = &actorView{ID: member.PersonID, Name: member.Name}
				byPerson[member.PersonID] = actor
				order = append(order, member.PersonID)
			}
			actor.MoviesPlayed = append(actor.MoviesPlayed, title)
		}
	}

	actors := make([]actorView, 0, len(order))
	for _, id := range order {
		actors = append(actors, *byPerson[id])
	}
	return actors, nil
}
