package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"movie-catalog-api/internal/auth"
)

// RouterDeps bundles everything the router wires together.
type RouterDeps struct {
	Movies     *MovieHandler
	Actors     *ActorHandler
	Ratings    *RatingHandler
	Statistics *StatisticsHandler
	Accounts   *AccountHandler
	Ingest     http.Handler
	Derive     http.Handler
	Export     http.Handler
	Tokens     *auth.TokenManager
	Logger     *slog.Logger
}

// NewRouter assembles the /api/v1 route table. Read endpoints are public;
// mutating movie endpoints require a bearer token.
func NewRouter(deps RouterDeps) http.Handler {
	root := mux.NewRouter()
	root.Use(LoggingMiddleware(deps.Logger))

	api := root.PathPrefix(apiPrefix).Subrouter()

	// Accounts
	api.HandleFunc("/register", deps.Accounts.Register).Methods(http.MethodPost)
	api.HandleFunc("/login", deps.Accounts.Login).Methods(http.MethodPost)
	api.HandleFunc("/refresh", deps.Accounts.Refresh).Methods(http.MethodPost)

	// Movies
	api.HandleFunc("/movies", deps.Movies.GetMovies).Methods(http.MethodGet)
	api.HandleFunc("/movies/search", deps.Movies.SearchMovies).Methods(http.MethodGet)
	api.HandleFunc("/movies/{movie_id:[0-9]+}", deps.Movies.GetMovieByID).Methods(http.MethodGet)
	api.HandleFunc("/movies/{movie_id:[0-9]+}/credits", deps.Movies.GetMovieCredits).Methods(http.MethodGet)
	api.HandleFunc("/movies/{movie_id:[0-9]+}/ratings", deps.Movies.GetMovieRatings).Methods(http.MethodGet)

	// Actors and ratings
	api.HandleFunc("/actors", deps.Actors.GetActors).Methods(http.MethodGet)
	api.HandleFunc("/actors/search", deps.Actors.SearchActors).Methods(http.MethodGet)
	api.HandleFunc("/ratings", deps.Ratings.GetRatings).Methods(http.MethodGet)
	api.HandleFunc("/ratings/search", deps.Ratings.SearchRatings).Methods(http.MethodGet)

	// Gender statistics
	api.HandleFunc("/gender-statistics", deps.Statistics.GetGenderData).Methods(http.MethodGet)
	api.HandleFunc("/gender-statistics/{dimension}", deps.Statistics.GetDistribution).Methods(http.MethodGet)
	if deps.Export != nil {
		api.Handle("/gender-statistics/{dimension}/export", deps.Export).Methods(http.MethodGet)
	}

	// Protected movie mutations
	protected := api.NewRoute().Subrouter()
	protected.Use(AuthMiddleware(deps.Tokens, deps.Logger))
	protected.HandleFunc("/movies", deps.Movies.CreateMovie).Methods(http.MethodPost)
	protected.HandleFunc("/movies/{movie_id:[0-9]+}", deps.Movies.UpdateMovie).Methods(http.MethodPut)
	protected.HandleFunc("/movies/{movie_id:[0-9]+}", deps.Movies.DeleteMovie).Methods(http.MethodDelete)

	// Data loading
	if deps.Ingest != nil {
		protected.Handle("/admin/ingest", deps.Ingest).Methods(http.MethodPost)
	}
	if deps.Derive != nil {
		protected.Handle("/admin/gender-records", deps.Derive).Methods(http.MethodPost)
	}

	return root
}
