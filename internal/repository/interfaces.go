package repository

import (
	"context"

	"movie-catalog-api/internal/domain"
)

// Page carries offset pagination parameters for listing endpoints.
type Page struct {
	Number  int
	PerPage int
}

// MovieRepository defines the interface for movie collection access.
type MovieRepository interface {
	Create(ctx context.Context, movie domain.Movie) error
	GetByMovieID(ctx context.Context, movieID int) (domain.Movie, error)
	Update(ctx context.Context, movie domain.Movie) error
	Delete(ctx context.Context, movieID int) error
	List(ctx context.Context, page Page) ([]domain.Movie, int64, error)
	FindByQuery(ctx context.Context, predicate domain.Predicate, page Page) ([]domain.Movie, int64, error)
	FindMovieIDsByQuery(ctx context.Context, predicate domain.Predicate) ([]int, error)
	InsertMany(ctx context.Context, movies []domain.Movie) (int, error)
}

// CreditRepository defines the interface for credit collection access.
type CreditRepository interface {
	GetByMovieID(ctx context.Context, movieID int) (domain.Credit, error)
	List(ctx context.Context, page Page) ([]domain.Credit, int64, error)
	FindByQuery(ctx context.Context, predicate domain.Predicate, page Page) ([]domain.Credit, int64, error)
	FindMovieIDsByQuery(ctx context.Context, predicate domain.Predicate) ([]int, error)
	InsertMany(ctx context.Context, credits []domain.Credit) (int, error)
}

// RatingRepository defines the interface for rating collection access.
type RatingRepository interface {
	ListByMovieID(ctx context.Context, movieID int) ([]domain.Rating, error)
	List(ctx context.Context, page Page) ([]domain.Rating, int64, error)
	FindByQuery(ctx context.Context, predicate domain.Predicate, page Page) ([]domain.Rating, int64, error)
	FindMovieIDsByQuery(ctx context.Context, predicate domain.Predicate) ([]int, error)
	InsertMany(ctx context.Context, ratings []domain.Rating) (int, error)
}

// GenderDataRepository defines the interface for the denormalized
// gender-record collection, including its aggregation capability.
type GenderDataRepository interface {
	List(ctx context.Context, page Page) ([]domain.GenderRecord, int64, error)
	RunAggregation(ctx context.Context, spec domain.PipelineSpec) ([]domain.GenderStatistic, error)
	InsertMany(ctx context.Context, records []domain.GenderRecord) (int, error)
}

// UserRepository defines the interface for account storage.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	Delete(ctx context.Context, id string) error
}
