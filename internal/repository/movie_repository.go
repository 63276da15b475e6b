package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"movie-catalog-api/internal/domain"
)

// ErrNotFound is returned when a lookup by identifier matches no document.
var ErrNotFound = errors.New("document not found")

const moviesCollection = "movies"

type movieRepository struct {
	coll *mongo.Collection
}

// NewMovieRepository creates a movie repository backed by the movies
// collection.
func NewMovieRepository(db *mongo.Database) MovieRepository {
	return &movieRepository{coll: db.Collection(moviesCollection)}
}

func (r *movieRepository) Create(ctx context.Context, movie domain.Movie) error {
	if _, err := r.coll.InsertOne(ctx, movie); err != nil {
		return fmt.Errorf("failed to insert movie: %w", err)
	}
	return nil
}

func (r *movieRepository) GetByMovieID(ctx context.Context, movieID int) (domain.Movie, error) {
	var movie domain.Movie
	err := r.coll.FindOne(ctx, bson.M{"movie_id": movieID}).Decode(&movie)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Movie{}, ErrNotFound
	}
	if err != nil {
		return domain.Movie{}, fmt.Errorf("failed to get movie %d: %w", movieID, err)
	}
	return movie, nil
}

func (r *movieRepository) Update(ctx context.Context, movie domain.Movie) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"movie_id": movie.MovieID}, movie)
	if err != nil {
		return fmt.Errorf("failed to update movie %d: %w", movie.MovieID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *movieRepository) Delete(ctx context.Context, movieID int) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"movie_id": movieID})
	if err != nil {
		return fmt.Errorf("failed to delete movie %d: %w", movieID, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *movieRepository) List(ctx context.Context, page Page) ([]domain.Movie, int64, error) {
	return r.find(ctx, bson.M{}, page)
}

func (r *movieRepository) FindByQuery(ctx context.Context, predicate domain.Predicate, page Page) ([]domain.Movie, int64, error) {
	filter, err := renderPredicate(predicate)
	if err != nil {
		return nil, 0, err
	}
	return r.find(ctx, filter, page)
}

func (r *movieRepository) find(ctx context.Context, filter bson.M, page Page) ([]domain.Movie, int64, error) {
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count movies: %w", err)
	}

	cursor, err := r.coll.Find(ctx, filter, findPageOptions(page))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query movies: %w", err)
	}
	defer cursor.Close(ctx)

	var movies []domain.Movie
	if err := cursor.All(ctx, &movies); err != nil {
		return nil, 0, fmt.Errorf("failed to decode movies: %w", err)
	}
	return movies, total, nil
}

func (r *movieRepository) FindMovieIDsByQuery(ctx context.Context, predicate domain.Predicate) ([]int, error) {
	filter, err := renderPredicate(predicate)
	if err != nil {
		return nil, err
	}
	return findMovieIDs(ctx, r.coll, filter)
}

func (r *movieRepository) InsertMany(ctx context.Context, movies []domain.Movie) (int, error) {
	if len(movies) == 0 {
		return 0, nil
	}
	docs := make([]any, len(movies))
	for i, m := range movies {
		docs[i] = m
	}
	res, err := r.coll.InsertMany(ctx, docs)
	inserted := 0
	if res != nil {
		inserted = len(res.InsertedIDs)
	}
	if err != nil {
		return inserted, fmt.Errorf("failed to bulk insert movies: %w", err)
	}
	return inserted, nil
}

// findPageOptions converts offset pagination into find options. Zero or
// negative values fall back to the first page of twenty documents, the
// API's default page size.
func findPageOptions(page Page) *options.FindOptions {
	number := page.Number
	if number < 1 {
		number = 1
	}
	perPage := page.PerPage
	if perPage < 1 {
		perPage = 20
	}
	return options.Find().
		SetSkip(int64((number - 1) * perPage)).
		SetLimit(int64(perPage))
}

// findMovieIDs runs a single projected query and collects the movie id of
// every matching document. Cross-collection resolution relies on this being
// one round trip regardless of the result size.
func findMovieIDs(ctx context.Context, coll *mongo.Collection, filter bson.M) ([]int, error) {
	opts := options.Find().SetProjection(bson.M{"movie_id": 1, "_id": 0})
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s ids: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		MovieID int `bson:"movie_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode %s ids: %w", coll.Name(), err)
	}

	ids := make([]int, len(rows))
	for i, row := range rows {
		ids[i] = row.MovieID
	}
	return ids, nil
}
