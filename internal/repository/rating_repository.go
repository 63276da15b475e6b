package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"movie-catalog-api/internal/domain"
)

const ratingsCollection = "ratings"

type ratingRepository struct {
	coll *mongo.Collection
}

// NewRatingRepository creates a rating repository backed by the ratings
// collection.
func NewRatingRepository(db *mongo.Database) RatingRepository {
	return &ratingRepository{coll: db.Collection(ratingsCollection)}
}

func (r *ratingRepository) ListByMovieID(ctx context.Context, movieID int) ([]domain.Rating, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"movie_id": movieID})
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings for movie %d: %w", movieID, err)
	}
	defer cursor.Close(ctx)

	var ratings []domain.Rating
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, fmt.Errorf("failed to decode ratings: %w", err)
	}
	return ratings, nil
}

func (r *ratingRepository) List(ctx context.Context, page Page) ([]domain.Rating, int64, error) {
	return r.find(ctx, bson.M{}, page)
}

func (r *ratingRepository) FindByQuery(ctx context.Context, predicate domain.Predicate, page Page) ([]domain.Rating, int64, error) {
	filter, err := renderPredicate(predicate)
	if err != nil {
		return nil, 0, err
	}
	return r.find(ctx, filter, page)
}

func (r *ratingRepository) find(ctx context.Context, filter bson.M, page Page) ([]domain.Rating, int64, error) {
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count ratings: %w", err)
	}

	cursor, err := r.coll.Find(ctx, filter, findPageOptions(page))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var ratings []domain.Rating
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode ratings: %w", err)
	}
	return ratings, total, nil
}

func (r *ratingRepository) FindMovieIDsByQuery(ctx context.Context, predicate domain.Predicate) ([]int, error) {
	filter, err := renderPredicate(predicate)
	if err != nil {
		return nil, err
	}
	return findMovieIDs(ctx, r.coll, filter)
}

func (r *ratingRepository) InsertMany(ctx context.Context, ratings []domain.Rating) (int, error) {
	if len(ratings) == 0 {
		return 0, nil
	}
	docs := make([]any, len(ratings))
	for i, rating := range ratings {
		docs[i] = rating
	}
	res, err := r.coll.InsertMany(ctx, docs)
	inserted := 0
	if res != nil {
		inserted = len(res.InsertedIDs)
	}
	if err != nil {
		return inserted, fmt.Errorf("failed to bulk insert ratings: %w", err)
	}
	return inserted, nil
}
