package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"movie-catalog-api/internal/domain"
)

const creditsCollection = "credits"

type creditRepository struct {
	coll *mongo.Collection
}

// NewCreditRepository creates a credit repository backed by the credits
// collection.
func NewCreditRepository(db *mongo.Database) CreditRepository {
	return &creditRepository{coll: db.Collection(creditsCollection)}
}

func (r *creditRepository) GetByMovieID(ctx context.Context, movieID int) (domain.Credit, error) {
	var credit domain.Credit
	err := r.coll.FindOne(ctx, bson.M{"movie_id": movieID}).Decode(&credit)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Credit{}, ErrNotFound
	}
	if err != nil {
		return domain.Credit{}, fmt.Errorf("failed to get credits for movie %d: %w", movieID, err)
	}
	return credit, nil
}

func (r *creditRepository) List(ctx context.Context, page Page) ([]domain.Credit, int64, error) {
	return r.find(ctx, bson.M{}, page)
}

func (r *creditRepository) FindByQuery(ctx context.Context, predicate domain.Predicate, page Page) ([]domain.Credit, int64, error) {
	filter, err := renderPredicate(predicate)
	if err != nil {
		return nil, 0, err
	}
	return r.find(ctx, filter, page)
}

func (r *creditRepository) find(ctx context.Context, filter bson.M, page Page) ([]domain.Credit, int64, error) {
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count credits: %w", err)
	}

	cursor, err := r.coll.Find(ctx, filter, findPageOptions(page))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query credits: %w", err)
	}
	defer cursor.Close(ctx)

	var credits []domain.Credit
	if err := cursor.All(ctx, &credits); err != nil {
		return nil, 0, fmt.Errorf("failed to decode credits: %w", err)
	}
	return credits, total, nil
}

func (r *creditRepository) FindMovieIDsByQuery(ctx context.Context, predicate domain.Predicate) ([]int, error) {
	filter, err := renderPredicate(predicate)
	if err != nil {
		return nil, err
	}
	return findMovieIDs(ctx, r.coll, filter)
}

func (r *creditRepository) InsertMany(ctx context.Context, credits []domain.Credit) (int, error) {
	if len(credits) == 0 {
		return 0, nil
	}
	docs := make([]any, len(credits))
	for i, c := range credits {
		docs[i] = c
	}
	res, err := r.coll.InsertMany(ctx, docs)
	inserted := 0
	if res != nil {
		inserted = len(res.InsertedIDs)
	}
	if err != nil {
		return inserted, fmt.Errorf("failed to bulk insert credits: %w", err)
	}
	return inserted, nil
}
