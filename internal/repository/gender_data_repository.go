package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"movie-catalog-api/internal/domain"
)

const genderDataCollection = "gender_data"

type genderDataRepository struct {
	coll *mongo.Collection
}

// NewGenderDataRepository creates a repository over the denormalized
// gender-record collection.
func NewGenderDataRepository(db *mongo.Database) GenderDataRepository {
	return &genderDataRepository{coll: db.Collection(genderDataCollection)}
}

func (r *genderDataRepository) List(ctx context.Context, page Page) ([]domain.GenderRecord, int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count gender records: %w", err)
	}

	cursor, err := r.coll.Find(ctx, bson.M{}, findPageOptions(page))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query gender records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []domain.GenderRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, 0, fmt.Errorf("failed to decode gender records: %w", err)
	}
	return records, total, nil
}

// RunAggregation renders the pipeline and executes it in one store round trip,
// draining the cursor into memory. The result size is bounded by the
// cardinality of the dimension, not by the record count.
func (r *genderDataRepository) RunAggregation(ctx context.Context, spec domain.PipelineSpec) ([]domain.GenderStatistic, error) {
	pipeline, err := renderPipeline(spec)
	if err != nil {
		return nil, err
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to run %s aggregation: %w", spec.Dimension, err)
	}
	defer cursor.Close(ctx)

	var stats []domain.GenderStatistic
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode %s aggregation: %w", spec.Dimension, err)
	}
	return stats, nil
}

func (r *genderDataRepository) InsertMany(ctx context.Context, records []domain.GenderRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	docs := make([]any, len(records))
	for i, rec := range records {
		docs[i] = rec
	}
	res, err := r.coll.InsertMany(ctx, docs)
	inserted := 0
	if res != nil {
		inserted = len(res.InsertedIDs)
	}
	if err != nil {
		return inserted, fmt.Errorf("failed to bulk insert gender records: %w", err)
	}
	return inserted, nil
}
