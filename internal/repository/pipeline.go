package repository

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"movie-catalog-api/internal/domain"
)

// renderPipeline translates a PipelineSpec into the driver's pipeline
// representation. Stage order is preserved exactly.
func renderPipeline(spec domain.PipelineSpec) (mongo.Pipeline, error) {
	pipeline := make(mongo.Pipeline, 0, len(spec.Stages))
	for _, stage := range spec.Stages {
		rendered, err := renderStage(stage)
		if err != nil {
			return nil, err
		}
		pipeline = append(pipeline, rendered)
	}
	return pipeline, nil
}

func renderStage(stage domain.Stage) (bson.D, error) {
	switch s := stage.(type) {
	case domain.MatchStage:
		match := bson.M{}
		if s.RequireExists {
			match[s.Field] = bson.M{"$exists": true}
		}
		if len(s.Genders) > 0 {
			codes := make([]int, len(s.Genders))
			for i, g := range s.Genders {
				codes[i] = int(g)
			}
			match["gender"] = bson.M{"$in": codes}
		}
		if s.Value != nil {
			// An exact value narrows the dimension field directly; this
			// intentionally replaces the bare existence check.
			match[s.Field] = s.Value
		}
		return bson.D{{Key: "$match", Value: match}}, nil

	case domain.UnwindStage:
		return bson.D{{Key: "$unwind", Value: "$" + s.Field}}, nil

	case domain.GroupStage:
		return bson.D{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"value": "$" + s.Field, "gender": "$gender"},
			"count": bson.M{"$sum": 1},
		}}}, nil

	case domain.RegroupStage:
		return bson.D{{Key: "$group", Value: bson.M{
			"_id":         "$_id.value",
			"total_count": bson.M{"$sum": "$count"},
			"breakdown": bson.M{"$push": bson.M{
				"gender": "$_id.gender",
				"count":  "$count",
			}},
		}}}, nil

	case domain.ProjectStage:
		return bson.D{{Key: "$project", Value: bson.M{
			"_id":         0,
			"value":       "$_id",
			"total_count": "$total_count",
			"breakdown": bson.M{"$map": bson.M{
				"input": "$breakdown",
				"as":    "item",
				"in": bson.M{
					"gender": "$$item.gender",
					"count":  "$$item.count",
					"percentage": bson.M{"$multiply": bson.A{
						bson.M{"$divide": bson.A{"$$item.count", "$total_count"}},
						100,
					}},
				},
			}},
		}}}, nil

	default:
		return nil, fmt.Errorf("unsupported pipeline stage %T", stage)
	}
}
