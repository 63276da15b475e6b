package repository

import (
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"

	"movie-catalog-api/internal/domain"
)

// renderPredicate translates the closed predicate type into a bson filter
// document. Terms are combined with $and so that several terms on the same
// field (for example two resolved id sets on movie_id) never clobber each
// other.
func renderPredicate(p domain.Predicate) (bson.M, error) {
	if p.IsEmpty() {
		return bson.M{}, nil
	}

	clauses := make([]bson.M, 0, len(p.Terms))
	for _, term := range p.Terms {
		clause, err := renderTerm(term)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}

	if len(clauses) == 1 {
		return clauses[0], nil
	}
	return bson.M{"$and": clauses}, nil
}

func renderTerm(term domain.Term) (bson.M, error) {
	switch t := term.(type) {
	case domain.EqualsTerm:
		return bson.M{t.Field: t.Value}, nil
	case domain.ContainsTerm:
		// Case-insensitive substring match; the raw value is quoted so user
		// input can never smuggle regex syntax into the store.
		return bson.M{t.Field: bson.M{"$regex": regexp.QuoteMeta(t.Value), "$options": "i"}}, nil
	case domain.RangeTerm:
		return bson.M{t.Field: bson.M{"$gte": t.From, "$lte": t.To}}, nil
	case domain.GreaterOrEqualTerm:
		return bson.M{t.Field: bson.M{"$gte": t.Value}}, nil
	case domain.InTerm:
		// An empty id set renders to $in over an empty array, which matches
		// no documents. Eliding the clause instead would silently relax the
		// filter to the whole collection.
		ids := t.IDs
		if ids == nil {
			ids = []int{}
		}
		return bson.M{t.Field: bson.M{"$in": ids}}, nil
	default:
		return nil, fmt.Errorf("unsupported predicate term %T", term)
	}
}
