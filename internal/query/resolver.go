package query

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"movie-catalog-api/internal/domain"
)

// MovieIDFinder is the single store capability cross-collection resolution
// needs: run one predicate against a collection and collect the movie ids
// of every match.
type MovieIDFinder interface {
	FindMovieIDsByQuery(ctx context.Context, predicate domain.Predicate) ([]int, error)
}

// Resolver translates a filter expressed against one collection into the
// set of movie ids usable to filter another. Each resolution is exactly one
// store round trip; results are never cached across invocations.
type Resolver struct {
	movies  MovieIDFinder
	credits MovieIDFinder
	ratings MovieIDFinder
}

// NewResolver creates a resolver over the three searchable collections.
func NewResolver(movies, credits, ratings MovieIDFinder) *Resolver {
	return &Resolver{movies: movies, credits: credits, ratings: ratings}
}

// ResolveActor finds the ids of every movie whose cast contains a member
// matching the name substring. Purely numeric values are rejected: actors
// are named, not numbered, so a number is always a caller mistake.
func (r *Resolver) ResolveActor(ctx context.Context, value string) ([]int, error) {
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return nil, &domain.InvalidValueError{Field: "actor", Reason: "actor name must not be numeric"}
	}

	predicate := domain.Predicate{}.And(domain.ContainsTerm{Field: "cast.name", Value: value})
	ids, err := r.credits.FindMovieIDsByQuery(ctx, predicate)
	if err != nil {
		return nil, &domain.ExecutionError{Op: "resolve actor", Err: err}
	}
	return uniqueIDs(ids), nil
}

// ResolveGenre finds the ids of every movie carrying a genre whose name
// matches the substring.
func (r *Resolver) ResolveGenre(ctx context.Context, value string) ([]int, error) {
	predicate := domain.Predicate{}.And(domain.ContainsTerm{Field: "genres.name", Value: value})
	ids, err := r.movies.FindMovieIDsByQuery(ctx, predicate)
	if err != nil {
		return nil, &domain.ExecutionError{Op: "resolve genre", Err: err}
	}
	return uniqueIDs(ids), nil
}

// ResolveRating finds the ids of every movie rated at or above the
// threshold. The threshold must parse as a number in [0, 5].
func (r *Resolver) ResolveRating(ctx context.Context, value string) ([]int, error) {
	threshold, err := ParseRating(value)
	if err != nil {
		return nil, err
	}

	predicate := domain.Predicate{}.And(domain.GreaterOrEqualTerm{Field: "rating", Value: threshold})
	ids, err := r.ratings.FindMovieIDsByQuery(ctx, predicate)
	if err != nil {
		return nil, &domain.ExecutionError{Op: "resolve rating", Err: err}
	}
	return uniqueIDs(ids), nil
}

// ParseRating validates a rating threshold: numeric, 0–5 inclusive.
func ParseRating(value string) (float64, error) {
	threshold, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &domain.InvalidValueError{Field: "rating", Reason: fmt.Sprintf("%q is not a number", value)}
	}
	if threshold < 0 || threshold > 5 {
		return 0, &domain.InvalidValueError{Field: "rating", Reason: "must be between 0 and 5"}
	}
	return threshold, nil
}

// uniqueIDs sorts and deduplicates a resolved id set. A credit document can
// surface the same movie more than once; the predicate wants a set.
func uniqueIDs(ids []int) []int {
	if len(ids) == 0 {
		return []int{}
	}
	sort.Ints(ids)
	out := ids[:1]
	for _, id := range ids[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}
