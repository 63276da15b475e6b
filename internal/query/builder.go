package query

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"movie-catalog-api/internal/domain"
)

// Builder turns a validated filter set into one compound predicate. All
// terms are merged conjunctively; there is no OR or NOT.
type Builder struct {
	resolver *Resolver
	now      func() time.Time
}

// NewBuilder creates a query builder over the given resolver.
func NewBuilder(resolver *Resolver) *Builder {
	return &Builder{resolver: resolver, now: time.Now}
}

// Build translates the raw filters for a resource into a predicate.
//
// Every field name and every field value is validated before the first
// store round trip, so a malformed filter can never cost a wasted
// cross-collection query. Fields are then translated in lexical order;
// ordering does not affect the result since the merge is commutative AND.
func (b *Builder) Build(ctx context.Context, resource domain.Resource, filters domain.Filters) (domain.Predicate, error) {
	if len(filters) == 0 {
		return domain.Predicate{}, &domain.MissingFilterError{Resource: resource}
	}

	if err := ValidateFields(resource, filters); err != nil {
		return domain.Predicate{}, err
	}
	if err := b.validateValues(filters); err != nil {
		return domain.Predicate{}, err
	}

	fields := make([]string, 0, len(filters))
	for field := range filters {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	predicate := domain.Predicate{}
	for _, field := range fields {
		term, err := b.translate(ctx, resource, field, filters[field])
		if err != nil {
			return domain.Predicate{}, err
		}
		predicate = predicate.And(term)
	}
	return predicate, nil
}

// validateValues runs every pure value check up front.
func (b *Builder) validateValues(filters domain.Filters) error {
	for field, value := range filters {
		switch field {
		case "year":
			if _, _, err := b.yearRange(value); err != nil {
				return err
			}
		case "rating":
			if _, err := ParseRating(value); err != nil {
				return err
			}
		case "actor":
			if _, err := strconv.ParseFloat(value, 64); err == nil {
				return &domain.InvalidValueError{Field: "actor", Reason: "actor name must not be numeric"}
			}
		}
	}
	return nil
}

func (b *Builder) translate(ctx context.Context, resource domain.Resource, field, value string) (domain.Term, error) {
	switch field {
	case "actor":
		// Searching actors themselves stays in the credits collection; a
		// movie search resolves the name into movie ids first.
		if resource == domain.ResourceActor {
			return domain.ContainsTerm{Field: "cast.name", Value: value}, nil
		}
		ids, err := b.resolver.ResolveActor(ctx, value)
		if err != nil {
			return nil, err
		}
		return domain.InTerm{Field: "movie_id", IDs: ids}, nil

	case "genre":
		ids, err := b.resolver.ResolveGenre(ctx, value)
		if err != nil {
			return nil, err
		}
		return domain.InTerm{Field: "movie_id", IDs: ids}, nil

	case "rating":
		// On the ratings collection the threshold applies directly; on
		// movies it resolves to the ids of sufficiently rated movies.
		if resource == domain.ResourceRating {
			threshold, err := ParseRating(value)
			if err != nil {
				return nil, err
			}
			return domain.GreaterOrEqualTerm{Field: "rating", Value: threshold}, nil
		}
		ids, err := b.resolver.ResolveRating(ctx, value)
		if err != nil {
			return nil, err
		}
		return domain.InTerm{Field: "movie_id", IDs: ids}, nil

	case "year":
		from, to, err := b.yearRange(value)
		if err != nil {
			return nil, err
		}
		return domain.RangeTerm{Field: "release_date", From: from, To: to}, nil

	case "description":
		return domain.ContainsTerm{Field: "overview", Value: value}, nil

	default:
		// Remaining allow-listed fields (title) match as substrings on the
		// field itself.
		return domain.ContainsTerm{Field: field, Value: value}, nil
	}
}

// yearRange parses a production year and widens it to the inclusive
// calendar-year range on the release date.
func (b *Builder) yearRange(value string) (time.Time, time.Time, error) {
	year, err := strconv.Atoi(value)
	if err != nil {
		return time.Time{}, time.Time{}, &domain.InvalidValueError{Field: "year", Reason: fmt.Sprintf("%q is not a number", value)}
	}
	current := b.now().Year()
	if year < 1900 || year > current {
		return time.Time{}, time.Time{}, &domain.InvalidValueError{
			Field:  "year",
			Reason: fmt.Sprintf("must be between 1900 and %d", current),
		}
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	return from, to, nil
}
