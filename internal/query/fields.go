package query

import (
	"fmt"
	"sort"

	"movie-catalog-api/internal/domain"
)

// allowedFields is the per-resource filter allow-list. Search requests may
// only constrain fields listed here; anything else rejects the whole
// request so a typo can never widen a query into a collection scan.
var allowedFields = map[domain.Resource]map[string]struct{}{
	domain.ResourceMovie: {
		"title":       {},
		"year":        {},
		"genre":       {},
		"actor":       {},
		"description": {},
		"rating":      {},
	},
	domain.ResourceActor: {
		"actor": {},
	},
	domain.ResourceRating: {
		"rating": {},
	},
}

// ValidateFields checks every filter key against the resource's allow-list.
// It is pure: no store access, no partial acceptance.
func ValidateFields(resource domain.Resource, filters domain.Filters) error {
	allowed, ok := allowedFields[resource]
	if !ok {
		return fmt.Errorf("unknown resource %q", resource)
	}

	var invalid []string
	for field := range filters {
		if _, ok := allowed[field]; !ok {
			invalid = append(invalid, field)
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return &domain.InvalidFieldsError{Resource: resource, Fields: invalid}
	}
	return nil
}
