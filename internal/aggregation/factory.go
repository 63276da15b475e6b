package aggregation

import (
	"fmt"
	"strconv"

	"movie-catalog-api/internal/domain"
)

// dimensionSpec parameterizes the shared pipeline shape for one dimension.
type dimensionSpec struct {
	field   string
	isArray bool
	numeric bool
}

var dimensions = map[domain.Dimension]dimensionSpec{
	domain.DimensionCountry:    {field: "countries", isArray: true},
	domain.DimensionCompany:    {field: "companies", isArray: true},
	domain.DimensionGenre:      {field: "genres", isArray: true},
	domain.DimensionDepartment: {field: "department"},
	domain.DimensionYear:       {field: "year", numeric: true},
}

// PipelineFactory builds gender-distribution aggregation pipelines. It is
// pure and deterministic: the same inputs always produce a structurally
// identical spec, and no store access happens here.
type PipelineFactory struct{}

// NewPipelineFactory creates a pipeline factory.
func NewPipelineFactory() *PipelineFactory {
	return &PipelineFactory{}
}

// ByCountry builds the gender distribution pipeline over production
// countries, optionally narrowed to one country.
func (f *PipelineFactory) ByCountry(value string) (domain.PipelineSpec, error) {
	return f.Build(domain.DimensionCountry, value)
}

// ByCompany builds the gender distribution pipeline over production
// companies.
func (f *PipelineFactory) ByCompany(value string) (domain.PipelineSpec, error) {
	return f.Build(domain.DimensionCompany, value)
}

// ByGenre builds the gender distribution pipeline over genres.
func (f *PipelineFactory) ByGenre(value string) (domain.PipelineSpec, error) {
	return f.Build(domain.DimensionGenre, value)
}

// ByDepartment builds the gender distribution pipeline over crew
// departments.
func (f *PipelineFactory) ByDepartment(value string) (domain.PipelineSpec, error) {
	return f.Build(domain.DimensionDepartment, value)
}

// ByYear builds the gender distribution pipeline over production years.
func (f *PipelineFactory) ByYear(value string) (domain.PipelineSpec, error) {
	return f.Build(domain.DimensionYear, value)
}

// Build assembles the five-stage pipeline for a dimension. An empty value
// aggregates across every value of the dimension.
//
// Array dimensions re-apply the exact value filter after the unwind: the
// pre-unwind match keeps only records containing the value, but unwinding
// them also emits their sibling elements, which must not leak into the
// grouping.
func (f *PipelineFactory) Build(dimension domain.Dimension, value string) (domain.PipelineSpec, error) {
	spec, ok := dimensions[dimension]
	if !ok {
		return domain.PipelineSpec{}, &domain.InvalidValueError{
			Field:  "dimension",
			Reason: fmt.Sprintf("unknown dimension %q", dimension),
		}
	}

	var filterValue any
	if value != "" {
		if spec.numeric {
			year, err := strconv.Atoi(value)
			if err != nil {
				return domain.PipelineSpec{}, &domain.InvalidValueError{
					Field:  string(dimension),
					Reason: fmt.Sprintf("%q is not a number", value),
				}
			}
			filterValue = year
		} else {
			filterValue = value
		}
	}

	stages := []domain.Stage{
		domain.MatchStage{
			Field:         spec.field,
			RequireExists: true,
			Genders:       domain.KnownGenders,
			Value:         filterValue,
		},
	}
	if spec.isArray {
		stages = append(stages, domain.UnwindStage{Field: spec.field})
		if filterValue != nil {
			stages = append(stages, domain.MatchStage{Field: spec.field, Value: filterValue})
		}
	}
	stages = append(stages,
		domain.GroupStage{Field: spec.field},
		domain.RegroupStage{},
		domain.ProjectStage{},
	)

	return domain.PipelineSpec{Dimension: dimension, Stages: stages}, nil
}
