package domain

// Dimension is a categorical axis the gender statistics are aggregated along.
type Dimension string

const (
	DimensionCountry    Dimension = "country"
	DimensionCompany    Dimension = "company"
	DimensionGenre      Dimension = "genre"
	DimensionDepartment Dimension = "department"
	DimensionYear       Dimension = "year"
)

// Stage is one step of an aggregation pipeline. The set of implementations
// is closed; only the repository layer renders stages into store commands.
type Stage interface{ isStage() }

// MatchStage filters records before or after an unwind. The first match of
// a pipeline sets RequireExists and Genders; the re-match emitted after an
// unwind carries only the exact value filter.
type MatchStage struct {
	Field         string
	RequireExists bool
	Genders       []Gender
	Value         any
}

// UnwindStage emits one record per element of the array field.
type UnwindStage struct {
	Field string
}

// GroupStage groups records by (dimension value, gender) and counts each
// group.
type GroupStage struct {
	Field string
}

// RegroupStage groups the first pass by dimension value alone, summing the
// counts into a total and collecting the per-gender breakdown.
type RegroupStage struct{}

// ProjectStage derives percentage = count / total_count * 100 for every
// breakdown entry.
type ProjectStage struct{}

func (MatchStage) isStage()   {}
func (UnwindStage) isStage()  {}
func (GroupStage) isStage()   {}
func (RegroupStage) isStage() {}
func (ProjectStage) isStage() {}

// PipelineSpec is an ordered aggregation pipeline over the gender-record
// collection. Specs are pure values: building the same spec twice from the
// same inputs yields structurally identical results.
type PipelineSpec struct {
	Dimension Dimension
	Stages    []Stage
}
