package domain

// Gender is the TMDB gender code carried on cast and crew entries.
type Gender int

const (
	GenderUnknown Gender = 0
	GenderFemale  Gender = 1
	GenderMale    Gender = 2
)

// KnownGenders is the closed set of codes the statistics pipelines accept.
var KnownGenders = []Gender{GenderUnknown, GenderFemale, GenderMale}

// GenderRecord is one denormalized fact row, one per (movie, person) pair.
// The rows are written once by ingestion and only ever read afterwards.
type GenderRecord struct {
	MovieID    int      `bson:"movie_id" json:"movie_id"`
	Title      string   `bson:"title,omitempty" json:"title,omitempty"`
	Year       int      `bson:"year,omitempty" json:"year,omitempty"`
	Countries  []string `bson:"countries,omitempty" json:"countries,omitempty"`
	Companies  []string `bson:"companies,omitempty" json:"companies,omitempty"`
	Genres     []string `bson:"genres,omitempty" json:"genres,omitempty"`
	Department string   `bson:"department" json:"department"`
	Gender     Gender   `bson:"gender" json:"gender"`
	Name       string   `bson:"name,omitempty" json:"name,omitempty"`
}

// GenderBreakdown is the per-gender slice of one aggregated dimension value.
type GenderBreakdown struct {
	Gender     Gender  `bson:"gender" json:"gender"`
	Count      int     `bson:"count" json:"count"`
	Percentage float64 `bson:"percentage" json:"percentage"`
}

// GenderStatistic is one aggregation output row: a single dimension value
// with its total and per-gender breakdown.
type GenderStatistic struct {
	Value      any               `bson:"value" json:"value"`
	TotalCount int               `bson:"total_count" json:"total_count"`
	Breakdown  []GenderBreakdown `bson:"breakdown" json:"breakdown"`
}
