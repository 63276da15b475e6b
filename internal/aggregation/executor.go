package aggregation

import (
	"context"
	"fmt"

	"movie-catalog-api/internal/domain"
)

// Runner is the store capability the executor needs: run one aggregation
// pipeline and return the decoded result rows.
type Runner interface {
	RunAggregation(ctx context.Context, spec domain.PipelineSpec) ([]domain.GenderStatistic, error)
}

// Executor submits pipelines to the store and materializes the results.
type Executor struct {
	store Runner
}

// NewExecutor creates an executor over the gender-record store.
func NewExecutor(store Runner) *Executor {
	return &Executor{store: store}
}

// Execute runs the pipeline in a single round trip and eagerly collects
// every result row. The row count is bounded by the dimension's
// cardinality, so buffering the whole result is fine here. Store faults are
// wrapped, never retried.
func (e *Executor) Execute(ctx context.Context, spec domain.PipelineSpec) ([]domain.GenderStatistic, error) {
	stats, err := e.store.RunAggregation(ctx, spec)
	if err != nil {
		return nil, &domain.ExecutionError{Op: fmt.Sprintf("%s aggregation", spec.Dimension), Err: err}
	}
	return stats, nil
}
