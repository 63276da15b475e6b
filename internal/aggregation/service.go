package aggregation

import (
	"context"

	"movie-catalog-api/internal/domain"
)

// Service glues the pipeline factory and the executor into the single
// operation the statistics endpoints need.
type Service struct {
	factory  *PipelineFactory
	executor *Executor
}

// NewService creates a statistics service over the gender-record store.
func NewService(store Runner) *Service {
	return &Service{
		factory:  NewPipelineFactory(),
		executor: NewExecutor(store),
	}
}

// Distribution computes the gender distribution along one dimension,
// optionally narrowed to a single value. A dimension value with no matching
// records simply yields no row; deciding whether that is a 404 is the
// caller's business.
func (s *Service) Distribution(ctx context.Context, dimension domain.Dimension, value string) ([]domain.GenderStatistic, error) {
	spec, err := s.factory.Build(dimension, value)
	if err != nil {
		return nil, err
	}
	return s.executor.Execute(ctx, spec)
}
