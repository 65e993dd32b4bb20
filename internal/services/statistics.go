package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/kubev2v/restquery/internal/models"
	"github.com/kubev2v/restquery/internal/registry"
	"github.com/kubev2v/restquery/internal/store"
	"github.com/kubev2v/restquery/pkg/query"
)

type StatisticsService struct {
	registry *registry.Registry
	store    *store.Store
	logger   *zap.SugaredLogger
}

func NewStatisticsService(reg *registry.Registry, st *store.Store) *StatisticsService {
	return &StatisticsService{
		registry: reg,
		store:    st,
		logger:   zap.S().Named("statistics_service"),
	}
}

type statsOptions struct {
	where   *query.Where
	dynamic *query.Expressions
}

type StatsOption func(*statsOptions)

// WithCondition ANDs where into the statistics query.
func WithCondition(where *query.Where) StatsOption {
	return func(o *statsOptions) {
		o.where = where
	}
}

// WithExpressions adds request scoped dimensions and metrics.
func WithExpressions(dynamic *query.Expressions) StatsOption {
	return func(o *statsOptions) {
		o.dynamic = dynamic
	}
}

// Run executes a statistics query. Invalid dimensions, metrics or filters
// return a *query.ValidationError before anything is executed.
func (s *StatisticsService) Run(ctx context.Context, entity string, params query.Params, opts ...StatsOption) (*models.AggregateResult, error) {
	schema, err := s.registry.Get(entity)
	if err != nil {
		return nil, err
	}

	o := statsOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	d, err := query.BuildAggregateQuery(schema, params, o.where, o.dynamic)
	if err != nil {
		s.logger.Errorw("invalid statistics query", "entity", entity, "error", err)
		return nil, err
	}

	result := &models.AggregateResult{}
	for _, sel := range d.Selections {
		result.Columns = append(result.Columns, sel.Alias)
	}
	if !ignoreTotal(params) {
		total, err := s.store.Entities().CountDistinct(ctx, d)
		if err != nil {
			return nil, err
		}
		result.Total = total
		result.TotalKnown = true
	}

	rows, err := s.store.Entities().Aggregate(ctx, d)
	if err != nil {
		return nil, err
	}
	result.Rows = rows

	s.logger.Debugw("statistics", "entity", entity, "groups", len(rows), "total", result.Total)
	return result, nil
}
