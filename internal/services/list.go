package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kubev2v/restquery/internal/models"
	"github.com/kubev2v/restquery/internal/registry"
	"github.com/kubev2v/restquery/internal/store"
	srvErrors "github.com/kubev2v/restquery/pkg/errors"
	"github.com/kubev2v/restquery/pkg/query"
)

// ignoreTotalParam set to "yes" skips the count query.
const ignoreTotalParam = "_ignoreTotal"

type ListService struct {
	registry *registry.Registry
	store    *store.Store
	logger   *zap.SugaredLogger
}

func NewListService(reg *registry.Registry, st *store.Store) *ListService {
	return &ListService{
		registry: reg,
		store:    st,
		logger:   zap.S().Named("list_service"),
	}
}

// List returns one page of entity rows. The count query runs first unless
// _ignoreTotal=yes; a zero count skips the row query.
func (s *ListService) List(ctx context.Context, entity string, params query.Params) (*models.ListResult, error) {
	schema, err := s.registry.Get(entity)
	if err != nil {
		return nil, err
	}

	d := query.BuildListQuery(schema, params)
	result := &models.ListResult{Items: []models.Row{}}

	if !ignoreTotal(params) {
		total, err := s.store.Entities().Count(ctx, d)
		if err != nil {
			return nil, err
		}
		result.Total = total
		result.TotalKnown = true
		if total == 0 {
			return result, nil
		}
	}

	rows, err := s.store.Entities().List(ctx, d)
	if err != nil {
		return nil, err
	}
	result.Items = outputFilter(schema, params, rows)

	s.logger.Debugw("list", "entity", entity, "rows", len(result.Items), "total", result.Total, "total_known", result.TotalKnown)
	return result, nil
}

// Get returns the row of entity whose primary key is id.
func (s *ListService) Get(ctx context.Context, entity, id string, params query.Params) (models.Row, error) {
	schema, err := s.registry.Get(entity)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.Entities().List(ctx, query.BuildDetailQuery(schema, id, params))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, srvErrors.NewResourceNotFoundError(entity, id)
	}
	return outputFilter(schema, params, rows)[0], nil
}

func ignoreTotal(params query.Params) bool {
	v, _ := params.String(ignoreTotalParam)
	return v == "yes"
}

// outputFilter applies the schema whitelist, then the attrs parameter.
func outputFilter(schema *query.Schema, params query.Params, rows []models.Row) []models.Row {
	rows = filterRows(rows, schema.AllowAttrs)
	if attrs, ok := params.String("attrs"); ok && attrs != "" {
		rows = filterRows(rows, strings.Split(attrs, ","))
	}
	return rows
}

func filterRows(rows []models.Row, allow []string) []models.Row {
	if allow == nil {
		return rows
	}
	out := make([]models.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, query.FilterRow(r, allow))
	}
	return out
}
