package registry

import (
	"github.com/kubev2v/restquery/pkg/query"
)

// document is the layout of one schema file.
type document struct {
	Entities []EntityDef `yaml:"entities" validate:"dive"`
}

// EntityDef is the YAML form of a query.Schema.
type EntityDef struct {
	Name             string         `yaml:"name" validate:"required"`
	Table            string         `yaml:"table"`
	PrimaryKey       string         `yaml:"primaryKey" default:"id"`
	Columns          []ColumnDef    `yaml:"columns" validate:"required,min=1,dive"`
	FilterAttrs      []string       `yaml:"filterAttrs"`
	Search           []SearchDef    `yaml:"search" validate:"dive"`
	Includes         []IncludeDef   `yaml:"includes" validate:"dive"`
	Sort             *SortDef       `yaml:"sort"`
	Pagination       *PaginationDef `yaml:"pagination"`
	SoftDelete       string         `yaml:"softDelete"`
	AllowIncludeCols []string       `yaml:"allowIncludeCols"`
	Stats            *StatsDef      `yaml:"stats"`
	AllowAttrs       []string       `yaml:"allowAttrs"`
}

type ColumnDef struct {
	Name string `yaml:"name" validate:"required"`
	Type string `yaml:"type" default:"string" validate:"oneof=string number enum boolean date"`
}

type SearchDef struct {
	Column string   `yaml:"column" validate:"required"`
	Op     string   `yaml:"op" default:"LIKE"`
	Match  []string `yaml:"match"`
}

type IncludeDef struct {
	As        string `yaml:"as" validate:"required"`
	Entity    string `yaml:"entity" validate:"required"`
	Required  bool   `yaml:"required"`
	SourceKey string `yaml:"sourceKey"`
	TargetKey string `yaml:"targetKey"`
}

type SortDef struct {
	Default   string   `yaml:"default"`
	Direction string   `yaml:"direction" default:"ASC" validate:"oneof=ASC DESC asc desc"`
	Allow     []string `yaml:"allow"`
}

// PaginationDef fields left out fall back to the list or statistics defaults.
type PaginationDef struct {
	MaxResults      *int `yaml:"maxResults" validate:"omitempty,gte=0"`
	MaxStartIndex   *int `yaml:"maxStartIndex" validate:"omitempty,gte=0"`
	MaxResultsLimit *int `yaml:"maxResultsLimit" validate:"omitempty,gte=0"`
}

type StatsDef struct {
	Dimensions map[string]string `yaml:"dimensions"`
	Metrics    map[string]string `yaml:"metrics"`
	Pagination *PaginationDef    `yaml:"pagination"`
}

// schema converts the definition. Includes are linked afterwards.
func (d *EntityDef) schema() *query.Schema {
	s := &query.Schema{
		Name:             d.Name,
		Table:            d.Table,
		PrimaryKey:       d.PrimaryKey,
		FilterAttrs:      d.FilterAttrs,
		SoftDelete:       d.SoftDelete,
		AllowIncludeCols: d.AllowIncludeCols,
		AllowAttrs:       d.AllowAttrs,
		Pagination:       d.Pagination.pagination(query.DefaultPagination),
	}
	for _, c := range d.Columns {
		s.Columns = append(s.Columns, query.Column{Name: c.Name, Type: query.ColumnType(c.Type)})
	}
	for _, sc := range d.Search {
		s.SearchCols = append(s.SearchCols, query.SearchColumn{Column: sc.Column, Op: sc.Op, Match: sc.Match})
	}
	if d.Sort != nil {
		s.Sort = &query.SortConfig{
			Default:          d.Sort.Default,
			DefaultDirection: d.Sort.Direction,
			Allow:            d.Sort.Allow,
		}
	}
	if d.Stats != nil {
		s.Stats = &query.StatsConfig{
			Dimensions: d.Stats.Dimensions,
			Metrics:    d.Stats.Metrics,
			Pagination: d.Stats.Pagination.pagination(query.DefaultStatsPagination),
		}
	}
	return s
}

func (p *PaginationDef) pagination(base query.Pagination) *query.Pagination {
	if p == nil {
		return nil
	}
	if p.MaxResults != nil {
		base.MaxResults = *p.MaxResults
	}
	if p.MaxStartIndex != nil {
		base.MaxStartIndex = *p.MaxStartIndex
	}
	if p.MaxResultsLimit != nil {
		base.MaxResultsLimit = *p.MaxResultsLimit
	}
	return &base
}
