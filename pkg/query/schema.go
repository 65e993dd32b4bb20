package query

import (
	"fmt"
	"slices"
	"strings"
)

type ColumnType string

const (
	StringColumn  ColumnType = "string"
	NumberColumn  ColumnType = "number"
	EnumColumn    ColumnType = "enum"
	BooleanColumn ColumnType = "boolean"
	DateColumn    ColumnType = "date"
)

// NotDeleted is the soft delete marker value of a live row.
const NotDeleted = "no"

type Column struct {
	Name string
	Type ColumnType
}

// SearchColumn declares how the free text query matches one column.
// Each Match template must contain the {1} placeholder.
type SearchColumn struct {
	Column string
	Op     string
	Match  []string
}

type SortConfig struct {
	Default          string
	DefaultDirection string
	Allow            []string
}

type Pagination struct {
	MaxResults      int
	MaxStartIndex   int
	MaxResultsLimit int
}

// StatsConfig maps the public dimension and metric names to SQL expressions.
type StatsConfig struct {
	Dimensions map[string]string
	Metrics    map[string]string
	Pagination *Pagination
}

// Include is an association that may be joined into a list query.
//
// Include values stored in a Schema are shared by every request. Use Clone
// before attaching a Where or narrowing Attributes.
type Include struct {
	As        string
	Schema    *Schema
	Required  bool
	SourceKey string
	TargetKey string

	Where      *Where
	Attributes []string
}

// Clone returns a copy that shares nothing mutable with i.
func (i *Include) Clone() *Include {
	if i == nil {
		return nil
	}
	c := *i
	c.Where = i.Where.Clone()
	c.Attributes = slices.Clone(i.Attributes)
	return &c
}

// Schema describes a queryable entity. A Schema is built once at startup and
// read concurrently afterwards; nothing in this package writes to it.
type Schema struct {
	Name       string
	Table      string
	PrimaryKey string
	Columns    []Column

	FilterAttrs      []string
	SearchCols       []SearchColumn
	Includes         map[string]*Include
	Sort             *SortConfig
	Pagination       *Pagination
	SoftDelete       string
	AllowIncludeCols []string
	Stats            *StatsConfig

	// AllowAttrs restricts the keys of returned rows. It is applied with
	// FilterRows after execution; nil returns every selected column.
	AllowAttrs []string
}

// HasColumn reports whether name is a real column of the schema.
func (s *Schema) HasColumn(name string) bool {
	return slices.ContainsFunc(s.Columns, func(c Column) bool { return c.Name == name })
}

// ColumnNames returns the column names in declaration order.
func (s *Schema) ColumnNames() []string {
	names := make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		names = append(names, c.Name)
	}
	return names
}

// Filterable returns the columns accepted by the operator grammar.
func (s *Schema) Filterable() []string {
	if len(s.FilterAttrs) > 0 {
		return s.FilterAttrs
	}
	return s.ColumnNames()
}

// TableName returns the physical table, falling back to the schema name.
func (s *Schema) TableName() string {
	if s.Table != "" {
		return s.Table
	}
	return s.Name
}

func (s *Schema) Key() string {
	if s.PrimaryKey != "" {
		return s.PrimaryKey
	}
	return "id"
}

func (s *Schema) stats() *StatsConfig {
	if s.Stats == nil {
		return &StatsConfig{}
	}
	return s.Stats
}

// QuoteIdent quotes an identifier with double quotes.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QualifiedColumn renders "table"."column".
func QualifiedColumn(table, column string) string {
	return fmt.Sprintf("%s.%s", QuoteIdent(table), QuoteIdent(column))
}

// QuoteLiteral renders s as a single quoted SQL string literal.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
