package query

import (
	"slices"
	"strings"
)

// Descriptor is the compiled, executor independent form of a query.
type Descriptor struct {
	Schema     *Schema
	Where      *Where
	Include    []*Include
	Order      []Order
	Offset     *int
	Limit      *int
	Attributes []string

	// Statistics only.
	Aggregate  bool
	Selections []Selection
	Group      []string
	Distinct   []string
}

// Selection is an "<Expression> AS <Alias>" output column.
type Selection struct {
	Expression string
	Alias      string
}

type listConfig struct {
	all bool
}

type ListOption func(*listConfig)

// WithAllRows omits offset and limit from the descriptor.
func WithAllRows() ListOption {
	return func(c *listConfig) {
		c.all = true
	}
}

// BuildListQuery compiles the list query of s for params.
func BuildListQuery(s *Schema, params Params, opts ...ListOption) *Descriptor {
	cfg := listConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	d := &Descriptor{Schema: s}
	d.Where, d.Include = buildFilter(s, params)
	d.Order = ResolveSort(params, s.Sort)
	d.Attributes = projection(s, params["attrs"])

	if !cfg.all {
		page := ClampPage(s.Pagination, params)
		d.Offset = &page.Offset
		d.Limit = &page.Limit
	}
	return d
}

// BuildDetailQuery compiles the lookup of the row of s whose primary key is id.
// Only includes, attrs and showDelete are read from params.
func BuildDetailQuery(s *Schema, id any, params Params) *Descriptor {
	where := Eq(s.Key(), id)
	if s.SoftDelete != "" && !params.Truthy("showDelete") {
		where.Set(s.SoftDelete, OpEq, NotDeleted)
	}

	includes := ResolveIncludes(params["includes"], s.Includes)
	for _, inc := range includes {
		applyIncludeFilters(inc, Params{"showDelete": params["showDelete"]})
	}

	limit := 1
	return &Descriptor{
		Schema:     s,
		Where:      where,
		Include:    includes,
		Attributes: projection(s, params["attrs"]),
		Limit:      &limit,
	}
}

// buildFilter runs the operator grammar, soft delete handling, association
// resolution and free text search of a list query.
func buildFilter(s *Schema, params Params) (*Where, []*Include) {
	where := &Where{}
	for _, name := range s.Filterable() {
		ApplyFieldFilters(params, name, where, name)
	}
	if s.SoftDelete != "" && !params.Truthy("showDelete") {
		where.Set(s.SoftDelete, OpEq, NotDeleted)
	}

	searchs, _ := params.String("_searchs")
	searches := [][][]string{BuildSearchClauses(s, searchs, params["q"], "")}

	includes := ResolveIncludes(params["includes"], s.Includes)
	for _, inc := range includes {
		applyIncludeFilters(inc, params)
		searches = append(searches, BuildSearchClauses(inc.Schema, searchs, params["q"], inc.As))
	}

	if merged := MergeSearchClauses(searches...); merged != "" {
		where.Raw = append(where.Raw, Fragment{SQL: merged})
	}

	if where.IsEmpty() {
		return nil, includes
	}
	return where, includes
}

func projection(s *Schema, attrs any) []string {
	csv, ok := attrs.(string)
	if !ok || csv == "" {
		return nil
	}
	var out []string
	for _, name := range strings.Split(csv, ",") {
		if s.HasColumn(name) && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

// FilterRow keeps the allowed keys of row.
func FilterRow(row map[string]any, allow []string) map[string]any {
	out := make(map[string]any, len(allow))
	for _, k := range allow {
		if v, ok := row[k]; ok {
			out[k] = v
		}
	}
	return out
}

// FilterRows applies FilterRow to every row. A nil allow list keeps rows as is.
func FilterRows(rows []map[string]any, allow []string) []map[string]any {
	if allow == nil {
		return rows
	}
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, FilterRow(r, allow))
	}
	return out
}
