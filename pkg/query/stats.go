package query

import (
	"net/url"
	"strings"
)

// BuildAggregateQuery compiles a statistics query of s. extra is AND-ed into
// the WHERE clause; dynamic extends the dimensions and metrics of s.Stats.
//
// Unknown dimension, metric or filter names fail with a *ValidationError.
func BuildAggregateQuery(s *Schema, params Params, extra *Where, dynamic *Expressions) (*Descriptor, error) {
	r := NewResolver(s, dynamic)

	dims, err := Dimensions(params, r)
	if err != nil {
		return nil, err
	}
	mets, err := Metrics(params, r)
	if err != nil {
		return nil, err
	}
	filters, err := Filters(s, params["filters"], r)
	if err != nil {
		return nil, err
	}

	where, includes := buildFilter(s, params)
	for _, inc := range includes {
		inc.Attributes = []string{}
	}

	pagination := s.stats().Pagination
	if pagination == nil {
		pagination = &DefaultStatsPagination
	}
	page := ClampPage(pagination, params)

	d := &Descriptor{
		Schema:     s,
		Aggregate:  true,
		Where:      And(filters, where, extra),
		Include:    includes,
		Selections: append(dims, mets...),
		Order:      ResolveSort(params, &SortConfig{Allow: requestedNames(params)}),
		Offset:     &page.Offset,
		Limit:      &page.Limit,
	}
	for _, dim := range dims {
		d.Group = append(d.Group, dim.Alias)
		d.Distinct = append(d.Distinct, dim.Expression)
	}
	return d, nil
}

// Dimensions resolves the dimensions parameter. It returns nil when absent.
func Dimensions(params Params, r Resolver) ([]Selection, error) {
	raw, ok := params["dimensions"]
	if !ok || raw == nil || raw == "" {
		return nil, nil
	}
	csv, ok := raw.(string)
	if !ok {
		return nil, newValidationError("dimensions", "", "must be a string")
	}

	var out []Selection
	for _, name := range strings.Split(csv, ",") {
		switch res := r.Dimension(name).(type) {
		case Resolved:
			out = append(out, Selection{Expression: res.Expression, Alias: name})
		case Unresolved:
			return nil, newValidationError("dimensions", res.Name, "not allowed")
		}
	}
	return out, nil
}

// Metrics resolves the metrics parameter, which is required.
func Metrics(params Params, r Resolver) ([]Selection, error) {
	raw, ok := params["metrics"]
	if !ok || raw == nil || raw == "" {
		return nil, newValidationError("metrics", "", "is required")
	}
	csv, ok := raw.(string)
	if !ok {
		return nil, newValidationError("metrics", "", "must be a string")
	}

	var out []Selection
	for _, name := range strings.Split(csv, ",") {
		switch res := r.Metric(name).(type) {
		case Resolved:
			out = append(out, Selection{Expression: res.Expression, Alias: name})
		case Unresolved:
			return nil, newValidationError("metrics", res.Name, "not allowed")
		}
	}
	return out, nil
}

// Filters compiles the statistics filters parameter. Clauses separated by ","
// are alternatives, groups separated by ";" must all hold.
func Filters(s *Schema, raw any, r Resolver) (*Where, error) {
	if raw == nil || raw == "" {
		return nil, nil
	}
	filters, ok := raw.(string)
	if !ok {
		return nil, newValidationError("filters", "", "must be a string")
	}

	var groups []*Where
	for _, group := range strings.Split(filters, ";") {
		or := &Where{}
		for _, clause := range strings.Split(group, ",") {
			key, value, found := strings.Cut(clause, "==")
			if !found {
				return nil, newValidationError("filters", clause, "expected key==value")
			}
			expr, err := filterKey(s, key, r)
			if err != nil {
				return nil, err
			}
			decoded, err := url.PathUnescape(value)
			if err != nil {
				return nil, newValidationError("filters", clause, "malformed escape sequence")
			}
			or.Any = append(or.Any, Raw(expr+" = ?", decoded))
		}
		groups = append(groups, or)
	}
	return And(groups...), nil
}

func filterKey(s *Schema, key string, r Resolver) (string, error) {
	if s.HasColumn(key) {
		return QualifiedColumn(s.Name, key), nil
	}
	if res, ok := r.Dimension(key).(Resolved); ok {
		return res.Expression, nil
	}
	return "", newValidationError("filters", key, "unknown key")
}

func requestedNames(params Params) []string {
	var names []string
	for _, k := range []string{"dimensions", "metrics"} {
		if csv, ok := params.String(k); ok && csv != "" {
			names = append(names, strings.Split(csv, ",")...)
		}
	}
	return names
}
