package store

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/restquery/pkg/query"
)

// ListOption modifies a SELECT query for filtering/sorting/pagination.
type ListOption func(sq.SelectBuilder) sq.SelectBuilder

// WithSource adds the FROM clause of the descriptor's schema and one join per
// include. Required includes are inner joins, the others left joins.
func WithSource(d *query.Descriptor) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		b = b.From(tableAs(d.Schema.TableName(), d.Schema.Name))
		for _, inc := range d.Include {
			if inc.Schema == nil {
				continue
			}
			join, args := joinClause(d.Schema.Name, inc)
			if inc.Required {
				b = b.InnerJoin(join, args...)
			} else {
				b = b.LeftJoin(join, args...)
			}
		}
		return b
	}
}

// WithFilter adds the WHERE clause.
func WithFilter(d *query.Descriptor) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if where := d.Where.Sqlizer(d.Schema.Name); where != nil {
			b = b.Where(where)
		}
		return b
	}
}

// WithOrder adds the ORDER BY clause. Aggregate queries order by output alias,
// list queries by column of the primary entity.
func WithOrder(d *query.Descriptor) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		for _, o := range d.Order {
			field := query.QualifiedColumn(d.Schema.Name, o.Field)
			if d.Aggregate {
				field = query.QuoteIdent(o.Field)
			}
			b = b.OrderBy(field + " " + o.Direction)
		}
		return b
	}
}

// WithPage adds LIMIT and OFFSET when the descriptor carries them.
func WithPage(d *query.Descriptor) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if d.Limit != nil {
			b = b.Limit(uint64(*d.Limit))
		}
		if d.Offset != nil && *d.Offset > 0 {
			b = b.Offset(uint64(*d.Offset))
		}
		return b
	}
}

// WithGroup groups by the dimension expressions.
func WithGroup(d *query.Descriptor) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(d.Distinct) > 0 {
			b = b.GroupBy(d.Distinct...)
		}
		return b
	}
}

func apply(b sq.SelectBuilder, opts ...ListOption) sq.SelectBuilder {
	for _, opt := range opts {
		b = opt(b)
	}
	return b
}

func tableAs(table, alias string) string {
	return query.QuoteIdent(table) + " AS " + query.QuoteIdent(alias)
}

func joinClause(parent string, inc *query.Include) (string, []any) {
	source, target := inc.JoinKeys()

	var sb strings.Builder
	sb.WriteString(tableAs(inc.Schema.TableName(), inc.As))
	sb.WriteString(" ON ")
	sb.WriteString(query.QualifiedColumn(inc.As, target))
	sb.WriteString(" = ")
	sb.WriteString(query.QualifiedColumn(parent, source))

	where := inc.Where.Sqlizer(inc.As)
	if where == nil {
		return sb.String(), nil
	}
	sql, args, err := where.ToSql()
	if err != nil || sql == "" {
		return sb.String(), nil
	}
	sb.WriteString(" AND ")
	sb.WriteString(sql)
	return sb.String(), args
}

// columnsOf returns the projected columns of the primary entity and of every
// include. Include columns are aliased "<as>.<column>".
func columnsOf(d *query.Descriptor) []string {
	names := d.Attributes
	if names == nil {
		names = d.Schema.ColumnNames()
	}

	cols := make([]string, 0, len(names))
	for _, name := range names {
		cols = append(cols, query.QualifiedColumn(d.Schema.Name, name)+" AS "+query.QuoteIdent(name))
	}
	for _, inc := range d.Include {
		if inc.Schema == nil {
			continue
		}
		incNames := inc.Attributes
		if incNames == nil {
			incNames = inc.Schema.ColumnNames()
		}
		for _, name := range incNames {
			cols = append(cols, query.QualifiedColumn(inc.As, name)+" AS "+query.QuoteIdent(inc.As+"."+name))
		}
	}
	return cols
}

func selectionsOf(d *query.Descriptor) []string {
	cols := make([]string, 0, len(d.Selections))
	for _, s := range d.Selections {
		cols = append(cols, s.Expression+" AS "+query.QuoteIdent(s.Alias))
	}
	return cols
}
