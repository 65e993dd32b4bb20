package query

import (
	"maps"
	"slices"

	sq "github.com/Masterminds/squirrel"
)

// Op is a comparison operator of the filter predicate.
type Op string

const (
	OpEq      Op = "$eq"
	OpNe      Op = "$ne"
	OpIn      Op = "$in"
	OpNotIn   Op = "$not"
	OpLike    Op = "$like"
	OpNotLike Op = "$notLike"
	OpGt      Op = "$gt"
	OpGte     Op = "$gte"
	OpLt      Op = "$lt"
	OpLte     Op = "$lte"
)

// opOrder fixes the rendering order of the operators of one column.
var opOrder = []Op{OpEq, OpNe, OpIn, OpNotIn, OpLike, OpNotLike, OpGt, OpGte, OpLt, OpLte}

// Condition holds every comparison applied to one column. All of them must hold.
type Condition map[Op]any

// Fragment is a raw SQL expression with positional ? arguments.
type Fragment struct {
	SQL  string
	Args []any
}

func (f Fragment) ToSql() (string, []any, error) {
	return f.SQL, f.Args, nil
}

// Where is a filter predicate. Fields, Raw and All are combined with AND; Any
// is an OR group that is AND-ed with the rest.
type Where struct {
	Fields map[string]Condition
	Raw    []Fragment
	Any    []*Where
	All    []*Where
}

// Raw returns a predicate holding a single fragment.
func Raw(sql string, args ...any) *Where {
	return &Where{Raw: []Fragment{{SQL: sql, Args: args}}}
}

// Eq returns a predicate requiring column = value.
func Eq(column string, value any) *Where {
	return &Where{Fields: map[string]Condition{column: {OpEq: value}}}
}

// IsEmpty reports whether w constrains nothing.
func (w *Where) IsEmpty() bool {
	return w == nil || (len(w.Fields) == 0 && len(w.Raw) == 0 && len(w.Any) == 0 && len(w.All) == 0)
}

// Set merges op/value into the condition of column.
func (w *Where) Set(column string, op Op, value any) {
	if w.Fields == nil {
		w.Fields = map[string]Condition{}
	}
	c, ok := w.Fields[column]
	if !ok {
		c = Condition{}
		w.Fields[column] = c
	}
	c[op] = value
}

// Clone returns a deep copy of w.
func (w *Where) Clone() *Where {
	if w == nil {
		return nil
	}
	c := &Where{}
	if w.Fields != nil {
		c.Fields = make(map[string]Condition, len(w.Fields))
		for col, cond := range w.Fields {
			cc := maps.Clone(cond)
			for op, v := range cc {
				switch s := v.(type) {
				case []string:
					cc[op] = slices.Clone(s)
				case []any:
					cc[op] = slices.Clone(s)
				}
			}
			c.Fields[col] = cc
		}
	}
	for _, f := range w.Raw {
		c.Raw = append(c.Raw, Fragment{SQL: f.SQL, Args: slices.Clone(f.Args)})
	}
	for _, a := range w.Any {
		c.Any = append(c.Any, a.Clone())
	}
	for _, a := range w.All {
		c.All = append(c.All, a.Clone())
	}
	return c
}

// And combines the non empty predicates into one.
func And(ws ...*Where) *Where {
	var parts []*Where
	for _, w := range ws {
		if !w.IsEmpty() {
			parts = append(parts, w)
		}
	}
	switch len(parts) {
	case 0:
		return nil
	case 1:
		return parts[0]
	}
	return &Where{All: parts}
}

// Sqlizer renders w for squirrel. Field names are qualified with table.
func (w *Where) Sqlizer(table string) sq.Sqlizer {
	if w.IsEmpty() {
		return nil
	}

	and := sq.And{}
	for _, col := range slices.Sorted(maps.Keys(w.Fields)) {
		and = append(and, conditionSqlizers(QualifiedColumn(table, col), w.Fields[col])...)
	}
	for _, f := range w.Raw {
		and = append(and, f)
	}
	if len(w.Any) > 0 {
		or := sq.Or{}
		for _, a := range w.Any {
			if s := a.Sqlizer(table); s != nil {
				or = append(or, s)
			}
		}
		if len(or) > 0 {
			and = append(and, or)
		}
	}
	for _, a := range w.All {
		if s := a.Sqlizer(table); s != nil {
			and = append(and, s)
		}
	}

	if len(and) == 1 {
		return and[0]
	}
	return and
}

func conditionSqlizers(col string, c Condition) []sq.Sqlizer {
	var out []sq.Sqlizer
	for _, op := range opOrder {
		v, ok := c[op]
		if !ok {
			continue
		}
		switch op {
		case OpEq, OpIn:
			out = append(out, sq.Eq{col: v})
		case OpNe, OpNotIn:
			out = append(out, sq.NotEq{col: v})
		case OpLike:
			out = append(out, sq.Like{col: v})
		case OpNotLike:
			out = append(out, sq.NotLike{col: v})
		case OpGt:
			out = append(out, sq.Gt{col: v})
		case OpGte:
			out = append(out, sq.GtOrEq{col: v})
		case OpLt:
			out = append(out, sq.Lt{col: v})
		case OpLte:
			out = append(out, sq.LtOrEq{col: v})
		}
	}
	return out
}
