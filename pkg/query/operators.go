package query

import "strings"

// nullValue is the literal that selects SQL NULL in equality filters.
const nullValue = ".null."

var rangeOps = []struct {
	suffix string
	op     Op
}{
	{"_gt", OpGt},
	{"_gte", OpGte},
	{"_lt", OpLt},
	{"_lte", OpLte},
}

// ApplyFieldFilters reads the filter parameters of the logical field name and
// merges the comparisons they describe into where under column. Absent or
// malformed parameters are ignored.
func ApplyFieldFilters(params Params, name string, where *Where, column string) {
	if params == nil || where == nil {
		return
	}
	if column == "" {
		column = name
	}

	if v, ok := params.String(name); ok {
		where.Set(column, OpEq, nullable(v))
	} else if v, ok := params.Number(name); ok {
		where.Set(column, OpEq, v)
	}

	if list, ok := listValue(params[name+"s"]); ok {
		where.Set(column, OpIn, list)
	}

	if list, ok := listValue(params[name+"s!"]); ok {
		where.Set(column, OpNotIn, list)
	}

	if v, ok := params.String(name + "!"); ok {
		where.Set(column, OpNe, nullable(v))
	}

	if v, ok := params.String(name + "_like"); ok {
		where.Set(column, OpLike, likePattern(v))
	}

	if v, ok := params.String(name + "_notLike"); ok {
		where.Set(column, OpNotLike, likePattern(v))
	}

	for _, r := range rangeOps {
		key := name + r.suffix
		if v, ok := params.String(key); ok {
			where.Set(column, r.op, strings.TrimSpace(v))
		} else if v, ok := params.Number(key); ok {
			where.Set(column, r.op, v)
		}
	}
}

func nullable(v string) any {
	v = strings.TrimSpace(v)
	if v == nullValue {
		return nil
	}
	return v
}

func likePattern(v string) string {
	return strings.ReplaceAll(strings.TrimSpace(v), "*", "%")
}

// listValue accepts a comma separated string or a string slice.
func listValue(v any) ([]string, bool) {
	switch list := v.(type) {
	case string:
		parts := strings.Split(strings.TrimSpace(list), ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, true
	case []string:
		parts := make([]string, 0, len(list))
		for _, s := range list {
			parts = append(parts, strings.TrimSpace(s))
		}
		return parts, true
	}
	return nil, false
}
