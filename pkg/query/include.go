package query

import "strings"

// ResolveIncludes returns clones of the associations named in the comma
// separated requested value, in request order. Unknown names are skipped.
func ResolveIncludes(requested any, includes map[string]*Include) []*Include {
	csv, ok := requested.(string)
	if !ok || len(includes) == 0 {
		return nil
	}

	var out []*Include
	for _, name := range strings.Split(csv, ",") {
		inc, ok := includes[name]
		if !ok || inc == nil {
			continue
		}
		out = append(out, inc.Clone())
	}
	return out
}

// applyIncludeFilters attaches the request filters, the soft delete visibility
// and the projection of one resolved association. inc must be a clone.
func applyIncludeFilters(inc *Include, params Params) {
	target := inc.Schema
	if target == nil {
		return
	}

	where := &Where{}
	nested := params.Nested(inc.As)
	for _, name := range target.Filterable() {
		ApplyFieldFilters(nested, name, where, name)
	}

	if target.SoftDelete != "" && !params.Truthy("showDelete") {
		live := Eq(target.SoftDelete, NotDeleted)
		if inc.Required {
			where.All = append(where.All, live)
		} else {
			where.Any = append(where.Any, live, Eq(inc.targetKey(), nil))
		}
	}

	inc.Where = And(inc.Where, where)

	if len(target.AllowIncludeCols) > 0 {
		inc.Attributes = append([]string(nil), target.AllowIncludeCols...)
	}
}

func (i *Include) targetKey() string {
	if i.TargetKey != "" {
		return i.TargetKey
	}
	if i.Schema != nil {
		return i.Schema.Key()
	}
	return "id"
}

// JoinKeys returns the parent and target columns of the join condition.
func (i *Include) JoinKeys() (source, target string) {
	source = i.SourceKey
	if source == "" {
		source = i.As + "Id"
	}
	return source, i.targetKey()
}
