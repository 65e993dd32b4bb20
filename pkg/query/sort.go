package query

import (
	"slices"
	"strings"
)

const (
	Asc  = "ASC"
	Desc = "DESC"
)

type Order struct {
	Field     string
	Direction string
}

// ResolveSort turns the sort parameter into an order. A field outside
// cfg.Allow yields no order at all rather than an error.
func ResolveSort(params Params, cfg *SortConfig) []Order {
	if cfg == nil {
		return nil
	}

	value, _ := params.String("sort")
	if value == "" {
		if cfg.Default == "" {
			return nil
		}
		dir := strings.ToUpper(cfg.DefaultDirection)
		if dir != Desc {
			dir = Asc
		}
		return []Order{{Field: cfg.Default, Direction: dir}}
	}

	dir := Asc
	field := value
	if strings.HasPrefix(value, "-") {
		dir = Desc
		field = value[1:]
	}

	if !slices.Contains(cfg.Allow, field) {
		return nil
	}
	return []Order{{Field: field, Direction: dir}}
}
