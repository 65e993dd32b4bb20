package models

// Row is one result row keyed by column or alias. Columns of a joined
// association are nested under the association alias.
type Row map[string]any

// ListResult is one page of a list query. Total is only meaningful when
// TotalKnown is set; the count query is skipped on request.
type ListResult struct {
	Items      []Row
	Total      int
	TotalKnown bool
}

// AggregateResult holds the grouped rows of a statistics query and the number
// of groups across all pages. Columns lists the dimension then metric names
// in request order.
type AggregateResult struct {
	Columns    []string
	Rows       []Row
	Total      int
	TotalKnown bool
}
