package query

// DefaultPagination applies to list queries of schemas without a Pagination.
var DefaultPagination = Pagination{
	MaxResults:      10,
	MaxStartIndex:   10000,
	MaxResultsLimit: 1000,
}

// DefaultStatsPagination applies to statistics queries without Stats.Pagination.
var DefaultStatsPagination = Pagination{
	MaxResults:      10,
	MaxStartIndex:   10000,
	MaxResultsLimit: 5000,
}

type Page struct {
	Offset int
	Limit  int
}

// ClampPage converts startIndex/maxResults into an offset and a limit bounded
// by p. A nil p uses DefaultPagination. It never fails: an unparseable
// startIndex counts as 0 and an absent or unparseable maxResults falls back
// to p.MaxResults.
func ClampPage(p *Pagination, params Params) Page {
	if p == nil {
		p = &DefaultPagination
	}

	start, _ := params.int("startIndex")
	size, ok := params.int("maxResults")
	if !ok {
		size = p.MaxResults
	}

	return Page{
		Offset: min(max(start, 0), p.MaxStartIndex),
		Limit:  min(max(size, 0), p.MaxResultsLimit),
	}
}
