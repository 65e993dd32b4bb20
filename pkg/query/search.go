package query

import (
	"slices"
	"strings"
)

// maxKeywords bounds the number of free text keywords honoured per request.
const maxKeywords = 5

const keywordPlaceholder = "{1}"

// BuildSearchClauses compiles the free text query q against the searchable
// columns of s. as is the alias of an association, empty for the primary
// entity. searchs is the optional comma separated list of alias.column names
// allowed to take part; associations only take part when it is given.
//
// The result is indexed by column, then by keyword. It is nil when nothing is
// searchable.
func BuildSearchClauses(s *Schema, searchs string, q any, as string) [][]string {
	keywords := searchKeywords(q)
	if len(keywords) == 0 || s == nil || len(s.SearchCols) == 0 {
		return nil
	}

	var allowed []string
	if searchs != "" {
		allowed = strings.Split(searchs, ",")
	}
	if allowed == nil && as != "" {
		return nil
	}

	table := s.Name
	if as != "" {
		table = as
	}

	var columns [][]string
	for _, sc := range s.SearchCols {
		name := sc.Column
		if as != "" {
			name = as + "." + sc.Column
		}
		if allowed != nil && !slices.Contains(allowed, name) {
			continue
		}

		col := QualifiedColumn(table, sc.Column)
		clauses := make([]string, 0, len(keywords))
		for _, kw := range keywords {
			clauses = append(clauses, matchClause(col, sc, kw))
		}
		columns = append(columns, clauses)
	}
	return columns
}

// MergeSearchClauses combines search results so that every keyword has to
// match at least one column of any of the results.
func MergeSearchClauses(results ...[][]string) string {
	var ands [][]string
	for _, columns := range results {
		for _, keywords := range columns {
			for i, clause := range keywords {
				for len(ands) <= i {
					ands = append(ands, nil)
				}
				ands[i] = append(ands[i], clause)
			}
		}
	}
	if len(ands) == 0 {
		return ""
	}

	parts := make([]string, 0, len(ands))
	for _, ors := range ands {
		parts = append(parts, "("+strings.Join(ors, " OR ")+")")
	}
	return "(" + strings.Join(parts, " AND ") + ")"
}

func matchClause(col string, sc SearchColumn, keyword string) string {
	op := strings.TrimSpace(sc.Op)
	if op == "" {
		op = "LIKE"
	}
	templates := sc.Match
	if len(templates) == 0 {
		templates = []string{keywordPlaceholder}
	}

	ors := make([]string, 0, len(templates))
	for _, t := range templates {
		value := strings.Replace(t, keywordPlaceholder, keyword, 1)
		ors = append(ors, col+" "+op+" "+QuoteLiteral(value))
	}
	return "(" + strings.Join(ors, " OR ") + ")"
}

func searchKeywords(q any) []string {
	s, ok := q.(string)
	if !ok {
		return nil
	}
	keywords := strings.Fields(s)
	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords
}
