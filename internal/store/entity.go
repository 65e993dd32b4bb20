package store

import (
	"context"
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/restquery/internal/models"
	"github.com/kubev2v/restquery/pkg/query"
)

// EntityStore executes compiled query descriptors.
type EntityStore struct {
	db QueryInterceptor
}

func NewEntityStore(db QueryInterceptor) *EntityStore {
	return &EntityStore{db: db}
}

// List returns the rows selected by a list or detail descriptor.
func (s *EntityStore) List(ctx context.Context, d *query.Descriptor) ([]models.Row, error) {
	return s.rows(ctx, ListQuery(d))
}

// Count returns the number of primary rows matching the descriptor, ignoring
// its order and page.
func (s *EntityStore) Count(ctx context.Context, d *query.Descriptor) (int, error) {
	return s.count(ctx, CountQuery(d))
}

// Aggregate returns one row per group of a statistics descriptor.
func (s *EntityStore) Aggregate(ctx context.Context, d *query.Descriptor) ([]models.Row, error) {
	return s.rows(ctx, AggregateQuery(d))
}

// CountDistinct returns the number of groups of a statistics descriptor
// across all pages. Without dimensions there is exactly one group.
func (s *EntityStore) CountDistinct(ctx context.Context, d *query.Descriptor) (int, error) {
	if len(d.Distinct) == 0 {
		return 1, nil
	}
	return s.count(ctx, CountDistinctQuery(d))
}

// ListQuery renders a list or detail descriptor.
func ListQuery(d *query.Descriptor) sq.SelectBuilder {
	return apply(sq.Select(columnsOf(d)...),
		WithSource(d),
		WithFilter(d),
		WithOrder(d),
		WithPage(d),
	)
}

// CountQuery renders the total count of a list descriptor.
func CountQuery(d *query.Descriptor) sq.SelectBuilder {
	count := "COUNT(*)"
	if len(d.Include) > 0 {
		// Joins may repeat a primary row.
		count = "COUNT(DISTINCT " + query.QualifiedColumn(d.Schema.Name, d.Schema.Key()) + ")"
	}
	return apply(sq.Select(count),
		WithSource(d),
		WithFilter(d),
	)
}

// AggregateQuery renders a statistics descriptor.
func AggregateQuery(d *query.Descriptor) sq.SelectBuilder {
	return apply(sq.Select(selectionsOf(d)...),
		WithSource(d),
		WithFilter(d),
		WithGroup(d),
		WithOrder(d),
		WithPage(d),
	)
}

// CountDistinctQuery renders the group count of a statistics descriptor with
// at least one dimension.
func CountDistinctQuery(d *query.Descriptor) sq.SelectBuilder {
	inner := apply(sq.Select(d.Distinct...).Distinct(),
		WithSource(d),
		WithFilter(d),
	)
	return sq.Select("COUNT(*)").FromSelect(inner, "distinct_groups")
}

func (s *EntityStore) count(ctx context.Context, builder sq.SelectBuilder) (int, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

func (s *EntityStore) rows(ctx context.Context, builder sq.SelectBuilder) ([]models.Row, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := []models.Row{}
	for rows.Next() {
		row, err := scanRow(rows, columns)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// scanRow reads one row. "<as>.<column>" columns are nested under <as>; an
// association whose columns are all NULL is reported as nil.
func scanRow(rows *sql.Rows, columns []string) (models.Row, error) {
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	row := make(models.Row, len(columns))
	nested := map[string]models.Row{}
	var order []string
	for i, col := range columns {
		v := values[i]
		if b, ok := v.([]byte); ok {
			v = string(b)
		}

		as, name, found := strings.Cut(col, ".")
		if !found {
			row[col] = v
			continue
		}
		assoc, ok := nested[as]
		if !ok {
			assoc = models.Row{}
			nested[as] = assoc
			order = append(order, as)
		}
		assoc[name] = v
	}

	for _, as := range order {
		assoc := nested[as]
		empty := true
		for _, v := range assoc {
			if v != nil {
				empty = false
				break
			}
		}
		if empty {
			row[as] = nil
			continue
		}
		row[as] = assoc
	}
	return row, nil
}
