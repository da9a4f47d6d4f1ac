package repository

import (
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/student-records-api/internal/models"
)

// listSpec describes how an admin list query maps onto SQL for one table.
// Keys of filterColumns and sortColumns are the public field names; values are
// SQL expressions. Anything not declared here is ignored.
type listSpec struct {
	from          string
	searchColumns []string
	filterColumns map[string]string
	sortColumns   map[string]string
	defaultSort   string
}

type listQuery struct {
	where   string
	args    []interface{}
	orderBy string
	limit   int
	offset  int
}

func (s listSpec) build(filter models.ListFilter) listQuery {
	filter = filter.Normalized()
	conditions := []string{"1=1"}
	var args []interface{}

	keys := make([]string, 0, len(filter.Filters))
	for key := range filter.Filters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		column, ok := s.filterColumns[key]
		if !ok {
			continue
		}
		value := strings.TrimSpace(filter.Filters[key])
		if value == "" {
			continue
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if filter.Search != "" && len(s.searchColumns) > 0 {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		parts := make([]string, len(s.searchColumns))
		for i, column := range s.searchColumns {
			parts[i] = fmt.Sprintf("LOWER(%s) LIKE %s", column, placeholder)
		}
		conditions = append(conditions, "("+strings.Join(parts, " OR ")+")")
	}

	column, ok := s.sortColumns[filter.SortBy]
	if !ok {
		column = s.defaultSort
	}

	return listQuery{
		where:   strings.Join(conditions, " AND "),
		args:    args,
		orderBy: fmt.Sprintf("%s %s", column, filter.SortOrder),
		limit:   filter.PageSize,
		offset:  filter.Offset(),
	}
}

// selectSQL renders the page query for the given projection.
func (q listQuery) selectSQL(columns, from string) string {
	return fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY %s LIMIT %d OFFSET %d", columns, from, q.where, q.orderBy, q.limit, q.offset)
}

// countSQL renders the matching COUNT query.
func (q listQuery) countSQL(from string) string {
	return fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", from, q.where)
}
