package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/student-records-api/internal/models"
)

func TestListSpecBuild(t *testing.T) {
	spec := listSpec{
		from:          "FROM students s",
		searchColumns: []string{"s.first_name", "s.national_id"},
		filterColumns: map[string]string{"gender": "s.gender", "program": "s.program_id"},
		sortColumns:   map[string]string{"first_name": "s.first_name"},
		defaultSort:   "s.id",
	}

	q := spec.build(models.ListFilter{
		Search:    " Doe ",
		Filters:   map[string]string{"program": "3", "gender": "F", "unknown": "x"},
		Page:      2,
		PageSize:  10,
		SortBy:    "first_name",
		SortOrder: "asc",
	})

	assert.Equal(t, "1=1 AND s.gender = $1 AND s.program_id = $2 AND (LOWER(s.first_name) LIKE $3 OR LOWER(s.national_id) LIKE $3)", q.where)
	assert.Equal(t, []interface{}{"F", "3", "%doe%"}, q.args)
	assert.Equal(t, "SELECT s.* FROM students s WHERE "+q.where+" ORDER BY s.first_name ASC LIMIT 10 OFFSET 10", q.selectSQL("s.*", spec.from))
	assert.Equal(t, "SELECT COUNT(*) FROM students s WHERE "+q.where, q.countSQL(spec.from))
}

func TestListSpecBuildDefaults(t *testing.T) {
	spec := listSpec{from: "FROM courses c", defaultSort: "c.id"}

	q := spec.build(models.ListFilter{SortBy: "password", PageSize: 1000})

	assert.Equal(t, "1=1", q.where)
	assert.Empty(t, q.args)
	assert.Equal(t, "c.id DESC", q.orderBy)
	assert.Equal(t, 20, q.limit)
	assert.Equal(t, 0, q.offset)
}
