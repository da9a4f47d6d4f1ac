package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardRepositoryTotalsEmptyMarks(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDashboardRepository(db)

	rows := sqlmock.NewRows([]string{"total_students", "total_teachers", "total_courses", "total_programs",
		"total_marks", "average_mark", "max_mark", "min_mark"}).
		AddRow(3, 1, 2, 1, 0, nil, nil, nil)
	mock.ExpectQuery(`SELECT\s+\(SELECT COUNT\(\*\) FROM students\) AS total_students`).WillReturnRows(rows)

	totals, err := repo.Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, totals.TotalStudents)
	assert.Equal(t, 0, totals.TotalMarks)
	assert.False(t, totals.AverageMark.Valid)
	assert.False(t, totals.MinMark.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardRepositoryCourseSummaries(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDashboardRepository(db)

	rows := sqlmock.NewRows([]string{"course_id", "course_code", "course_name", "mark_count", "average_mark", "min_mark", "max_mark"}).
		AddRow(1, "MTH101", "Maths", 2, 80.0, 70.0, 90.0)
	mock.ExpectQuery(`GROUP BY c\.id, c\.code, c\.name`).WillReturnRows(rows)

	items, err := repo.CourseSummaries(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].MarkCount)
	assert.Equal(t, 90.0, items[0].MaxMark)
	assert.NoError(t, mock.ExpectationsWereMet())
}
