package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramRepositorySetCourses(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM program_courses WHERE program_id = $1")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO program_courses").
		WithArgs(int64(4), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.SetCourses(context.Background(), 4, []int64{1, 2}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositorySetCoursesRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM program_courses").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO program_courses").WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	require.Error(t, repo.SetCourses(context.Background(), 4, []int64{99}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositorySetCoursesEmptyClears(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM program_courses").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.SetCourses(context.Background(), 4, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
