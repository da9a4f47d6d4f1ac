package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-records-api/internal/models"
	"github.com/noah-isme/student-records-api/pkg/database"
)

func TestTeacherRepositoryCreateCommitsUserAndProfile(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("jdoe", "John", "Doe", "jdoe@example.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, now))
	mock.ExpectQuery("INSERT INTO teachers").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectCommit()

	user := &models.User{Username: "jdoe", FirstName: "John", LastName: "Doe", Email: "jdoe@example.com", PasswordHash: "hash"}
	teacher := &models.Teacher{DateOfBirth: models.NewDate(1980, 1, 2), Gender: "M", NationalID: "T1"}
	require.NoError(t, repo.Create(context.Background(), user, teacher))
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, int64(7), teacher.UserID)
	assert.Equal(t, int64(3), teacher.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryCreateRollsBackOnDuplicate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, time.Now()))
	mock.ExpectQuery("INSERT INTO teachers").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "teachers_national_id_key"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.User{Username: "jdoe"}, &models.Teacher{NationalID: "T1"})
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryDeleteRemovesUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectExec(`DELETE FROM users WHERE id = \(SELECT user_id FROM teachers WHERE id = \$1\)`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}
