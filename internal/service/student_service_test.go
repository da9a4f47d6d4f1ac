package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-records-api/internal/models"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

type studentRepoStub struct {
	byID        map[int64]*models.StudentDetail
	studentIDs  map[string]int64
	nationalIDs map[string]int64
	createErr   error
	created     *models.Student
	deleted     []int64
}

func newStudentRepoStub() *studentRepoStub {
	return &studentRepoStub{
		byID:        map[int64]*models.StudentDetail{},
		studentIDs:  map[string]int64{"ST1": 1},
		nationalIDs: map[string]int64{"N1": 1},
	}
}

func (r *studentRepoStub) List(ctx context.Context, filter models.ListFilter) ([]models.StudentDetail, int, error) {
	return []models.StudentDetail{{Student: models.Student{ID: 1}}}, 41, nil
}

func (r *studentRepoStub) FindByID(ctx context.Context, id int64) (*models.StudentDetail, error) {
	if s, ok := r.byID[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (r *studentRepoStub) ExistsByStudentID(ctx context.Context, studentID string, excludeID int64) (bool, error) {
	id, ok := r.studentIDs[studentID]
	return ok && id != excludeID, nil
}

func (r *studentRepoStub) ExistsByNationalID(ctx context.Context, nationalID string, excludeID int64) (bool, error) {
	id, ok := r.nationalIDs[nationalID]
	return ok && id != excludeID, nil
}

func (r *studentRepoStub) Create(ctx context.Context, student *models.Student) error {
	if r.createErr != nil {
		return r.createErr
	}
	student.ID = 2
	r.created = student
	return nil
}

func (r *studentRepoStub) Update(ctx context.Context, student *models.Student) error {
	if _, ok := r.byID[student.ID]; !ok {
		return sql.ErrNoRows
	}
	return nil
}

func (r *studentRepoStub) Delete(ctx context.Context, id int64) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func validStudentRequest() StudentRequest {
	return StudentRequest{
		StudentID:         "ST2",
		FirstName:         "Grace",
		LastName:          "Hopper",
		Gender:            "f",
		NationalID:        "N2",
		PhoneNumber:       "555-0100",
		ParentName:        "Walter Murray",
		ParentPhoneNumber: "555-0101",
		AddressID:         1,
	}
}

func TestStudentServiceCreate(t *testing.T) {
	repo := newStudentRepoStub()
	svc := NewStudentService(repo, nil, nil)

	student, err := svc.Create(context.Background(), validStudentRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(2), student.ID)
	assert.Equal(t, "F", student.Gender)
	assert.Equal(t, "Grace Hopper", repo.created.FullName())
}

func TestStudentServiceCreateValidation(t *testing.T) {
	svc := NewStudentService(newStudentRepoStub(), nil, nil)
	req := validStudentRequest()
	req.Gender = "X"

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestStudentServiceRejectsOverlongColumns(t *testing.T) {
	cases := map[string]func(*StudentRequest){
		"parent name": func(r *StudentRequest) { r.ParentName = strings.Repeat("p", 101) },
		"first name":  func(r *StudentRequest) { r.FirstName = strings.Repeat("f", 101) },
		"student id":  func(r *StudentRequest) { r.StudentID = strings.Repeat("9", 21) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			repo := newStudentRepoStub()
			svc := NewStudentService(repo, nil, nil)
			req := validStudentRequest()
			mutate(&req)

			_, err := svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, appErrors.ErrValidation)
			assert.Nil(t, repo.created)
		})
	}

	req := validStudentRequest()
	req.ParentName = strings.Repeat("p", 100)
	_, err := NewStudentService(newStudentRepoStub(), nil, nil).Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestStudentServiceDuplicateIdentifiers(t *testing.T) {
	svc := NewStudentService(newStudentRepoStub(), nil, nil)

	req := validStudentRequest()
	req.StudentID = "ST1"
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrUniqueViolation)

	req = validStudentRequest()
	req.NationalID = "N1"
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrUniqueViolation)
}

func TestStudentServiceRaceOnUniqueIndex(t *testing.T) {
	repo := newStudentRepoStub()
	repo.createErr = &pq.Error{Code: "23505", Constraint: "students_national_id_key"}
	svc := NewStudentService(repo, nil, nil)

	_, err := svc.Create(context.Background(), validStudentRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "UNIQUE_CONSTRAINT_VIOLATION", appErr.Code)
	assert.Equal(t, 409, appErr.Status)
	assert.Contains(t, appErr.Message, "students_national_id_key")
}

func TestStudentServiceUnknownAddressIsConflict(t *testing.T) {
	repo := newStudentRepoStub()
	repo.createErr = &pq.Error{Code: "23503"}
	_, err := NewStudentService(repo, nil, nil).Create(context.Background(), validStudentRequest())
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestStudentServiceUpdateOwnIdentifiersAllowed(t *testing.T) {
	repo := newStudentRepoStub()
	repo.byID[1] = &models.StudentDetail{Student: models.Student{ID: 1}}
	req := validStudentRequest()
	req.StudentID, req.NationalID = "ST1", "N1"

	_, err := NewStudentService(repo, nil, nil).Update(context.Background(), 1, req)
	require.NoError(t, err)
}

func TestStudentServiceGetNotFound(t *testing.T) {
	_, err := NewStudentService(newStudentRepoStub(), nil, nil).Get(context.Background(), 42)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestStudentServiceListPagination(t *testing.T) {
	_, page, err := NewStudentService(newStudentRepoStub(), nil, nil).List(context.Background(), models.ListFilter{Page: 3, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, &models.Pagination{Page: 3, PageSize: 20, TotalCount: 41}, page)
}

func TestStudentServiceColumnOverflowIsValidation(t *testing.T) {
	repo := newStudentRepoStub()
	repo.createErr = &pq.Error{Code: "22001", Message: "value too long for type character varying(100)"}
	svc := NewStudentService(repo, nil, nil)

	_, err := svc.Create(context.Background(), validStudentRequest())
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
