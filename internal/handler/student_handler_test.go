package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-records-api/internal/models"
	"github.com/noah-isme/student-records-api/internal/service"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

type fakeStudentSrv struct {
	lastFilter models.ListFilter
	lastID     int64
	created    *service.StudentRequest
	getErr     error
	createErr  error
}

func (f *fakeStudentSrv) List(_ context.Context, filter models.ListFilter) ([]models.StudentDetail, *models.Pagination, error) {
	f.lastFilter = filter
	items := []models.StudentDetail{{Student: models.Student{ID: 1, StudentID: "ST1", FirstName: "Ana"}}}
	return items, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, nil
}

func (f *fakeStudentSrv) Get(_ context.Context, id int64) (*models.StudentDetail, error) {
	f.lastID = id
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &models.StudentDetail{Student: models.Student{ID: id, StudentID: "ST1"}}, nil
}

func (f *fakeStudentSrv) Create(_ context.Context, req service.StudentRequest) (*models.Student, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = &req
	return &models.Student{ID: 9, StudentID: req.StudentID}, nil
}

func (f *fakeStudentSrv) Update(_ context.Context, id int64, req service.StudentRequest) (*models.Student, error) {
	f.lastID = id
	return &models.Student{ID: id, StudentID: req.StudentID}, nil
}

func (f *fakeStudentSrv) Delete(_ context.Context, id int64) error {
	f.lastID = id
	return nil
}

func studentRouter(t *testing.T, srv *fakeStudentSrv) *gin.Engine {
	h := NewStudentHandler(srv, testRegistry(t))
	r := newRouter()
	r.GET("/students", h.List)
	r.GET("/students/:id", h.Get)
	r.POST("/students", h.Create)
	r.PUT("/students/:id", h.Update)
	r.DELETE("/students/:id", h.Delete)
	return r
}

func TestStudentListAppliesDeclaredFilters(t *testing.T) {
	srv := &fakeStudentSrv{}
	rec := perform(studentRouter(t, srv), http.MethodGet, "/students?search=ana&gender=F&program_id=3&sort=last_name&order=asc&page=2&nickname=x", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ana", srv.lastFilter.Search)
	assert.Equal(t, map[string]string{"gender": "F", "program_id": "3"}, srv.lastFilter.Filters)
	assert.Equal(t, "last_name", srv.lastFilter.SortBy)
	assert.Equal(t, 2, srv.lastFilter.Page)

	envelope := decodeEnvelope(t, rec)
	assert.EqualValues(t, 1, envelope.Pagination["total_count"])
}

func TestStudentListRejectsUndeclaredSortAndBadFilters(t *testing.T) {
	r := studentRouter(t, &fakeStudentSrv{})

	for _, target := range []string{
		"/students?sort=password",
		"/students?gender=X",
		"/students?program_id=abc",
		"/students?order=sideways",
		"/students?page=zero",
	} {
		rec := perform(r, http.MethodGet, target, nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, appErrors.ErrValidation.Code, decodeEnvelope(t, rec).Error.Code, target)
	}
}

func TestStudentGetParsesID(t *testing.T) {
	srv := &fakeStudentSrv{}
	r := studentRouter(t, srv)

	rec := perform(r, http.MethodGet, "/students/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = perform(r, http.MethodGet, "/students/42", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 42, srv.lastID)

	srv.getErr = appErrors.Clone(appErrors.ErrNotFound, "student not found")
	rec = perform(r, http.MethodGet, "/students/43", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "student not found", decodeEnvelope(t, rec).Error.Message)
}

func TestStudentCreate(t *testing.T) {
	srv := &fakeStudentSrv{}
	r := studentRouter(t, srv)

	rec := performJSON(r, http.MethodPost, "/students", `{"student_id":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = performJSON(r, http.MethodPost, "/students", `{"student_id":"ST10","first_name":"Ana","address_id":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, srv.created)
	assert.Equal(t, "ST10", srv.created.StudentID)

	var created models.Student
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &created))
	assert.EqualValues(t, 9, created.ID)

	srv.createErr = appErrors.Clone(appErrors.ErrUniqueViolation, "student_id already exists")
	rec = performJSON(r, http.MethodPost, "/students", `{"student_id":"ST10"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "UNIQUE_CONSTRAINT_VIOLATION", decodeEnvelope(t, rec).Error.Code)
}

func TestStudentUpdateAndDelete(t *testing.T) {
	srv := &fakeStudentSrv{}
	r := studentRouter(t, srv)

	rec := performJSON(r, http.MethodPut, "/students/5", `{"student_id":"ST5"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 5, srv.lastID)

	rec = perform(r, http.MethodDelete, "/students/6", nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.EqualValues(t, 6, srv.lastID)

	rec = perform(r, http.MethodDelete, "/students/0", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
