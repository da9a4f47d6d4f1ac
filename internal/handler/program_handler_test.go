package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-records-api/internal/models"
	"github.com/noah-isme/student-records-api/internal/service"
)

type fakeProgramSrv struct {
	setID      int64
	setCourses []int64
}

func (f *fakeProgramSrv) List(context.Context, models.ListFilter) ([]models.Program, *models.Pagination, error) {
	return nil, &models.Pagination{}, nil
}

func (f *fakeProgramSrv) Get(_ context.Context, id int64) (*models.ProgramDetail, error) {
	return &models.ProgramDetail{Program: models.Program{ID: id}}, nil
}

func (f *fakeProgramSrv) Create(_ context.Context, req service.ProgramRequest) (*models.ProgramDetail, error) {
	return &models.ProgramDetail{Program: models.Program{ID: 1, Name: req.Name}}, nil
}

func (f *fakeProgramSrv) Update(_ context.Context, id int64, req service.ProgramRequest) (*models.ProgramDetail, error) {
	return &models.ProgramDetail{Program: models.Program{ID: id, Name: req.Name}}, nil
}

func (f *fakeProgramSrv) SetCourses(_ context.Context, id int64, req service.SetCoursesRequest) (*models.ProgramDetail, error) {
	f.setID = id
	f.setCourses = req.CourseIDs
	return &models.ProgramDetail{Program: models.Program{ID: id}}, nil
}

func (f *fakeProgramSrv) Delete(context.Context, int64) error { return nil }

func TestProgramSetCourses(t *testing.T) {
	srv := &fakeProgramSrv{}
	h := NewProgramHandler(srv, testRegistry(t))
	r := newRouter()
	r.PUT("/programs/:id/courses", h.SetCourses)

	rec := performJSON(r, http.MethodPut, "/programs/3/courses", `{"course_ids":[1,2]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3, srv.setID)
	assert.Equal(t, []int64{1, 2}, srv.setCourses)

	rec = performJSON(r, http.MethodPut, "/programs/3/courses", `{"course_ids":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
