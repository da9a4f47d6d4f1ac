package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-records-api/internal/admin"
	"github.com/noah-isme/student-records-api/internal/models"
	"github.com/noah-isme/student-records-api/internal/service"
	"github.com/noah-isme/student-records-api/pkg/response"
)

type studentService interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.StudentDetail, *models.Pagination, error)
	Get(ctx context.Context, id int64) (*models.StudentDetail, error)
	Create(ctx context.Context, req service.StudentRequest) (*models.Student, error)
	Update(ctx context.Context, id int64, req service.StudentRequest) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
}

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students studentService
	entity   admin.Entity
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService, reg *admin.Registry) *StudentHandler {
	return &StudentHandler{students: students, entity: entityConfig(reg, "students")}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param search query string false "Search by name, student ID, national ID or phone"
// @Param gender query string false "Filter by gender (M or F)"
// @Param program_id query int false "Filter by program"
// @Param stream_id query int false "Filter by stream"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field"
// @Param order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	filter, ok := listFilter(c, h.entity)
	if !ok {
		return
	}
	students, pagination, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// Get godoc
// @Summary Get student detail
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	student, err := h.students.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.StudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Duplicate student or national ID"
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.StudentRequest
	if !bindJSON(c, &req) {
		return
	}
	student, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update godoc
// @Summary Update student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param payload body service.StudentRequest true "Student payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.StudentRequest
	if !bindJSON(c, &req) {
		return
	}
	student, err := h.students.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Delete godoc
// @Summary Delete student
// @Tags Students
// @Param id path int true "Student ID"
// @Success 204
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.students.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
