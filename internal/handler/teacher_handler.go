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

type teacherService interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.TeacherDetail, *models.Pagination, error)
	Get(ctx context.Context, id int64) (*models.TeacherDetail, error)
	Create(ctx context.Context, req service.CreateTeacherRequest) (*models.TeacherDetail, error)
	Update(ctx context.Context, id int64, req service.UpdateTeacherRequest) (*models.TeacherDetail, error)
	Delete(ctx context.Context, id int64) error
}

// TeacherHandler exposes teacher endpoints.
type TeacherHandler struct {
	teachers teacherService
	entity   admin.Entity
}

// NewTeacherHandler constructs TeacherHandler.
func NewTeacherHandler(teachers teacherService, reg *admin.Registry) *TeacherHandler {
	return &TeacherHandler{teachers: teachers, entity: entityConfig(reg, "teachers")}
}

// List godoc
// @Summary List teachers
// @Tags Teachers
// @Produce json
// @Param search query string false "Search by name, username, national ID or phone"
// @Param gender query string false "Filter by gender (M or F)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field"
// @Param order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *TeacherHandler) List(c *gin.Context) {
	filter, ok := listFilter(c, h.entity)
	if !ok {
		return
	}
	teachers, pagination, err := h.teachers.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, pagination)
}

// Get godoc
// @Summary Get teacher
// @Tags Teachers
// @Produce json
// @Param id path int true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id} [get]
func (h *TeacherHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	teacher, err := h.teachers.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// Create godoc
// @Summary Create teacher with login account
// @Tags Teachers
// @Accept json
// @Produce json
// @Param payload body service.CreateTeacherRequest true "Teacher payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Duplicate username or national ID"
// @Router /teachers [post]
func (h *TeacherHandler) Create(c *gin.Context) {
	var req service.CreateTeacherRequest
	if !bindJSON(c, &req) {
		return
	}
	teacher, err := h.teachers.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, teacher)
}

// Update godoc
// @Summary Update teacher profile
// @Tags Teachers
// @Accept json
// @Produce json
// @Param id path int true "Teacher ID"
// @Param payload body service.UpdateTeacherRequest true "Teacher payload"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id} [put]
func (h *TeacherHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.UpdateTeacherRequest
	if !bindJSON(c, &req) {
		return
	}
	teacher, err := h.teachers.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// Delete godoc
// @Summary Delete teacher and login account
// @Tags Teachers
// @Param id path int true "Teacher ID"
// @Success 204
// @Router /teachers/{id} [delete]
func (h *TeacherHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.teachers.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
