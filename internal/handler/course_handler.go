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

type courseService interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.Course, *models.Pagination, error)
	Get(ctx context.Context, id int64) (*models.Course, error)
	Create(ctx context.Context, req service.CourseRequest) (*models.Course, error)
	Update(ctx context.Context, id int64, req service.CourseRequest) (*models.Course, error)
	Delete(ctx context.Context, id int64) error
}

// CourseHandler exposes course endpoints.
type CourseHandler struct {
	courses courseService
	entity  admin.Entity
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses courseService, reg *admin.Registry) *CourseHandler {
	return &CourseHandler{courses: courses, entity: entityConfig(reg, "courses")}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Param search query string false "Search code, name or description"
// @Param created_at query string false "Filter by creation date (YYYY-MM-DD)"
// @Param updated_at query string false "Filter by last update date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field"
// @Param order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	filter, ok := listFilter(c, h.entity)
	if !ok {
		return
	}
	items, pagination, err := h.courses.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get course
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	course, err := h.courses.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Create godoc
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.CourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Duplicate course code"
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req service.CourseRequest
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Update godoc
// @Summary Update course
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param payload body service.CourseRequest true "Course payload"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.CourseRequest
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.courses.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Delete godoc
// @Summary Delete course
// @Tags Courses
// @Param id path int true "Course ID"
// @Success 204
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.courses.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
