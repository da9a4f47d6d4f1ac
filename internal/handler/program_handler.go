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

type programService interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.Program, *models.Pagination, error)
	Get(ctx context.Context, id int64) (*models.ProgramDetail, error)
	Create(ctx context.Context, req service.ProgramRequest) (*models.ProgramDetail, error)
	Update(ctx context.Context, id int64, req service.ProgramRequest) (*models.ProgramDetail, error)
	SetCourses(ctx context.Context, id int64, req service.SetCoursesRequest) (*models.ProgramDetail, error)
	Delete(ctx context.Context, id int64) error
}

// ProgramHandler exposes program endpoints including course membership.
type ProgramHandler struct {
	programs programService
	entity   admin.Entity
}

// NewProgramHandler constructs ProgramHandler.
func NewProgramHandler(programs programService, reg *admin.Registry) *ProgramHandler {
	return &ProgramHandler{programs: programs, entity: entityConfig(reg, "programs")}
}

// List godoc
// @Summary List programs
// @Tags Programs
// @Produce json
// @Param search query string false "Search name or description"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field"
// @Param order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /programs [get]
func (h *ProgramHandler) List(c *gin.Context) {
	filter, ok := listFilter(c, h.entity)
	if !ok {
		return
	}
	items, pagination, err := h.programs.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get program with its courses
// @Tags Programs
// @Produce json
// @Param id path int true "Program ID"
// @Success 200 {object} response.Envelope
// @Router /programs/{id} [get]
func (h *ProgramHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	program, err := h.programs.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, program, nil)
}

// Create godoc
// @Summary Create program
// @Tags Programs
// @Accept json
// @Produce json
// @Param payload body service.ProgramRequest true "Program payload"
// @Success 201 {object} response.Envelope
// @Router /programs [post]
func (h *ProgramHandler) Create(c *gin.Context) {
	var req service.ProgramRequest
	if !bindJSON(c, &req) {
		return
	}
	program, err := h.programs.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, program)
}

// Update godoc
// @Summary Update program
// @Tags Programs
// @Accept json
// @Produce json
// @Param id path int true "Program ID"
// @Param payload body service.ProgramRequest true "Program payload"
// @Success 200 {object} response.Envelope
// @Router /programs/{id} [put]
func (h *ProgramHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.ProgramRequest
	if !bindJSON(c, &req) {
		return
	}
	program, err := h.programs.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, program, nil)
}

// SetCourses godoc
// @Summary Replace the courses of a program
// @Tags Programs
// @Accept json
// @Produce json
// @Param id path int true "Program ID"
// @Param payload body service.SetCoursesRequest true "Course IDs"
// @Success 200 {object} response.Envelope
// @Router /programs/{id}/courses [put]
func (h *ProgramHandler) SetCourses(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.SetCoursesRequest
	if !bindJSON(c, &req) {
		return
	}
	program, err := h.programs.SetCourses(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, program, nil)
}

// Delete godoc
// @Summary Delete program
// @Tags Programs
// @Param id path int true "Program ID"
// @Success 204
// @Router /programs/{id} [delete]
func (h *ProgramHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.programs.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
