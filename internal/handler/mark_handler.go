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

type markService interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.MarkDetail, *models.Pagination, error)
	Get(ctx context.Context, id int64) (*models.MarkDetail, error)
	Create(ctx context.Context, req service.MarkRequest) (*models.Mark, error)
	Update(ctx context.Context, id int64, req service.MarkRequest) (*models.Mark, error)
	Delete(ctx context.Context, id int64) error
}

// MarkHandler exposes mark endpoints.
type MarkHandler struct {
	marks  markService
	entity admin.Entity
}

// NewMarkHandler constructs MarkHandler.
func NewMarkHandler(marks markService, reg *admin.Registry) *MarkHandler {
	return &MarkHandler{marks: marks, entity: entityConfig(reg, "marks")}
}

// List godoc
// @Summary List marks
// @Tags Marks
// @Produce json
// @Param search query string false "Search by student or course"
// @Param course_id query int false "Filter by course"
// @Param student_id query int false "Filter by student"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field"
// @Param order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /marks [get]
func (h *MarkHandler) List(c *gin.Context) {
	filter, ok := listFilter(c, h.entity)
	if !ok {
		return
	}
	marks, pagination, err := h.marks.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, marks, pagination)
}

// Get godoc
// @Summary Get mark
// @Tags Marks
// @Produce json
// @Param id path int true "Mark ID"
// @Success 200 {object} response.Envelope
// @Router /marks/{id} [get]
func (h *MarkHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	mark, err := h.marks.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mark, nil)
}

// Create godoc
// @Summary Record a mark
// @Tags Marks
// @Accept json
// @Produce json
// @Param payload body service.MarkRequest true "Mark payload"
// @Success 201 {object} response.Envelope
// @Router /marks [post]
func (h *MarkHandler) Create(c *gin.Context) {
	var req service.MarkRequest
	if !bindJSON(c, &req) {
		return
	}
	mark, err := h.marks.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, mark)
}

// Update godoc
// @Summary Update mark
// @Tags Marks
// @Accept json
// @Produce json
// @Param id path int true "Mark ID"
// @Param payload body service.MarkRequest true "Mark payload"
// @Success 200 {object} response.Envelope
// @Router /marks/{id} [put]
func (h *MarkHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.MarkRequest
	if !bindJSON(c, &req) {
		return
	}
	mark, err := h.marks.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mark, nil)
}

// Delete godoc
// @Summary Delete mark
// @Tags Marks
// @Param id path int true "Mark ID"
// @Success 204
// @Router /marks/{id} [delete]
func (h *MarkHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.marks.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
