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

type streamService interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.Stream, *models.Pagination, error)
	Get(ctx context.Context, id int64) (*models.Stream, error)
	Create(ctx context.Context, req service.StreamRequest) (*models.Stream, error)
	Update(ctx context.Context, id int64, req service.StreamRequest) (*models.Stream, error)
	Delete(ctx context.Context, id int64) error
}

// StreamHandler exposes class stream endpoints.
type StreamHandler struct {
	streams streamService
	entity  admin.Entity
}

// NewStreamHandler constructs StreamHandler.
func NewStreamHandler(streams streamService, reg *admin.Registry) *StreamHandler {
	return &StreamHandler{streams: streams, entity: entityConfig(reg, "streams")}
}

// List godoc
// @Summary List streams
// @Tags Streams
// @Produce json
// @Param search query string false "Search by name"
// @Param start_date query string false "Filter by start date (YYYY-MM-DD)"
// @Param end_date query string false "Filter by end date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field"
// @Param order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /streams [get]
func (h *StreamHandler) List(c *gin.Context) {
	filter, ok := listFilter(c, h.entity)
	if !ok {
		return
	}
	items, pagination, err := h.streams.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get stream
// @Tags Streams
// @Produce json
// @Param id path int true "Stream ID"
// @Success 200 {object} response.Envelope
// @Router /streams/{id} [get]
func (h *StreamHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	stream, err := h.streams.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stream, nil)
}

// Create godoc
// @Summary Create stream
// @Tags Streams
// @Accept json
// @Produce json
// @Param payload body service.StreamRequest true "Stream payload"
// @Success 201 {object} response.Envelope
// @Router /streams [post]
func (h *StreamHandler) Create(c *gin.Context) {
	var req service.StreamRequest
	if !bindJSON(c, &req) {
		return
	}
	stream, err := h.streams.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, stream)
}

// Update godoc
// @Summary Update stream
// @Tags Streams
// @Accept json
// @Produce json
// @Param id path int true "Stream ID"
// @Param payload body service.StreamRequest true "Stream payload"
// @Success 200 {object} response.Envelope
// @Router /streams/{id} [put]
func (h *StreamHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.StreamRequest
	if !bindJSON(c, &req) {
		return
	}
	stream, err := h.streams.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stream, nil)
}

// Delete godoc
// @Summary Delete stream
// @Tags Streams
// @Param id path int true "Stream ID"
// @Success 204
// @Router /streams/{id} [delete]
func (h *StreamHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.streams.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
