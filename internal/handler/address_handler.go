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

type addressService interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.Address, *models.Pagination, error)
	Get(ctx context.Context, id int64) (*models.Address, error)
	Create(ctx context.Context, req service.AddressRequest) (*models.Address, error)
	Update(ctx context.Context, id int64, req service.AddressRequest) (*models.Address, error)
	Delete(ctx context.Context, id int64) error
}

// AddressHandler exposes address endpoints.
type AddressHandler struct {
	addresses addressService
	entity    admin.Entity
}

// NewAddressHandler constructs AddressHandler.
func NewAddressHandler(addresses addressService, reg *admin.Registry) *AddressHandler {
	return &AddressHandler{addresses: addresses, entity: entityConfig(reg, "addresses")}
}

// List godoc
// @Summary List addresses
// @Tags Addresses
// @Produce json
// @Param search query string false "Search street, city or province"
// @Param city query string false "Filter by city"
// @Param province query string false "Filter by province"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field"
// @Param order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /addresses [get]
func (h *AddressHandler) List(c *gin.Context) {
	filter, ok := listFilter(c, h.entity)
	if !ok {
		return
	}
	items, pagination, err := h.addresses.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get address
// @Tags Addresses
// @Produce json
// @Param id path int true "Address ID"
// @Success 200 {object} response.Envelope
// @Router /addresses/{id} [get]
func (h *AddressHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	address, err := h.addresses.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, address, nil)
}

// Create godoc
// @Summary Create address
// @Tags Addresses
// @Accept json
// @Produce json
// @Param payload body service.AddressRequest true "Address payload"
// @Success 201 {object} response.Envelope
// @Router /addresses [post]
func (h *AddressHandler) Create(c *gin.Context) {
	var req service.AddressRequest
	if !bindJSON(c, &req) {
		return
	}
	address, err := h.addresses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, address)
}

// Update godoc
// @Summary Update address
// @Tags Addresses
// @Accept json
// @Produce json
// @Param id path int true "Address ID"
// @Param payload body service.AddressRequest true "Address payload"
// @Success 200 {object} response.Envelope
// @Router /addresses/{id} [put]
func (h *AddressHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.AddressRequest
	if !bindJSON(c, &req) {
		return
	}
	address, err := h.addresses.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, address, nil)
}

// Delete godoc
// @Summary Delete address
// @Tags Addresses
// @Param id path int true "Address ID"
// @Success 204
// @Failure 409 {object} response.Envelope "Address still referenced"
// @Router /addresses/{id} [delete]
func (h *AddressHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.addresses.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
