package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-records-api/internal/admin"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
	"github.com/noah-isme/student-records-api/pkg/response"
)

// AdminHandler serves the admin list configuration.
type AdminHandler struct {
	registry *admin.Registry
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(registry *admin.Registry) *AdminHandler {
	return &AdminHandler{registry: registry}
}

// Registry godoc
// @Summary Admin registry
// @Description List display, search fields, filters and ordering per entity.
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/registry [get]
func (h *AdminHandler) Registry(c *gin.Context) {
	if h.registry == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	response.JSON(c, http.StatusOK, h.registry.Entities, nil, map[string]interface{}{"entities": h.registry.Names()})
}
