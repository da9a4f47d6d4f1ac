package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-records-api/internal/dto"
	"github.com/noah-isme/student-records-api/internal/middleware"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
	"github.com/noah-isme/student-records-api/pkg/response"
)

type dashboardService interface {
	Snapshot(ctx context.Context) (*dto.DashboardSnapshot, bool, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Summary godoc
// @Summary Dashboard statistics
// @Description Record counts and mark aggregates. Aggregates are 0 when no marks exist.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope{data=dto.DashboardSnapshot}
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	snapshot, cacheHit, err := h.service.Snapshot(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, snapshot, nil, meta)
}
