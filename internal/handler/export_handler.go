package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-records-api/internal/service"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
	"github.com/noah-isme/student-records-api/pkg/response"
)

type exportService interface {
	Students(ctx context.Context, format string) (*service.ExportFile, error)
	Marks(ctx context.Context, format string, courseID *int64) (*service.ExportFile, error)
}

// ExportHandler serves roster and mark sheet downloads.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Students godoc
// @Summary Export student roster
// @Tags Exports
// @Produce text/csv,application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /students/export [get]
func (h *ExportHandler) Students(c *gin.Context) {
	file, err := h.exports.Students(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// Marks godoc
// @Summary Export mark sheet
// @Tags Exports
// @Produce text/csv,application/pdf
// @Param format query string false "csv (default) or pdf"
// @Param courseId query int false "Restrict to one course"
// @Success 200 {file} file
// @Router /marks/export [get]
func (h *ExportHandler) Marks(c *gin.Context) {
	var courseID *int64
	if raw := strings.TrimSpace(c.Query("courseId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "courseId must be a positive integer"))
			return
		}
		courseID = &id
	}
	file, err := h.exports.Marks(c.Request.Context(), c.Query("format"), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
