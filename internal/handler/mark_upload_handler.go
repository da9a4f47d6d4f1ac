package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-records-api/internal/dto"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
	"github.com/noah-isme/student-records-api/pkg/response"
)

// UploadFormField is the multipart field carrying the mark file.
const UploadFormField = "file"

type markImporter interface {
	Import(ctx context.Context, filename string, size int64, r io.Reader) *dto.MarkImportResult
}

// MarkUploadHandler accepts bulk mark files.
type MarkUploadHandler struct {
	importer markImporter
}

// NewMarkUploadHandler constructs MarkUploadHandler.
func NewMarkUploadHandler(importer markImporter) *MarkUploadHandler {
	return &MarkUploadHandler{importer: importer}
}

// Upload godoc
// @Summary Bulk upload marks
// @Description Accepts a CSV (or configured workbook) with a header row and data rows of student_id,course_code,mark.
// @Tags Marks
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Mark file"
// @Success 201 {object} response.Envelope{data=dto.MarkImportResult}
// @Failure 400 {object} response.Envelope{data=dto.MarkImportResult}
// @Failure 413 {object} response.Envelope{data=dto.MarkImportResult}
// @Failure 422 {object} response.Envelope{data=dto.MarkImportResult}
// @Router /marks/upload [post]
func (h *MarkUploadHandler) Upload(c *gin.Context) {
	header, err := c.FormFile(UploadFormField)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "multipart field \"file\" is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.CloneWrap(appErrors.ErrProcessing, err, ""))
		return
	}
	defer file.Close()

	result := h.importer.Import(c.Request.Context(), header.Filename, header.Size, file)
	status := http.StatusCreated
	if !result.Succeeded {
		status = http.StatusUnprocessableEntity
		if result.Error != nil {
			status = result.Error.Status
		}
	}
	response.JSON(c, status, result, nil)
}
