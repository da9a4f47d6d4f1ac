package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-records-api/internal/dto"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

type fakeImporter struct {
	filename string
	size     int64
	body     string
	result   *dto.MarkImportResult
}

func (f *fakeImporter) Import(_ context.Context, filename string, size int64, r io.Reader) *dto.MarkImportResult {
	f.filename = filename
	f.size = size
	data, _ := io.ReadAll(r)
	f.body = string(data)
	return f.result
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func uploadRouter(importer *fakeImporter) http.Handler {
	r := newRouter()
	r.POST("/marks/upload", NewMarkUploadHandler(importer).Upload)
	return r
}

func TestMarkUploadSuccess(t *testing.T) {
	importer := &fakeImporter{result: &dto.MarkImportResult{Succeeded: true, Message: "File uploaded successfully.", Created: 2}}
	content := "student_id,course_code,mark\nST1,C1,80\nST2,C1,75\n"
	body, contentType := multipartBody(t, UploadFormField, "marks.csv", content)

	rec := perform(uploadRouter(importer), http.MethodPost, "/marks/upload", body, contentType)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "marks.csv", importer.filename)
	assert.EqualValues(t, len(content), importer.size)
	assert.Equal(t, content, importer.body)

	var result dto.MarkImportResult
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &result))
	assert.Equal(t, "File uploaded successfully.", result.Message)
	assert.Equal(t, 2, result.Created)
}

func TestMarkUploadFailureUsesErrorStatus(t *testing.T) {
	importer := &fakeImporter{result: &dto.MarkImportResult{
		Message: "Please upload a CSV file.",
		Error:   appErrors.ErrInvalidFileType,
	}}
	body, contentType := multipartBody(t, UploadFormField, "marks.txt", "x")

	rec := perform(uploadRouter(importer), http.MethodPost, "/marks/upload", body, contentType)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var result dto.MarkImportResult
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &result))
	assert.False(t, result.Succeeded)
	assert.Equal(t, "INVALID_FILE_TYPE", result.Error.Code)
}

func TestMarkUploadPartialFailure(t *testing.T) {
	importer := &fakeImporter{result: &dto.MarkImportResult{
		Message:   "Error processing CSV file: row 2 (line 3): student \"ST404\" not found",
		Created:   1,
		FailedRow: 2,
		Error:     appErrors.Clone(appErrors.ErrLookupFailure, "student \"ST404\" not found"),
	}}
	body, contentType := multipartBody(t, UploadFormField, "marks.csv", "h\nST1,C1,1\nST404,C1,2\n")

	rec := perform(uploadRouter(importer), http.MethodPost, "/marks/upload", body, contentType)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var result dto.MarkImportResult
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &result))
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 2, result.FailedRow)
}

func TestMarkUploadRequiresFileField(t *testing.T) {
	importer := &fakeImporter{}
	body, contentType := multipartBody(t, "document", "marks.csv", "x")

	rec := perform(uploadRouter(importer), http.MethodPost, "/marks/upload", body, contentType)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, decodeEnvelope(t, rec).Error.Code)
	assert.Empty(t, importer.filename)
}
