package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-records-api/internal/admin"
)

type responseEnvelope struct {
	Data       json.RawMessage        `json:"data"`
	Error      *errorBody             `json:"error"`
	Pagination map[string]interface{} `json:"pagination"`
	Meta       map[string]interface{} `json:"meta"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func testRegistry(t *testing.T) *admin.Registry {
	t.Helper()
	reg, err := admin.Default()
	require.NoError(t, err)
	return reg
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func perform(r http.Handler, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func performJSON(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	return perform(r, method, target, strings.NewReader(body), "application/json")
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}
