package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/admin"
	"github.com/noah-isme/student-records-api/internal/handler"
	"github.com/noah-isme/student-records-api/internal/service"
	"github.com/noah-isme/student-records-api/pkg/config"
)

func testHandlers(t *testing.T, metrics *service.MetricsService) routeHandlers {
	t.Helper()
	reg, err := admin.Default()
	require.NoError(t, err)
	return routeHandlers{
		Addresses: handler.NewAddressHandler(nil, reg),
		Streams:   handler.NewStreamHandler(nil, reg),
		Courses:   handler.NewCourseHandler(nil, reg),
		Programs:  handler.NewProgramHandler(nil, reg),
		Students:  handler.NewStudentHandler(nil, reg),
		Teachers:  handler.NewTeacherHandler(nil, reg),
		Marks:     handler.NewMarkHandler(nil, reg),
		Upload:    handler.NewMarkUploadHandler(nil),
		Exports:   handler.NewExportHandler(nil),
		Dashboard: handler.NewDashboardHandler(nil),
		Admin:     handler.NewAdminHandler(reg),
		Metrics:   handler.NewMetricsHandler(metrics, nil),
	}
}

func TestRouterRegistersRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Env: config.EnvDevelopment, APIPrefix: "/api/v1"}
	r := newRouter(cfg, zap.NewNop(), service.NewMetricsService(), testHandlers(t, service.NewMetricsService()))

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"GET /docs/*any",
		"GET /api/v1/dashboard",
		"GET /api/v1/admin/registry",
		"POST /api/v1/marks/upload",
		"GET /api/v1/students/export",
		"GET /api/v1/marks/export",
		"PUT /api/v1/programs/:id/courses",
		"GET /api/v1/addresses",
		"POST /api/v1/streams",
		"GET /api/v1/courses/:id",
		"PUT /api/v1/teachers/:id",
		"DELETE /api/v1/marks/:id",
	} {
		assert.True(t, registered[want], want)
	}
}

func TestRouterProductionHidesDocsAndMetricsWhenDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Env: config.EnvProduction, APIPrefix: "/api/v1"}
	r := newRouter(cfg, zap.NewNop(), nil, testHandlers(t, nil))

	for _, path := range []string{"/docs/index.html", "/metrics"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
