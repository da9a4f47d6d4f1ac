package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newRouter(seen *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/", func(c *gin.Context) {
		*seen = Value(c)
		c.Status(http.StatusOK)
	})
	return r
}

func TestMiddlewareGeneratesID(t *testing.T) {
	var seen string
	r := newRouter(&seen)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(headerKey))
}

func TestMiddlewareKeepsInboundID(t *testing.T) {
	var seen string
	r := newRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(headerKey, "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", seen)
}

func TestMiddlewareReplacesOversizedID(t *testing.T) {
	var seen string
	r := newRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(headerKey, strings.Repeat("x", maxInboundLength+1))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Len(t, seen, 36)
}
