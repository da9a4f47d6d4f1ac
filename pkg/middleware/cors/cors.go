package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	allowHeaders  = "Authorization, Content-Type, X-Requested-With, X-Request-ID"
	allowMethods  = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	exposeHeaders = "X-Request-ID, Content-Disposition"
)

// New returns a CORS middleware. An empty allow-list admits every origin without credentials.
func New(allowedOrigins []string) gin.HandlerFunc {
	allowAll := len(allowedOrigins) == 0
	originSet := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		originSet[normalize(origin)] = struct{}{}
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Vary", "Origin")

		origin := c.GetHeader("Origin")
		switch {
		case allowAll:
			h.Set("Access-Control-Allow-Origin", "*")
		case origin != "":
			if _, ok := originSet[normalize(origin)]; ok {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
			}
		}

		h.Set("Access-Control-Allow-Headers", allowHeaders)
		h.Set("Access-Control-Allow-Methods", allowMethods)
		h.Set("Access-Control-Expose-Headers", exposeHeaders)
		h.Set("Access-Control-Max-Age", "600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func normalize(origin string) string {
	return strings.ToLower(strings.TrimRight(origin, "/"))
}
