package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/qconnect/clinic-api/internal/service"
)

// Metrics records a counter per route and per status code after the request
// completes. Uses the registered route pattern, not the raw path, so IDs do
// not explode the counter cardinality.
func Metrics(metrics *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordRequest(c.Request.Context(), c.Request.Method, route, c.Writer.Status())
	}
}
