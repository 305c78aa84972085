package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/persistorai/typegraph/internal/metrics"
)

// PrometheusMiddleware records HTTP request duration and count, and counts server errors.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		code := c.Writer.Status()
		status := strconv.Itoa(code)

		// Route pattern, not the raw path, to bound label cardinality.
		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}

		metrics.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		metrics.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if code >= http.StatusInternalServerError {
			metrics.ErrorsTotal.WithLabelValues("http_" + status).Inc()
		}
	}
}
