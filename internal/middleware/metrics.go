package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/meditrack/pkg/metrics"
)

// Metrics records request duration and counts per route template.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		code := strconv.Itoa(status)

		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, code).Observe(time.Since(start).Seconds())
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, code).Inc()
		if status >= 500 {
			m.HTTPErrorsTotal.WithLabelValues(c.Request.Method, path, "server").Inc()
		} else if status >= 400 {
			m.HTTPErrorsTotal.WithLabelValues(c.Request.Method, path, "client").Inc()
		}
	}
}
