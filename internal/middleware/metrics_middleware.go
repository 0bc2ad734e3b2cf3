package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/tubemark-backend/internal/metrics"
)

// MetricsMiddleware collects HTTP request metrics, labelled by route pattern
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := routeOf(c)
		method := c.Request.Method

		metrics.RequestInProgress.WithLabelValues(method, route).Inc()
		defer metrics.RequestInProgress.WithLabelValues(method, route).Dec()

		startTime := time.Now()

		c.Next()

		duration := time.Since(startTime).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		metrics.RequestCounter.WithLabelValues(status, method, route).Inc()
		metrics.RequestDuration.WithLabelValues(status, method, route).Observe(duration)
	}
}
