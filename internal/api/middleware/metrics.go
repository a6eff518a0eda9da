package middleware

import (
	"strconv"
	"time"

	"github.com/fisker/zadmin-backend/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware 记录请求数与处理时长，endpoint 使用路由模板避免标签基数过大
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.APIRequestsTotal.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.APIRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}
