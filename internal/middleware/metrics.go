package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"FinAI_Community/internal/metrics"
)

// Metrics 用路由模板作为 path 标签，避免 id 撑爆基数
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
