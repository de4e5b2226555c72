package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xiebiao/library/pkg/tracing"
)

// RequestID 请求ID中间件
// 设计说明:
// 1. 优先使用客户端传入的X-Request-ID(便于跨系统追踪)
// 2. 没有则生成UUID
// 3. 写回响应头,方便排查问题时对照日志
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()
	}
}

// Logger 访问日志中间件
// 每条日志带request_id与trace_id,便于与链路追踪关联
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		requestID, _ := c.Get("request_id")
		traceID := tracing.ExtractTraceID(c.Request.Context())

		log.Printf("[GIN] %s %s | status=%d | latency=%s | request_id=%v | trace_id=%s",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
			requestID,
			traceID,
		)
	}
}
