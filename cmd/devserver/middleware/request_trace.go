package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"inkwell/internal/logger"
	"inkwell/internal/trace"
)

const headerRequestID = "X-Request-Id"

// RequestTrace 는 inbound 요청마다 Request ID를 보장하고 응답 헤더와 완료 로그에 남긴다.
// 클라이언트가 X-Request-Id 를 보내면 그대로 사용해 양쪽 로그를 이어 볼 수 있다.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = trace.GenerateID()
		}
		c.Request = c.Request.WithContext(trace.WithRequestID(c.Request.Context(), requestID))
		c.Writer.Header().Set(headerRequestID, requestID)

		c.Next()

		fields := logger.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"query":      c.Request.URL.RawQuery,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
			"request_id": requestID,
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		logger.InfoWithFields("completed request", fields)
	}
}
