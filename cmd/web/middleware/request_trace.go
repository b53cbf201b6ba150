package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"spacetraveling/cmd/internal/logger"
	"spacetraveling/cmd/internal/trace"
)

// RequestTrace는 모든 inbound 요청에 Request ID를 보장하고 컨텍스트와 응답 헤더에 싣는다.
// content API 호출은 같은 Request ID 로 span 1,2,3... 을 사용한다.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(trace.HeaderRequestID)
		if requestID == "" {
			requestID = trace.GenerateID()
		}
		ctx := trace.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(trace.HeaderRequestID, requestID)
		c.Writer.Header().Set(trace.HeaderSpanID, trace.CurrentSpanID(ctx))

		c.Next()

		fields := logger.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
			"request_id": requestID,
			"span_id":    trace.CurrentSpanID(ctx),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields["query"] = q
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		logger.InfoWithFields("completed request", fields)
	}
}
