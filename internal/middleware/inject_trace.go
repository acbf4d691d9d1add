package middleware

import (
	"github.com/gin-gonic/gin"

	"adoption-server/internal/utils"
)

// InjectTrace assigns a trace id to every request and echoes it back in a
// response header.
func InjectTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceId := utils.GenerateTraceId()
		c.Set(utils.TraceIdKey.String(), traceId)
		c.Header("X-Trace-Id", traceId)
		c.Next()
	}
}
