package middleware

import (
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"adoption-server/internal/utils"
)

// LogRequest logs every incoming request with its trace id.
func LogRequest() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		traceId, _ := ctx.Value(utils.TraceIdKey.String()).(string)
		message := "Request received: " + ctx.Request.Method + " " + ctx.Request.URL.Path
		entry := log.WithFields(log.Fields{
			"traceId": traceId,
			"service": utils.ExtractServiceName(),
		})
		utils.LogEntry(entry, "info", message)
		ctx.Next()
	}
}
