package utils

import (
	"context"
	"os"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// GenerateTraceId returns a fresh trace id for a request.
func GenerateTraceId() string {
	return uuid.New().String()
}

// ExtractServiceName returns the service name used in log fields.
func ExtractServiceName() string {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "adoption-server"
	}
	return service
}

// LogEntry dispatches a message to the given logrus entry at the requested level.
func LogEntry(entry *log.Entry, level, message string) {
	switch level {
	case "debug":
		entry.Debug(message)
	case "info":
		entry.Info(message)
	case "warn":
		entry.Warn(message)
	case "error":
		entry.Error(message)
	case "fatal":
		entry.Fatal(message)
	case "panic":
		entry.Panic(message)
	default:
		entry.Info(message)
	}
}

// LogMessage logs a message outside of a request context.
func LogMessage(level, message string) {
	entry := log.WithFields(log.Fields{
		"service": ExtractServiceName(),
	})

	LogEntry(entry, level, message)
}

// LogMessageWithFields logs a message with the trace id of the current request.
func LogMessageWithFields(ctx context.Context, level, message string) {
	traceId, _ := ctx.Value(TraceIdKey.String()).(string)

	entry := log.WithFields(log.Fields{
		"traceId": traceId,
		"service": ExtractServiceName(),
	})

	LogEntry(entry, level, message)
}

// LogMessageWithFieldsAndError logs a message together with an error and the
// trace id of the current request.
func LogMessageWithFieldsAndError(ctx context.Context, level, message string, err error) {
	traceId, _ := ctx.Value(TraceIdKey.String()).(string)

	entry := log.WithFields(log.Fields{
		"traceId": traceId,
		"service": ExtractServiceName(),
		"error":   err,
	})

	LogEntry(entry, level, message)
}
