// File: internal/common/context_helpers.go
package common

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetRequestIDFromContext retrieves the request ID set by the logging middleware.
// Returns an empty string if not found.
func GetRequestIDFromContext(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// GetLoggerFromContext retrieves the request-scoped logger, or fallback if none was set.
func GetLoggerFromContext(c *gin.Context, fallback *zap.Logger) *zap.Logger {
	val, exists := c.Get(LoggerKey)
	if !exists {
		return fallback
	}
	logger, ok := val.(*zap.Logger)
	if !ok || logger == nil {
		return fallback
	}
	return logger
}
