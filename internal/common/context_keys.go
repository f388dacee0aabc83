// File: internal/common/context_keys.go
package common

const (
	// RequestIDKey is the gin context key for the request ID
	RequestIDKey = "requestID"
	// LoggerKey is the gin context key for the request-scoped logger
	LoggerKey = "logger"
)
