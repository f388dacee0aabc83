// File: internal/common/response.go
package common

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondWithError sends a JSON error response.
func RespondWithError(c *gin.Context, err error) {
	apiErr, ok := IsAPIError(err)
	if !ok {
		GetLoggerFromContext(c, zap.NewNop()).Error("Unhandled internal error being wrapped", zap.Error(err))
		apiErr = ErrInternalServer
	}

	c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
}
