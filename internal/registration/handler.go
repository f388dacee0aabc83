// File: internal/registration/handler.go
package registration

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"user_access_backend/internal/common"
	"user_access_backend/internal/gateway"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler exposes the Registrar to the gateway and to gin.
type Handler struct {
	registrar *Registrar
	logger    *zap.Logger
}

// NewHandler creates a new registration handler.
func NewHandler(registrar *Registrar, logger *zap.Logger) *Handler {
	return &Handler{registrar: registrar, logger: logger}
}

// RegisterRoutes sets up the registration route.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/users", h.handleGin)
}

// Handle processes one registration event.
func (h *Handler) Handle(ctx context.Context, evt gateway.Event) gateway.Response {
	req, err := decodeRequest(evt.Body)
	if err != nil {
		h.logger.Warn("Registration: invalid JSON body", zap.String("request_id", evt.RequestID), zap.Error(err))
		return gateway.Error(common.ErrInvalidJSON)
	}

	result, err := h.registrar.Register(ctx, req)
	if err != nil {
		return gateway.Error(err)
	}

	if result.Status == StatusAlreadyExists {
		return gateway.Error(common.NewAPIError(http.StatusBadRequest, result.Message))
	}
	return gateway.JSON(http.StatusCreated, result)
}

func (h *Handler) handleGin(c *gin.Context) {
	evt, err := gateway.FromGin(c)
	if err != nil {
		common.GetLoggerFromContext(c, h.logger).Error("Registration: failed to read request", zap.Error(err))
		common.RespondWithError(c, common.ErrBadRequest)
		return
	}
	h.Handle(c.Request.Context(), evt).WriteGin(c)
}

// decodeRequest parses the body. An empty body is malformed JSON.
func decodeRequest(body string) (Request, error) {
	var b requestBody
	if err := json.Unmarshal([]byte(strings.TrimSpace(body)), &b); err != nil {
		return Request{}, err
	}
	return b.toRequest(), nil
}
