// File: internal/auth/handler.go
package auth

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

// Handler exposes the Authenticator to the gateway and to gin.
type Handler struct {
	authenticator *Authenticator
	logger        *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(authenticator *Authenticator, logger *zap.Logger) *Handler {
	return &Handler{authenticator: authenticator, logger: logger}
}

// RegisterRoutes sets up the login routes. GET reads the query string, POST the JSON body.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/auth", h.handleGin)
	router.POST("/auth", h.handleGin)
}

// Handle processes one login event.
func (h *Handler) Handle(ctx context.Context, evt gateway.Event) gateway.Response {
	req, err := credentialsFrom(evt)
	if err != nil {
		h.logger.Warn("Login: invalid request body", zap.String("request_id", evt.RequestID), zap.Error(err))
		return gateway.Error(err)
	}

	result, err := h.authenticator.Authenticate(ctx, req)
	if err != nil {
		return gateway.Error(err)
	}
	return gateway.JSON(http.StatusOK, result)
}

func (h *Handler) handleGin(c *gin.Context) {
	evt, err := gateway.FromGin(c)
	if err != nil {
		common.GetLoggerFromContext(c, h.logger).Error("Login: failed to read request", zap.Error(err))
		common.RespondWithError(c, common.ErrBadRequest)
		return
	}
	h.Handle(c.Request.Context(), evt).WriteGin(c)
}

// credentialsFrom reads the credentials from the query string, falling back to the JSON body
// for whatever the query did not supply. The body is not parsed when the query is complete.
func credentialsFrom(evt gateway.Event) (Request, error) {
	req := Request{
		UserName: evt.QueryParam("userName"),
		Password: evt.QueryParam("password"),
	}
	if req.UserName == "" {
		req.UserName = evt.QueryParam("identifier")
	}
	if (req.UserName != "" && req.Password != "") || strings.TrimSpace(evt.Body) == "" {
		return req, nil
	}

	var body credentialsBody
	if err := json.Unmarshal([]byte(evt.Body), &body); err != nil {
		return req, common.ErrInvalidJSON
	}
	if req.UserName == "" {
		req.UserName = body.UserName
		if req.UserName == "" {
			req.UserName = body.Identifier
		}
	}
	if req.Password == "" {
		req.Password = body.Password
	}
	return req, nil
}
