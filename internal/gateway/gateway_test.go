package gateway

import (
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"user_access_backend/internal/common"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAPIGateway(t *testing.T) {
	req := events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"userName": "maria"},
		Body:                  `{"password":"x"}`,
		RequestContext:        events.APIGatewayProxyRequestContext{RequestID: "req-1"},
	}

	evt, err := FromAPIGateway(req)
	require.NoError(t, err)

	assert.Equal(t, "maria", evt.QueryParam("userName"))
	assert.Equal(t, `{"password":"x"}`, evt.Body)
	assert.Equal(t, "req-1", evt.RequestID)
}

func TestFromAPIGateway_Base64BodyAndGeneratedRequestID(t *testing.T) {
	req := events.APIGatewayProxyRequest{
		Body:            base64.StdEncoding.EncodeToString([]byte(`{"a":1}`)),
		IsBase64Encoded: true,
	}

	evt, err := FromAPIGateway(req)
	require.NoError(t, err)

	assert.Equal(t, `{"a":1}`, evt.Body)
	assert.NotEmpty(t, evt.RequestID)
	assert.Equal(t, "", evt.QueryParam("missing"))
}

func TestFromAPIGateway_InvalidBase64Body(t *testing.T) {
	req := events.APIGatewayProxyRequest{
		Body:            "%%% not base64 %%%",
		IsBase64Encoded: true,
		RequestContext:  events.APIGatewayProxyRequestContext{RequestID: "req-2"},
	}

	evt, err := FromAPIGateway(req)

	assert.ErrorContains(t, err, "base64")
	assert.Equal(t, "req-2", evt.RequestID)
	assert.Empty(t, evt.Body)
}

func TestErrorResponse(t *testing.T) {
	resp := Error(common.ErrInvalidJSON)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Formato de JSON inválido"}`, resp.Body)

	resp = Error(errors.New("socket closed"))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Erro interno do servidor"}`, resp.Body)
}

func TestResponse_APIGateway(t *testing.T) {
	out := JSON(http.StatusCreated, map[string]string{"message": "ok"}).APIGateway()

	assert.Equal(t, http.StatusCreated, out.StatusCode)
	assert.Equal(t, "application/json", out.Headers["Content-Type"])
	assert.JSONEq(t, `{"message":"ok"}`, out.Body)
}

func TestGinRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/echo", func(c *gin.Context) {
		c.Set(common.RequestIDKey, "abc")
		evt, err := FromGin(c)
		require.NoError(t, err)
		JSON(http.StatusOK, map[string]string{
			"body":      evt.Body,
			"userName":  evt.QueryParam("userName"),
			"requestID": evt.RequestID,
		}).WriteGin(c)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo?userName=joao", strings.NewReader("payload"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"body":"payload","userName":"joao","requestID":"abc"}`, w.Body.String())
}
