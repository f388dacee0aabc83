package gateway

import (
	"context"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLambdaHandler(t *testing.T) {
	var got Event
	h := HandlerFunc(func(_ context.Context, evt Event) Response {
		got = evt
		return JSON(http.StatusCreated, map[string]string{"message": "ok"})
	})

	resp, err := LambdaHandler(h, zap.NewNop())(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:     http.MethodPost,
		Path:           "/users",
		Body:           `{"userName":"maria"}`,
		RequestContext: events.APIGatewayProxyRequestContext{RequestID: "req-9"},
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"message":"ok"}`, resp.Body)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, "req-9", got.RequestID)
	assert.Equal(t, `{"userName":"maria"}`, got.Body)
}

func TestLambdaHandler_ServerErrorIsAResponse(t *testing.T) {
	h := HandlerFunc(func(context.Context, Event) Response {
		return Error(assert.AnError)
	})

	resp, err := LambdaHandler(h, zap.NewNop())(context.Background(), events.APIGatewayProxyRequest{})

	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestLambdaHandler_UndecodableBodyIsBadRequest(t *testing.T) {
	called := false
	h := HandlerFunc(func(context.Context, Event) Response {
		called = true
		return JSON(http.StatusOK, nil)
	})

	resp, err := LambdaHandler(h, zap.NewNop())(context.Background(), events.APIGatewayProxyRequest{
		Body:            "%%% not base64 %%%",
		IsBase64Encoded: true,
	})

	require.NoError(t, err)
	assert.False(t, called)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Requisição inválida"}`, resp.Body)
}
