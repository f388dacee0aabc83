package gateway

import (
	"context"
	"time"

	"user_access_backend/internal/common"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// Handler processes one Event.
type Handler interface {
	Handle(ctx context.Context, evt Event) Response
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, evt Event) Response

func (f HandlerFunc) Handle(ctx context.Context, evt Event) Response { return f(ctx, evt) }

// LambdaHandler adapts h to the API Gateway proxy signature expected by lambda.Start.
// Handler failures are rendered as responses; the returned error is always nil.
func LambdaHandler(h Handler, logger *zap.Logger) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		start := time.Now()
		var resp Response
		evt, err := FromAPIGateway(req)
		if err != nil {
			logger.Warn("Rejected undecodable request body", zap.String("request_id", evt.RequestID), zap.Error(err))
			resp = Error(common.ErrBadRequest)
		} else {
			resp = h.Handle(ctx, evt)
		}

		fields := []zap.Field{
			zap.String("request_id", evt.RequestID),
			zap.String("method", req.HTTPMethod),
			zap.String("path", req.Path),
			zap.Int("status_code", resp.StatusCode),
			zap.Duration("latency", time.Since(start)),
		}
		if resp.StatusCode >= 500 {
			logger.Error("Server error", fields...)
		} else {
			logger.Info("Request handled", fields...)
		}
		return resp.APIGateway(), nil
	}
}
