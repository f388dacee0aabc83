// Package gateway converts between the transports that invoke the handlers
// (API Gateway proxy events, gin requests) and the transport-neutral Event/Response pair.
package gateway

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"user_access_backend/internal/common"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const contentTypeJSON = "application/json"

// Event is the inbound request as seen by a handler.
type Event struct {
	Query     map[string]string
	Body      string
	RequestID string
}

// QueryParam returns the named query parameter, or "" if absent.
func (e Event) QueryParam(name string) string {
	if e.Query == nil {
		return ""
	}
	return e.Query[name]
}

// Response is what a handler returns: a status code and a JSON-encoded body.
type Response struct {
	StatusCode int
	Body       string
}

// JSON builds a Response by encoding v.
func JSON(statusCode int, v interface{}) Response {
	raw, err := json.Marshal(v)
	if err != nil {
		raw, _ = json.Marshal(common.ErrInternalServer)
		statusCode = http.StatusInternalServerError
	}
	return Response{StatusCode: statusCode, Body: string(raw)}
}

// Error builds a Response from err; anything that is not an APIError becomes a generic 500.
func Error(err error) Response {
	apiErr, ok := common.IsAPIError(err)
	if !ok {
		apiErr = common.ErrInternalServer
	}
	return JSON(apiErr.StatusCode, apiErr)
}

// FromAPIGateway converts an API Gateway proxy request. A body flagged as base64 that
// does not decode is an error; the returned Event still carries the request id.
func FromAPIGateway(req events.APIGatewayProxyRequest) (Event, error) {
	requestID := req.RequestContext.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	evt := Event{
		Query:     req.QueryStringParameters,
		Body:      req.Body,
		RequestID: requestID,
	}
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			evt.Body = ""
			return evt, fmt.Errorf("error decoding base64 body: %w", err)
		}
		evt.Body = string(decoded)
	}
	return evt, nil
}

// APIGateway converts r into an API Gateway proxy response.
func (r Response) APIGateway() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: r.StatusCode,
		Headers:    map[string]string{"Content-Type": contentTypeJSON},
		Body:       r.Body,
	}
}

// FromGin converts a gin request.
func FromGin(c *gin.Context) (Event, error) {
	query := make(map[string]string, len(c.Request.URL.Query()))
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			query[key] = values[0]
		}
	}

	var body []byte
	if c.Request.Body != nil {
		var err error
		body, err = io.ReadAll(c.Request.Body)
		if err != nil {
			return Event{}, err
		}
	}

	requestID := common.GetRequestIDFromContext(c)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return Event{Query: query, Body: string(body), RequestID: requestID}, nil
}

// WriteGin writes r to the gin response.
func (r Response) WriteGin(c *gin.Context) {
	c.Data(r.StatusCode, contentTypeJSON, []byte(r.Body))
}
