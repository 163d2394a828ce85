package api

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
)

// ErrorBody is the failure-path response body.
type ErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func jsonHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
	}
}

// SuccessResponse creates a successful response envelope
func SuccessResponse(statusCode int, data interface{}, logger *logrus.Logger) events.APIGatewayProxyResponse {
	body, err := json.Marshal(data)
	if err != nil {
		logger.WithError(err).Error("Failed to marshal response data")
		return ErrorResponse(http.StatusInternalServerError, "Internal server error", err.Error(), logger)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Body:       string(body),
		Headers:    jsonHeaders(),
	}
}

// ErrorResponse creates an error response envelope carrying the error text
func ErrorResponse(statusCode int, message, errorText string, logger *logrus.Logger) events.APIGatewayProxyResponse {
	body, err := json.Marshal(ErrorBody{
		Message: message,
		Error:   errorText,
	})
	if err != nil {
		logger.WithError(err).Error("Failed to marshal error response")
		body = []byte(`{"message":"Internal server error","error":"failed to marshal error response"}`)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Body:       string(body),
		Headers:    jsonHeaders(),
	}
}
