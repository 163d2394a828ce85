// Package handler adapts Lambda invocations to cleanup runs and cleanup
// results to JSON response envelopes.
package handler

import (
	"auth0cleanup/lib/api"
	"auth0cleanup/lib/auth"
	"auth0cleanup/lib/constants"
	"auth0cleanup/lib/models"
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const errorMessage = "Error deleting user"

// Runner executes a single cleanup.
type Runner interface {
	Run(ctx context.Context, req models.CleanupRequest) (*models.CleanupResult, error)
}

type Handler struct {
	Runner        Runner
	Logger        *logrus.Logger
	ActorDefaults auth.ActorDefaults
}

// Handle is the Lambda entry point. It always returns a structured response:
// 200 for completed runs (including no match and per-account failures) and
// 500 for configuration, authentication and unexpected failures.
func (h *Handler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (response events.APIGatewayProxyResponse, err error) {
	requestID := auth.RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	logger := h.Logger.WithFields(logrus.Fields{
		"operation":  "Handle",
		"request_id": requestID,
	})

	defer func() {
		if recovered := recover(); recovered != nil {
			logger.WithField("panic", recovered).Error("Cleanup panicked")
			response = api.ErrorResponse(http.StatusInternalServerError, errorMessage, fmt.Sprint(recovered), h.Logger)
			err = nil
		}
	}()

	req := models.CleanupRequest{
		PathSSOID:  request.PathParameters[constants.SSOID_PARAMETER],
		QuerySSOID: request.QueryStringParameters[constants.SSOID_PARAMETER],
		Actor:      auth.ResolveActor(ctx, request, h.ActorDefaults),
		RequestID:  requestID,
	}

	logger.WithFields(logrus.Fields{
		"path_ssoid":  req.PathSSOID,
		"query_ssoid": req.QuerySSOID,
		"actor":       req.Actor,
	}).Info("Auth0 cleanup request received")

	result, runErr := h.Runner.Run(ctx, req)
	if runErr != nil {
		logger.WithError(runErr).Error("Cleanup failed")
		return api.ErrorResponse(http.StatusInternalServerError, errorMessage, runErr.Error(), h.Logger), nil
	}

	return api.SuccessResponse(http.StatusOK, result, h.Logger), nil
}
