package main

import (
	"auth0cleanup/lib/config"
	"auth0cleanup/lib/handler"
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

// Built once per cold start and reused across invocations.
var (
	logger  *logrus.Logger
	cleanup *handler.Handler
)

func main() {
	lambda.Start(cleanup.Handle)
}

func init() {
	env, err := config.LoadEnvironment()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"operation": "init",
			"error":     err.Error(),
		}).Fatal("Error reading environment configuration")
	}

	logger = handler.SetupLogger(env)

	cleanup, err = handler.New(context.Background(), env, logger)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"operation": "init",
			"error":     err.Error(),
		}).Fatal("Error setting up cleanup handler")
	}

	logger.WithFields(logrus.Fields{
		"operation":    "init",
		"region":       env.Region,
		"param_prefix": env.ParamPrefix,
		"is_local":     env.IsLocal,
	}).Info("Auth0 cleanup Lambda initialization completed successfully")
}
