// Command auth0-cleanup-local runs a single cleanup invocation from the command
// line with the same wiring as the Lambda and prints the response envelope.
package main

import (
	"auth0cleanup/lib/config"
	"auth0cleanup/lib/handler"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
)

func main() {
	ssoid := flag.String("ssoid", "", "SSOID passed as the path parameter")
	querySSOID := flag.String("query-ssoid", "", "SSOID passed as the query string parameter")
	actor := flag.String("actor", "", "actor recorded in the ledger (overrides DELETED_BY)")
	flag.Parse()

	env, err := config.LoadEnvironment()
	if err != nil {
		logrus.WithError(err).Fatal("Error reading environment configuration")
	}
	if *actor != "" {
		env.DeletedBy = *actor
	}

	logger := handler.SetupLogger(env)
	ctx := context.Background()

	h, err := handler.New(ctx, env, logger)
	if err != nil {
		logger.WithError(err).Fatal("Error setting up cleanup handler")
	}

	request := events.APIGatewayProxyRequest{}
	if *ssoid != "" {
		request.PathParameters = map[string]string{"ssoid": *ssoid}
	}
	if *querySSOID != "" {
		request.QueryStringParameters = map[string]string{"ssoid": *querySSOID}
	}

	response, err := h.Handle(ctx, request)
	if err != nil {
		logger.WithError(err).Fatal("Cleanup invocation failed")
	}

	out, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		logger.WithError(err).Fatal("Failed to encode response")
	}
	fmt.Println(string(out))

	if response.StatusCode >= 400 {
		os.Exit(1)
	}
}
