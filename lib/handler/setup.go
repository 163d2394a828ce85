package handler

import (
	"auth0cleanup/lib/auth"
	"auth0cleanup/lib/cleanup"
	"auth0cleanup/lib/clients"
	"auth0cleanup/lib/config"
	"auth0cleanup/lib/data"
	"auth0cleanup/lib/util"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// SetupLogger creates the JSON logger shared by every component.
func SetupLogger(env config.Environment) *logrus.Logger {
	logger := logrus.New()
	util.SetLogLevel(logger, env.LogLevel)
	logger.SetFormatter(&logrus.JSONFormatter{PrettyPrint: env.IsLocal})
	return logger
}

// New wires the AWS clients, the Auth0 client and the cleanup service into a
// Handler. Nothing is fetched from Parameter Store here; settings are resolved
// on the first invocation.
func New(ctx context.Context, env config.Environment, logger *logrus.Logger) (*Handler, error) {
	ssmClient, err := clients.NewSSMClient(ctx, env.IsLocal, env.Region, env.LocalEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSM client: %w", err)
	}

	s3Client, err := clients.NewS3Client(ctx, env.IsLocal, env.Region, env.LocalEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	ssmRepository := &data.SSMDao{
		SSM:    ssmClient,
		Logger: logger,
	}

	service := &cleanup.Service{
		Resolver: config.NewResolver(ssmRepository, logger, env),
		Auth0:    clients.NewAuth0Client(logger),
		Ledger: &data.LedgerDao{
			S3:     s3Client,
			Logger: logger,
		},
		Logger: logger,
	}

	return &Handler{
		Runner: service,
		Logger: logger,
		ActorDefaults: auth.ActorDefaults{
			DeletedBy:    env.DeletedBy,
			FunctionName: env.FunctionName,
		},
	}, nil
}
