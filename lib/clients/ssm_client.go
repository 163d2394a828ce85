package clients

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// NewSSMClient creates a Parameter Store client for region. When isLocal is set
// the client talks to localEndpoint instead of AWS.
func NewSSMClient(ctx context.Context, isLocal bool, region, localEndpoint string) (*ssm.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
	)
	if err != nil {
		return nil, err
	}

	if isLocal {
		cfg.BaseEndpoint = aws.String(localEndpoint)
	}

	return ssm.NewFromConfig(cfg), nil
}
