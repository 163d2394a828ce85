package data

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/sirupsen/logrus"
)

// Parameter is a single resolved Parameter Store entry.
type Parameter struct {
	Name  string
	Value string
}

type SSMRepository interface {
	// GetParametersByPath lists every parameter under path, recursively, in the order returned.
	GetParametersByPath(ctx context.Context, path string) ([]Parameter, error)

	// GetParametersByName fetches the named parameters in a single batch.
	// Names the store does not know are returned separately, not as an error.
	GetParametersByName(ctx context.Context, names []string) ([]Parameter, []string, error)
}

type SSMClientInterface interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
	GetParameters(ctx context.Context, params *ssm.GetParametersInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersOutput, error)
}

type SSMDao struct {
	SSM    SSMClientInterface
	Logger *logrus.Logger
}

func (client *SSMDao) GetParametersByPath(ctx context.Context, path string) ([]Parameter, error) {
	var params []Parameter
	ssmClient := client.SSM
	input := &ssm.GetParametersByPathInput{
		Path:           aws.String(path),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	}

	pages := 0
	for {
		output, err := ssmClient.GetParametersByPath(ctx, input)
		if err != nil {
			return nil, err
		}
		pages++

		for _, param := range output.Parameters {
			params = append(params, Parameter{
				Name:  aws.ToString(param.Name),
				Value: aws.ToString(param.Value),
			})
		}

		// If there's no NextToken, we've got all parameters
		if output.NextToken == nil || *output.NextToken == "" {
			break
		}

		input.NextToken = output.NextToken
	}

	client.Logger.WithFields(logrus.Fields{
		"operation": "GetParametersByPath",
		"path":      path,
		"pages":     pages,
		"count":     len(params),
	}).Debug("Listed parameters by path")

	return params, nil
}

func (client *SSMDao) GetParametersByName(ctx context.Context, names []string) ([]Parameter, []string, error) {
	if len(names) == 0 {
		return nil, nil, nil
	}

	output, err := client.SSM.GetParameters(ctx, &ssm.GetParametersInput{
		Names:          names,
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, nil, err
	}

	params := make([]Parameter, 0, len(output.Parameters))
	for _, param := range output.Parameters {
		params = append(params, Parameter{
			Name:  aws.ToString(param.Name),
			Value: aws.ToString(param.Value),
		})
	}

	return params, output.InvalidParameters, nil
}
