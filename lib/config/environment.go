package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Environment holds the process configuration read at cold start. The embedded
// Settings are the explicit overrides that Parameter Store values never replace.
type Environment struct {
	Settings

	// IsLocal points the AWS clients at LocalEndpoint and pretty-prints logs.
	IsLocal bool `envconfig:"IS_LOCAL" default:"false"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	Region string `envconfig:"AWS_REGION" default:"us-east-2"`

	// LocalEndpoint is the LocalStack endpoint used when IsLocal is set.
	LocalEndpoint string `envconfig:"LOCAL_ENDPOINT" default:"http://docker.for.mac.host.internal:4566"`

	// ParamPrefix is the hierarchical Parameter Store path. A value that does not
	// start with "/" disables the path lookup.
	ParamPrefix string `envconfig:"PARAM_PREFIX" default:"/auth0-cleanup/"`

	// FlatParamPrefix is prepended to each key for the flat-name fallback lookup.
	FlatParamPrefix string `envconfig:"FLAT_PARAM_PREFIX" default:"auth0_cleanup_"`

	// DeletedBy is the actor recorded when the invocation context carries none.
	DeletedBy string `envconfig:"DELETED_BY"`

	FunctionName string `envconfig:"AWS_LAMBDA_FUNCTION_NAME"`
}

// LoadEnvironment reads Environment from the process environment.
func LoadEnvironment() (Environment, error) {
	var env Environment
	err := envconfig.Process("", &env)
	return env, err
}
