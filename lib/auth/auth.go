package auth

import (
	"auth0cleanup/lib/constants"
	"auth0cleanup/lib/util"
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
)

// ActorDefaults are the environment-derived fallbacks used when the invocation
// itself does not identify who is performing the deletion.
type ActorDefaults struct {
	DeletedBy    string
	FunctionName string
}

// ResolveActor returns the identity recorded in the ledger's deleted_by column.
// Order: API Gateway caller ARN, invoked function ARN from the Lambda context,
// DELETED_BY, the Lambda function name, then "local".
func ResolveActor(ctx context.Context, request events.APIGatewayProxyRequest, defaults ActorDefaults) string {
	var invokedARN string
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		invokedARN = lc.InvokedFunctionArn
	}

	actor := util.FirstNonEmpty(
		request.RequestContext.Identity.UserArn,
		invokedARN,
		defaults.DeletedBy,
		defaults.FunctionName,
	)
	return util.ConditionalString(actor != "", actor, constants.DEFAULT_ACTOR)
}

// RequestID returns the Lambda request id, or "" outside the Lambda runtime.
func RequestID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		return lc.AwsRequestID
	}
	return ""
}
