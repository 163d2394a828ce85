package constants

// Recognized parameter keys. The same names are used for environment
// variables, the short name of hierarchical parameters and the suffix of
// flat parameters.
const (
	S3_BUCKET           = "S3_BUCKET"
	S3_KEY              = "S3_KEY"
	AUTH0_DOMAIN        = "AUTH0_DOMAIN"
	AUTH0_AUDIENCE      = "AUTH0_AUDIENCE"
	AUTH0_CLIENT_ID     = "AUTH0_CLIENT_ID"
	AUTH0_CLIENT_SECRET = "AUTH0_CLIENT_SECRET"
	SSOID               = "SSOID"
)

// RecognizedKeys lists every key the resolver will record, in lookup order.
var RecognizedKeys = []string{
	S3_BUCKET,
	S3_KEY,
	AUTH0_DOMAIN,
	AUTH0_AUDIENCE,
	AUTH0_CLIENT_ID,
	AUTH0_CLIENT_SECRET,
	SSOID,
}

const (
	DEFAULT_PARAM_PREFIX      = "/auth0-cleanup/"
	DEFAULT_FLAT_PARAM_PREFIX = "auth0_cleanup_"
	DEFAULT_S3_KEY            = "output/deleted_users.csv"
	DEFAULT_REGION            = "us-east-2"
	LOCAL_ENDPOINT            = "http://docker.for.mac.host.internal:4566"

	PLACEHOLDER_SSOID = "REPLACE_WITH_SSOID"
	DEFAULT_ACTOR     = "local"
	DEACTIVATION_FLAG = "true"
	SSOID_PARAMETER   = "ssoid"

	CSV_CONTENT_TYPE = "text/csv"
	CSV_HEADER       = "ssoid,deactivation_flag,last_update_timestamp,user_id,email,name,providers,connections,created_at,last_login,logins_count,deleted_by"

	// Auth0 Management API search queries, tried in this order.
	IDENTITY_QUERY     = `identities.user_id:"%s"`
	APP_METADATA_QUERY = `app_metadata.ssoid:"%s"`
	SEARCH_PAGE_SIZE   = 50
)
