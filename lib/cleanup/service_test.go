package cleanup

import (
	"auth0cleanup/lib/clients"
	"auth0cleanup/lib/config"
	"auth0cleanup/lib/constants"
	"auth0cleanup/lib/models"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResolver struct {
	Settings config.Settings
	Err      error
}

func (m *MockResolver) Resolve(ctx context.Context) (config.Settings, error) {
	return m.Settings, m.Err
}

type MockAuth0Client struct {
	TokenErr     error
	Searches     map[string][]models.Account
	DeleteErrors map[string]error

	TokenCalls  int
	SearchCalls []string
	DeleteCalls []string
}

func (m *MockAuth0Client) GetAccessToken(ctx context.Context, domain, clientID, clientSecret, audience string) (string, error) {
	m.TokenCalls++
	if m.TokenErr != nil {
		return "", m.TokenErr
	}
	return "token", nil
}

func (m *MockAuth0Client) SearchUsers(ctx context.Context, domain, token, query string) []models.Account {
	m.SearchCalls = append(m.SearchCalls, query)
	return m.Searches[query]
}

func (m *MockAuth0Client) DeleteUser(ctx context.Context, domain, token, userID string) error {
	m.DeleteCalls = append(m.DeleteCalls, userID)
	return m.DeleteErrors[userID]
}

type MockLedger struct {
	Err   error
	Calls int
	Rows  []string
	Key   string
}

func (m *MockLedger) AppendRows(ctx context.Context, bucket, key string, rows []string) error {
	m.Calls++
	m.Rows = append(m.Rows, rows...)
	m.Key = key
	return m.Err
}

var fixedNow = time.Date(2026, 3, 4, 5, 6, 7, 890000000, time.UTC)

func validSettings() config.Settings {
	return config.Settings{
		Auth0Domain:       "tenant.auth0.com",
		Auth0ClientID:     "client-id",
		Auth0ClientSecret: "secret",
		S3Bucket:          "audit-bucket",
	}
}

func strPtr(v string) *string {
	return &v
}

func newTestService(settings config.Settings, auth0 *MockAuth0Client, ledger *MockLedger) (*Service, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return &Service{
		Resolver: &MockResolver{Settings: settings},
		Auth0:    auth0,
		Ledger:   ledger,
		Logger:   logger,
		Now:      func() time.Time { return fixedNow },
	}, hook
}

func hasEntry(hook *test.Hook, level logrus.Level, message string) bool {
	for _, entry := range hook.AllEntries() {
		if entry.Level == level && entry.Message == message {
			return true
		}
	}
	return false
}

func identityQuery(ssoid string) string {
	return fmt.Sprintf(constants.IDENTITY_QUERY, ssoid)
}

func metadataQuery(ssoid string) string {
	return fmt.Sprintf(constants.APP_METADATA_QUERY, ssoid)
}

func TestRun_NotFound(t *testing.T) {
	//Arrange
	auth0 := &MockAuth0Client{}
	ledger := &MockLedger{}
	service, _ := newTestService(validSettings(), auth0, ledger)

	//Act
	result, err := service.Run(context.Background(), models.CleanupRequest{PathSSOID: "abc123", Actor: "tester"})

	//Assert
	require.NoError(t, err)
	assert.Equal(t, &models.CleanupResult{
		Message: MessageNotFound,
		SSOID:   "abc123",
		Count:   0,
		Results: []models.DeletionResult{},
	}, result)
	assert.Equal(t, []string{identityQuery("abc123"), metadataQuery("abc123")}, auth0.SearchCalls)
	assert.Empty(t, auth0.DeleteCalls)
	assert.Equal(t, 0, ledger.Calls)
}

func TestRun_EscapesSSOIDInSearchQueries(t *testing.T) {
	//Arrange
	auth0 := &MockAuth0Client{
		Searches: map[string][]models.Account{
			`identities.user_id:"x" OR user_id:* OR a:""`: {{UserID: "auth0|1"}, {UserID: "auth0|2"}},
		},
	}
	ledger := &MockLedger{}
	service, _ := newTestService(validSettings(), auth0, ledger)

	//Act
	result, err := service.Run(context.Background(), models.CleanupRequest{PathSSOID: `x" OR user_id:* OR a:"`, Actor: "tester"})

	//Assert
	require.NoError(t, err)
	assert.Equal(t, MessageNotFound, result.Message)
	assert.Equal(t, []string{
		`identities.user_id:"x\" OR user_id:* OR a:\""`,
		`app_metadata.ssoid:"x\" OR user_id:* OR a:\""`,
	}, auth0.SearchCalls)
	assert.Empty(t, auth0.DeleteCalls)
	assert.Equal(t, 0, ledger.Calls)
}

func TestRun_FallsBackToMetadataSearch(t *testing.T) {
	//Arrange
	auth0 := &MockAuth0Client{
		Searches: map[string][]models.Account{
			metadataQuery("abc123"): {{UserID: "auth0|1", Email: strPtr("a@example.com")}},
		},
	}
	ledger := &MockLedger{}
	service, _ := newTestService(validSettings(), auth0, ledger)

	//Act
	result, err := service.Run(context.Background(), models.CleanupRequest{QuerySSOID: "abc123", Actor: "tester"})

	//Assert
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, []models.DeletionResult{{UserID: "auth0|1", Deleted: true}}, result.Results)
	assert.Equal(t, []string{"auth0|1"}, auth0.DeleteCalls)
	assert.Equal(t, 1, ledger.Calls)
	assert.Equal(t, constants.DEFAULT_S3_KEY, ledger.Key)
}

func TestRun_IdentitySearchWins(t *testing.T) {
	//Arrange
	auth0 := &MockAuth0Client{
		Searches: map[string][]models.Account{
			identityQuery("abc123"): {{UserID: "samlp|1"}},
			metadataQuery("abc123"): {{UserID: "auth0|2"}},
		},
	}
	service, _ := newTestService(validSettings(), auth0, &MockLedger{})

	//Act
	result, err := service.Run(context.Background(), models.CleanupRequest{PathSSOID: "abc123"})

	//Assert
	require.NoError(t, err)
	assert.Equal(t, []string{identityQuery("abc123")}, auth0.SearchCalls)
	assert.Equal(t, []string{"samlp|1"}, auth0.DeleteCalls)
	assert.Equal(t, 1, result.Count)
}

func TestRun_PerAccountIsolation(t *testing.T) {
	//Arrange
	auth0 := &MockAuth0Client{
		Searches: map[string][]models.Account{
			identityQuery("abc123"): {{UserID: "auth0|1"}, {UserID: "auth0|2", Email: strPtr("b@example.com")}},
		},
		DeleteErrors: map[string]error{"auth0|1": errors.New("rate limited")},
	}
	ledger := &MockLedger{}
	service, _ := newTestService(validSettings(), auth0, ledger)

	//Act
	result, err := service.Run(context.Background(), models.CleanupRequest{PathSSOID: "abc123", Actor: "tester"})

	//Assert
	require.NoError(t, err)
	assert.Equal(t, MessageCompletedWithErrs, result.Message)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, []models.DeletionResult{
		{UserID: "auth0|1", Deleted: false, Error: "rate limited"},
		{UserID: "auth0|2", Deleted: true},
	}, result.Results)
	assert.Equal(t, []string{"auth0|1", "auth0|2"}, auth0.DeleteCalls)
	assert.Equal(t, 1, ledger.Calls)
	assert.Equal(t, []string{
		"abc123,true,2026-03-04T05:06:07.890Z,auth0|2,b@example.com,,,,,,,tester\n",
	}, ledger.Rows)
}

func TestRun_AllDeletionsFailSkipsLedger(t *testing.T) {
	//Arrange
	auth0 := &MockAuth0Client{
		Searches:     map[string][]models.Account{identityQuery("abc123"): {{UserID: "auth0|1"}}},
		DeleteErrors: map[string]error{"auth0|1": errors.New("forbidden")},
	}
	ledger := &MockLedger{}
	service, _ := newTestService(validSettings(), auth0, ledger)

	//Act
	result, err := service.Run(context.Background(), models.CleanupRequest{PathSSOID: "abc123"})

	//Assert
	require.NoError(t, err)
	assert.False(t, result.Results[0].Deleted)
	assert.Equal(t, 0, ledger.Calls)
}

func TestRun_NoBucketSkipsLedger(t *testing.T) {
	//Arrange
	settings := validSettings()
	settings.S3Bucket = ""
	auth0 := &MockAuth0Client{
		Searches: map[string][]models.Account{identityQuery("abc123"): {{UserID: "auth0|1"}}},
	}
	ledger := &MockLedger{}
	service, hook := newTestService(settings, auth0, ledger)

	//Act
	result, err := service.Run(context.Background(), models.CleanupRequest{PathSSOID: "abc123"})

	//Assert
	require.NoError(t, err)
	assert.Equal(t, MessageCompleted, result.Message)
	assert.Equal(t, []models.DeletionResult{{UserID: "auth0|1", Deleted: true}}, result.Results)
	assert.Equal(t, 0, ledger.Calls)
	assert.True(t, hasEntry(hook, logrus.WarnLevel, "S3_BUCKET is not configured, skipping ledger write"))
}

func TestRun_LedgerFailureIsSwallowed(t *testing.T) {
	//Arrange
	auth0 := &MockAuth0Client{
		Searches: map[string][]models.Account{identityQuery("abc123"): {{UserID: "auth0|1"}}},
	}
	ledger := &MockLedger{Err: errors.New("s3 down")}
	service, hook := newTestService(validSettings(), auth0, ledger)

	//Act
	result, err := service.Run(context.Background(), models.CleanupRequest{PathSSOID: "abc123"})

	//Assert
	require.NoError(t, err)
	assert.True(t, result.Results[0].Deleted)
	assert.Equal(t, 1, ledger.Calls)
	assert.True(t, hasEntry(hook, logrus.ErrorLevel, "Failed to write deletion ledger"))
}

func TestRun_MissingConfiguration(t *testing.T) {
	//Arrange
	auth0 := &MockAuth0Client{}
	service, _ := newTestService(config.Settings{Auth0Domain: "tenant.auth0.com"}, auth0, &MockLedger{})

	//Act
	_, err := service.Run(context.Background(), models.CleanupRequest{PathSSOID: "abc123"})

	//Assert
	require.Error(t, err)
	var missing *config.MissingConfigError
	assert.True(t, errors.As(err, &missing))
	assert.Contains(t, err.Error(), "missing configuration: AUTH0_CLIENT_ID")
	assert.Equal(t, 0, auth0.TokenCalls)
}

func TestRun_ResolverFailure(t *testing.T) {
	//Arrange
	auth0 := &MockAuth0Client{}
	service, _ := newTestService(validSettings(), auth0, &MockLedger{})
	service.Resolver = &MockResolver{Err: errors.New("ssm unavailable")}

	//Act
	_, err := service.Run(context.Background(), models.CleanupRequest{PathSSOID: "abc123"})

	//Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ssm unavailable")
	assert.Equal(t, 0, auth0.TokenCalls)
}

func TestRun_TokenFailureIsTerminal(t *testing.T) {
	//Arrange
	auth0 := &MockAuth0Client{TokenErr: clients.ErrMissingClientGrant}
	service, _ := newTestService(validSettings(), auth0, &MockLedger{})

	//Act
	_, err := service.Run(context.Background(), models.CleanupRequest{PathSSOID: "abc123"})

	//Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, clients.ErrMissingClientGrant))
	assert.Empty(t, auth0.SearchCalls)
}

func TestResolveSSOID(t *testing.T) {
	settings := config.Settings{SSOID: "configured"}

	assert.Equal(t, "path", ResolveSSOID(models.CleanupRequest{PathSSOID: "path", QuerySSOID: "query"}, settings))
	assert.Equal(t, "query", ResolveSSOID(models.CleanupRequest{QuerySSOID: "query"}, settings))
	assert.Equal(t, "configured", ResolveSSOID(models.CleanupRequest{}, settings))
	assert.Equal(t, constants.PLACEHOLDER_SSOID, ResolveSSOID(models.CleanupRequest{}, config.Settings{}))
}
