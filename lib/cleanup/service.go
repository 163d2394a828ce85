// Package cleanup deletes the Auth0 accounts linked to an SSOID and records
// each deletion in the CSV ledger.
package cleanup

import (
	"auth0cleanup/lib/clients"
	"auth0cleanup/lib/config"
	"auth0cleanup/lib/constants"
	"auth0cleanup/lib/data"
	"auth0cleanup/lib/models"
	"auth0cleanup/lib/util"
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	MessageNotFound          = "Cannot find user"
	MessageCompleted         = "Deletion completed"
	MessageCompletedWithErrs = "Deletion completed with errors"
)

// SettingsResolver provides the resolved configuration for an invocation.
type SettingsResolver interface {
	Resolve(ctx context.Context) (config.Settings, error)
}

// Service runs one cleanup per invocation. Its collaborators are built once at
// cold start and shared by every invocation in the process.
type Service struct {
	Resolver SettingsResolver
	Auth0    clients.Auth0ClientInterface
	Ledger   data.LedgerRepository
	Logger   *logrus.Logger
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Run resolves configuration, authenticates, finds the accounts linked to the
// target SSOID and deletes each of them. Deletions that fail are reported per
// account and do not stop the others. A returned error means the invocation
// could not authenticate or was misconfigured; accounts deleted before a
// failure stay deleted.
func (s *Service) Run(ctx context.Context, req models.CleanupRequest) (*models.CleanupResult, error) {
	settings, err := s.Resolver.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configuration: %w", err)
	}

	if err := settings.Require(constants.AUTH0_DOMAIN, constants.AUTH0_CLIENT_ID, constants.AUTH0_CLIENT_SECRET); err != nil {
		return nil, err
	}
	domain := settings.Domain()

	token, err := s.Auth0.GetAccessToken(ctx, domain, settings.Auth0ClientID, settings.Auth0ClientSecret, settings.Audience())
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth0 access token: %w", err)
	}

	ssoid := ResolveSSOID(req, settings)
	logger := s.Logger.WithFields(logrus.Fields{
		"operation":  "Run",
		"ssoid":      ssoid,
		"request_id": req.RequestID,
	})

	accounts := s.findAccounts(ctx, domain, token, ssoid)
	if len(accounts) == 0 {
		logger.Info("No Auth0 users matched the SSOID")
		return &models.CleanupResult{
			Message: MessageNotFound,
			SSOID:   ssoid,
			Count:   0,
			Results: []models.DeletionResult{},
		}, nil
	}

	results := make([]models.DeletionResult, 0, len(accounts))
	var rows []string
	failed := 0
	for i := range accounts {
		account := &accounts[i]
		if err := s.Auth0.DeleteUser(ctx, domain, token, account.UserID); err != nil {
			logger.WithError(err).WithField("user_id", account.UserID).Error("Failed to delete Auth0 user")
			results = append(results, models.DeletionResult{UserID: account.UserID, Deleted: false, Error: err.Error()})
			failed++
			continue
		}

		results = append(results, models.DeletionResult{UserID: account.UserID, Deleted: true})
		rows = append(rows, BuildLedgerRow(ssoid, account, s.now(), req.Actor))
	}

	s.recordDeletions(ctx, logger, settings, rows)

	logger.WithFields(logrus.Fields{
		"matched": len(accounts),
		"deleted": len(rows),
		"failed":  failed,
	}).Info("Cleanup finished")

	return &models.CleanupResult{
		Message: util.ConditionalString(failed == 0, MessageCompleted, MessageCompletedWithErrs),
		SSOID:   ssoid,
		Count:   len(accounts),
		Results: results,
	}, nil
}

// findAccounts searches by identity link first and by app_metadata.ssoid only
// when the first search finds nothing.
func (s *Service) findAccounts(ctx context.Context, domain, token, ssoid string) []models.Account {
	term := util.EscapeLuceneTerm(ssoid)
	queries := []string{
		fmt.Sprintf(constants.IDENTITY_QUERY, term),
		fmt.Sprintf(constants.APP_METADATA_QUERY, term),
	}

	for _, query := range queries {
		accounts := s.Auth0.SearchUsers(ctx, domain, token, query)
		if len(accounts) > 0 {
			return accounts
		}
		s.Logger.WithFields(logrus.Fields{
			"operation": "findAccounts",
			"query":     query,
		}).Debug("Search returned no users")
	}
	return nil
}

// recordDeletions appends rows to the ledger. Write failures are logged only:
// the deletions have already happened and cannot be undone.
func (s *Service) recordDeletions(ctx context.Context, logger *logrus.Entry, settings config.Settings, rows []string) {
	if len(rows) == 0 {
		return
	}

	if settings.S3Bucket == "" {
		logger.WithField("rows", len(rows)).Warn("S3_BUCKET is not configured, skipping ledger write")
		return
	}

	key := settings.ObjectKey()
	if err := s.Ledger.AppendRows(ctx, settings.S3Bucket, key, rows); err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"bucket": settings.S3Bucket,
			"key":    key,
			"rows":   len(rows),
		}).Error("Failed to write deletion ledger")
	}
}

// ResolveSSOID picks the target id from the path parameter, the query parameter,
// the configured default and finally a placeholder.
func ResolveSSOID(req models.CleanupRequest, settings config.Settings) string {
	if ssoid := util.FirstNonEmpty(req.PathSSOID, req.QuerySSOID, settings.SSOID); ssoid != "" {
		return ssoid
	}
	return constants.PLACEHOLDER_SSOID
}
