package clients

import (
	"auth0cleanup/lib/constants"
	"auth0cleanup/lib/models"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultTokenTimeout = 10 * time.Second

var (
	// ErrTokenTimeout is returned when the token exchange does not finish within the token timeout.
	ErrTokenTimeout = errors.New("timed out requesting Auth0 access token")

	// ErrMissingClientGrant is returned when Auth0 denies the token because the
	// application has no client grant for the requested audience.
	ErrMissingClientGrant = errors.New("Auth0 application is not authorized for the Management API: " +
		"authorize it under APIs > Auth0 Management API > Machine to Machine Applications " +
		"and grant the read:users and delete:users scopes")

	// ErrMissingAccessToken is returned when a successful token response carries no token.
	ErrMissingAccessToken = errors.New("Auth0 token response did not contain an access_token")
)

// APIError carries the status and raw body of a failed Auth0 request.
type APIError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s failed with status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// Auth0ClientInterface defines the Auth0 Management API operations used by the cleanup
type Auth0ClientInterface interface {
	GetAccessToken(ctx context.Context, domain, clientID, clientSecret, audience string) (string, error)
	SearchUsers(ctx context.Context, domain, token, query string) []models.Account
	DeleteUser(ctx context.Context, domain, token, userID string) error
}

// Auth0Client talks to the Auth0 Authentication and Management APIs over HTTPS.
type Auth0Client struct {
	HTTPClient   *http.Client
	Logger       *logrus.Logger
	Scheme       string
	TokenTimeout time.Duration
}

// NewAuth0Client creates an Auth0 client with the default token timeout
func NewAuth0Client(logger *logrus.Logger) *Auth0Client {
	return &Auth0Client{
		HTTPClient:   &http.Client{},
		Logger:       logger,
		Scheme:       "https",
		TokenTimeout: defaultTokenTimeout,
	}
}

type tokenRequest struct {
	GrantType    string `json:"grant_type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Audience     string `json:"audience"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (client *Auth0Client) baseURL(domain string) string {
	scheme := client.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + domain
}

// GetAccessToken performs a client-credentials exchange and returns the bearer token.
func (client *Auth0Client) GetAccessToken(ctx context.Context, domain, clientID, clientSecret, audience string) (string, error) {
	timeout := client.TokenTimeout
	if timeout <= 0 {
		timeout = defaultTokenTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload, err := json.Marshal(tokenRequest{
		GrantType:    "client_credentials",
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Audience:     audience,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, client.baseURL(domain)+"/oauth/token", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.HTTPClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s", ErrTokenTimeout, timeout)
		}
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s", ErrTokenTimeout, timeout)
		}
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if isMissingGrant(string(body)) {
			return "", fmt.Errorf("%w (%s)", ErrMissingClientGrant, strings.TrimSpace(string(body)))
		}
		return "", &APIError{Operation: "token request", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", ErrMissingAccessToken
	}

	client.Logger.WithFields(logrus.Fields{
		"operation":  "GetAccessToken",
		"domain":     domain,
		"expires_in": token.ExpiresIn,
	}).Debug("Obtained Auth0 access token")

	return token.AccessToken, nil
}

// isMissingGrant matches Auth0's access_denied response for applications without a client grant.
func isMissingGrant(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, "access_denied") &&
		(strings.Contains(lower, "client-grant") || strings.Contains(lower, "client grant"))
}

// SearchUsers runs a Lucene query against the v3 user search engine.
// Failures are logged and reported as no matches.
func (client *Auth0Client) SearchUsers(ctx context.Context, domain, token, query string) []models.Account {
	logger := client.Logger.WithFields(logrus.Fields{
		"operation": "SearchUsers",
		"query":     query,
	})

	params := url.Values{}
	params.Set("q", query)
	params.Set("search_engine", "v3")
	params.Set("per_page", strconv.Itoa(constants.SEARCH_PAGE_SIZE))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL(domain)+"/api/v2/users?"+params.Encode(), nil)
	if err != nil {
		logger.WithError(err).Error("Failed to build user search request")
		return []models.Account{}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := client.HTTPClient.Do(req)
	if err != nil {
		logger.WithError(err).Error("User search request failed")
		return []models.Account{}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.WithError(err).Error("Failed to read user search response")
		return []models.Account{}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   string(body),
		}).Error("User search returned an error status")
		return []models.Account{}
	}

	var accounts []models.Account
	if err := json.Unmarshal(body, &accounts); err != nil {
		logger.WithError(err).Error("Failed to decode user search response")
		return []models.Account{}
	}
	if accounts == nil {
		accounts = []models.Account{}
	}

	logger.WithField("count", len(accounts)).Info("User search completed")
	return accounts
}

// DeleteUser deletes the account with the given Auth0 user id.
func (client *Auth0Client) DeleteUser(ctx context.Context, domain, token, userID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, client.baseURL(domain)+"/api/v2/users/"+url.PathEscape(userID), nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("delete user failed with status %d, reading response: %w", resp.StatusCode, err)
		}
		return &APIError{Operation: "delete user", StatusCode: resp.StatusCode, Body: string(body)}
	}

	client.Logger.WithFields(logrus.Fields{
		"operation": "DeleteUser",
		"user_id":   userID,
	}).Info("Deleted Auth0 user")

	return nil
}
