package config

import (
	"auth0cleanup/lib/constants"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// MissingConfigError is returned when a required setting has no value at the point of use.
type MissingConfigError struct {
	Key string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("missing configuration: %s", e.Key)
}

// Settings holds the recognized configuration keys. Values pre-seeded from the
// environment are never overwritten by Parameter Store lookups.
type Settings struct {
	S3Bucket          string `envconfig:"S3_BUCKET"`
	S3Key             string `envconfig:"S3_KEY"`
	Auth0Domain       string `envconfig:"AUTH0_DOMAIN"`
	Auth0Audience     string `envconfig:"AUTH0_AUDIENCE"`
	Auth0ClientID     string `envconfig:"AUTH0_CLIENT_ID"`
	Auth0ClientSecret string `envconfig:"AUTH0_CLIENT_SECRET"`
	SSOID             string `envconfig:"SSOID"`
}

func (s *Settings) field(key string) *string {
	switch key {
	case constants.S3_BUCKET:
		return &s.S3Bucket
	case constants.S3_KEY:
		return &s.S3Key
	case constants.AUTH0_DOMAIN:
		return &s.Auth0Domain
	case constants.AUTH0_AUDIENCE:
		return &s.Auth0Audience
	case constants.AUTH0_CLIENT_ID:
		return &s.Auth0ClientID
	case constants.AUTH0_CLIENT_SECRET:
		return &s.Auth0ClientSecret
	case constants.SSOID:
		return &s.SSOID
	}
	return nil
}

// Get returns the value for key, or "" for unset or unrecognized keys.
func (s Settings) Get(key string) string {
	if f := s.field(key); f != nil {
		return *f
	}
	return ""
}

// SetIfEmpty records value under key unless the key is unrecognized or already set.
func (s *Settings) SetIfEmpty(key, value string) bool {
	f := s.field(key)
	if f == nil || *f != "" {
		return false
	}
	*f = value
	return true
}

// Missing lists the recognized keys that have no value yet.
func (s Settings) Missing() []string {
	var missing []string
	for _, key := range constants.RecognizedKeys {
		if s.Get(key) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// Require fails with a MissingConfigError for every listed key that is unset.
func (s Settings) Require(keys ...string) error {
	var result *multierror.Error
	for _, key := range keys {
		if s.Get(key) == "" {
			result = multierror.Append(result, &MissingConfigError{Key: key})
		}
	}
	if result != nil {
		result.ErrorFormat = formatMissing
	}
	return result.ErrorOrNil()
}

func formatMissing(errs []error) string {
	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

// Domain returns the Auth0 tenant host without scheme or trailing slash.
func (s Settings) Domain() string {
	domain := strings.TrimSpace(s.Auth0Domain)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	return strings.TrimRight(domain, "/")
}

// Audience returns the configured audience or the tenant's Management API audience.
func (s Settings) Audience() string {
	if s.Auth0Audience != "" {
		return s.Auth0Audience
	}
	return fmt.Sprintf("https://%s/api/v2/", s.Domain())
}

// ObjectKey returns the ledger object key, defaulting when unset.
func (s Settings) ObjectKey() string {
	if s.S3Key != "" {
		return s.S3Key
	}
	return constants.DEFAULT_S3_KEY
}
