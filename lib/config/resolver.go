package config

import (
	"auth0cleanup/lib/constants"
	"auth0cleanup/lib/data"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Resolver fills Settings from Parameter Store: first a recursive listing under
// a hierarchical path, then a single flat-name batch for whatever is still unset.
// A successful resolution is cached for the lifetime of the Resolver.
type Resolver struct {
	Store      data.SSMRepository
	Logger     *logrus.Logger
	Prefix     string
	FlatPrefix string

	mu       sync.Mutex
	settings Settings
	loaded   bool
}

// NewResolver builds a Resolver seeded with the explicit settings from env.
func NewResolver(store data.SSMRepository, logger *logrus.Logger, env Environment) *Resolver {
	prefix := env.ParamPrefix
	if prefix == "" {
		prefix = constants.DEFAULT_PARAM_PREFIX
	}
	flatPrefix := env.FlatParamPrefix
	if flatPrefix == "" {
		flatPrefix = constants.DEFAULT_FLAT_PARAM_PREFIX
	}

	return &Resolver{
		Store:      store,
		Logger:     logger,
		Prefix:     prefix,
		FlatPrefix: flatPrefix,
		settings:   env.Settings,
	}
}

// Resolve returns the resolved settings, querying Parameter Store only until the
// first success. A store failure is returned and the next call tries again.
func (r *Resolver) Resolve(ctx context.Context) (Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return r.settings, nil
	}

	settings := r.settings

	if strings.HasPrefix(r.Prefix, "/") {
		if err := r.resolveByPath(ctx, &settings); err != nil {
			return Settings{}, err
		}
	}

	if err := r.resolveByName(ctx, &settings); err != nil {
		return Settings{}, err
	}

	r.settings = settings
	r.loaded = true

	r.Logger.WithFields(logrus.Fields{
		"operation": "Resolve",
		"missing":   settings.Missing(),
	}).Info("Configuration resolved")

	return r.settings, nil
}

func (r *Resolver) resolveByPath(ctx context.Context, settings *Settings) error {
	params, err := r.Store.GetParametersByPath(ctx, r.Prefix)
	if err != nil {
		return fmt.Errorf("failed to list parameters under %s: %w", r.Prefix, err)
	}

	recorded := 0
	for _, param := range params {
		name := param.Name[strings.LastIndex(param.Name, "/")+1:]
		if settings.SetIfEmpty(name, param.Value) {
			recorded++
		}
	}

	r.Logger.WithFields(logrus.Fields{
		"operation": "resolveByPath",
		"path":      r.Prefix,
		"found":     len(params),
		"recorded":  recorded,
	}).Debug("Resolved hierarchical parameters")

	return nil
}

func (r *Resolver) resolveByName(ctx context.Context, settings *Settings) error {
	missing := settings.Missing()
	if len(missing) == 0 {
		return nil
	}

	names := make([]string, len(missing))
	for i, key := range missing {
		names[i] = r.FlatPrefix + key
	}

	params, invalid, err := r.Store.GetParametersByName(ctx, names)
	if err != nil {
		return fmt.Errorf("failed to get parameters %v: %w", names, err)
	}

	for _, param := range params {
		if !strings.HasPrefix(param.Name, r.FlatPrefix) {
			continue
		}
		settings.SetIfEmpty(strings.TrimPrefix(param.Name, r.FlatPrefix), param.Value)
	}

	if len(invalid) > 0 {
		r.Logger.WithFields(logrus.Fields{
			"operation":  "resolveByName",
			"parameters": invalid,
		}).Warn("Parameters not found in Parameter Store")
	}

	return nil
}
