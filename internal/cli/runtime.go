package cli

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/waabox/devopswatch/internal/config"
	"github.com/waabox/devopswatch/internal/provider"
	githubprovider "github.com/waabox/devopswatch/internal/provider/github"
	gitlabprovider "github.com/waabox/devopswatch/internal/provider/gitlab"
	"github.com/waabox/devopswatch/internal/secret"
)

// runtime is the wiring shared by the commands that talk to backends.
type runtime struct {
	cfg      config.Config
	registry *provider.Registry
	logger   zerolog.Logger
}

// loadRuntime reads and validates the configuration and builds the provider registry.
func (s *session) loadRuntime() (*runtime, error) {
	path := s.flags.Config
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	secrets, err := newSecretStore(cfg)
	if err != nil {
		return nil, err
	}
	registry := newRegistry(cfg, secrets, s.logger)
	if err := config.Validate(cfg, registry.Kinds()...); err != nil {
		return nil, err
	}
	s.logger.Debug().Str("config", path).Int("systems", len(cfg.Systems)).Msg("configuration loaded")
	return &runtime{cfg: cfg, registry: registry, logger: s.logger}, nil
}

// newSecretStore prefers tokens from the config file over the environment.
func newSecretStore(cfg config.Config) (secret.Store, error) {
	env, err := secret.NewEnvStore(cfg.EnvFile)
	if err != nil {
		return nil, err
	}
	return secret.Chain{secret.MapStore(cfg.Secrets), env}, nil
}

func newRegistry(cfg config.Config, secrets secret.Store, logger zerolog.Logger) *provider.Registry {
	opts := provider.Options{
		Concurrency:    cfg.ConcurrencyOrDefault(),
		RequestTimeout: cfg.RequestTimeoutOrDefault(),
		UserAgent:      cfg.UserAgentOrDefault(),
		Logger:         logger,
	}.WithDefaults()

	registry := provider.NewRegistry()
	registry.Register(githubprovider.Kind, githubprovider.NewAdapter(secrets, opts))
	registry.Register(gitlabprovider.Kind, gitlabprovider.NewAdapter(secrets, opts))
	return registry
}
