package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"

	"github.com/waabox/devopswatch/internal/domain"
)

// AutomationConfig describes one observed repository.
type AutomationConfig struct {
	Repository string `mapstructure:"repository"`
	Branch     string `mapstructure:"branch"`
	Alias      string `mapstructure:"alias"`
}

// SystemConfig describes one CI backend instance.
type SystemConfig struct {
	ID          string             `mapstructure:"id"`
	Kind        string             `mapstructure:"kind"`
	ServerURL   string             `mapstructure:"server_url"`
	Tenant      string             `mapstructure:"tenant"`
	Automations []AutomationConfig `mapstructure:"automations"`
}

// PublishConfig configures where poll snapshots are published. Empty values disable a sink.
type PublishConfig struct {
	RedisURL     string        `mapstructure:"redis_url"`
	RedisTTL     time.Duration `mapstructure:"redis_ttl"`
	KafkaBrokers []string      `mapstructure:"kafka_brokers"`
	KafkaTopic   string        `mapstructure:"kafka_topic"`
}

// Config holds all devopswatch configuration.
type Config struct {
	Concurrency    int               `mapstructure:"concurrency"`
	RequestTimeout time.Duration     `mapstructure:"request_timeout"`
	PollInterval   time.Duration     `mapstructure:"poll_interval"`
	UserAgent      string            `mapstructure:"user_agent"`
	EnvFile        string            `mapstructure:"env_file"`
	Listen         string            `mapstructure:"listen"`
	Secrets        map[string]string `mapstructure:"secrets"`
	Publish        PublishConfig     `mapstructure:"publish"`
	Systems        []SystemConfig    `mapstructure:"systems"`
}

const (
	defaultConcurrency    = 4
	defaultRequestTimeout = 15 * time.Second
	defaultPollInterval   = time.Minute
	defaultUserAgent      = "devopswatch"
	defaultListen         = ":8080"
	defaultRedisTTL       = 10 * time.Minute
	defaultKafkaTopic     = "devopswatch.snapshots"
)

// ConcurrencyOrDefault returns Concurrency if set, otherwise defaultConcurrency.
func (c Config) ConcurrencyOrDefault() int {
	if c.Concurrency > 0 {
		return c.Concurrency
	}
	return defaultConcurrency
}

// RequestTimeoutOrDefault returns RequestTimeout if set, otherwise defaultRequestTimeout.
func (c Config) RequestTimeoutOrDefault() time.Duration {
	if c.RequestTimeout > 0 {
		return c.RequestTimeout
	}
	return defaultRequestTimeout
}

// PollIntervalOrDefault returns PollInterval if set, otherwise defaultPollInterval.
func (c Config) PollIntervalOrDefault() time.Duration {
	if c.PollInterval > 0 {
		return c.PollInterval
	}
	return defaultPollInterval
}

// UserAgentOrDefault returns UserAgent if set, otherwise defaultUserAgent.
func (c Config) UserAgentOrDefault() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}
	return defaultUserAgent
}

// ListenOrDefault returns Listen if set, otherwise defaultListen.
func (c Config) ListenOrDefault() string {
	if c.Listen != "" {
		return c.Listen
	}
	return defaultListen
}

// RedisTTLOrDefault returns Publish.RedisTTL if set, otherwise defaultRedisTTL.
func (c Config) RedisTTLOrDefault() time.Duration {
	if c.Publish.RedisTTL > 0 {
		return c.Publish.RedisTTL
	}
	return defaultRedisTTL
}

// KafkaTopicOrDefault returns Publish.KafkaTopic if set, otherwise defaultKafkaTopic.
func (c Config) KafkaTopicOrDefault() string {
	if c.Publish.KafkaTopic != "" {
		return c.Publish.KafkaTopic
	}
	return defaultKafkaTopic
}

// DevOpsSystems converts the configured systems into domain descriptors, in file order.
func (c Config) DevOpsSystems() []domain.DevOpsSystem {
	systems := make([]domain.DevOpsSystem, 0, len(c.Systems))
	for _, s := range c.Systems {
		systems = append(systems, s.toDomain())
	}
	return systems
}

// System returns the configured system with the given ID.
func (c Config) System(id string) (domain.DevOpsSystem, bool) {
	for _, s := range c.Systems {
		if s.ID == id {
			return s.toDomain(), true
		}
	}
	return domain.DevOpsSystem{}, false
}

func (s SystemConfig) toDomain() domain.DevOpsSystem {
	automations := make([]domain.ObservedAutomation, 0, len(s.Automations))
	for _, a := range s.Automations {
		automations = append(automations, domain.ObservedAutomation{
			RepositoryName: a.Repository,
			Branch:         a.Branch,
			Alias:          a.Alias,
		})
	}
	return domain.DevOpsSystem{
		ID:                  s.ID,
		Kind:                s.Kind,
		ServerURL:           s.ServerURL,
		Tenant:              s.Tenant,
		ObservedAutomations: automations,
	}
}

// LoadFrom reads configuration from the given TOML file path.
// If the file does not exist, it returns an empty config without error.
// Environment variables always take precedence over file values:
//   - DEVOPSWATCH_CONCURRENCY     overrides concurrency
//   - DEVOPSWATCH_REQUEST_TIMEOUT overrides request_timeout
//   - DEVOPSWATCH_POLL_INTERVAL   overrides poll_interval
func LoadFrom(path string) (Config, error) {
	var raw map[string]interface{}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &raw); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	var cfg Config
	if err := decode(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultConfigPath returns the default path for the devopswatch config file.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "devopswatch", "config.toml")
}

func decode(raw map[string]interface{}, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		ErrorUnused: true,
		Result:      cfg,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("DEVOPSWATCH_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DEVOPSWATCH_CONCURRENCY: %w", err)
		}
		cfg.Concurrency = n
	}
	if v := os.Getenv("DEVOPSWATCH_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("DEVOPSWATCH_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	if v := os.Getenv("DEVOPSWATCH_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("DEVOPSWATCH_POLL_INTERVAL: %w", err)
		}
		cfg.PollInterval = d
	}
	return nil
}
