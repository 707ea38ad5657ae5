package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const templateFormat = `# devopswatch configuration

concurrency = 4
request_timeout = "15s"
poll_interval = "1m"
# env_file = ".env"
# listen = ":8080"

# Tokens may also be supplied as %s<ID> environment variables.
[secrets]
# "%s" = "ghp_..."

# [publish]
# redis_url = "redis://localhost:6379/0"
# redis_ttl = "10m"
# kafka_brokers = ["localhost:9092"]
# kafka_topic = "devopswatch.snapshots"

[[systems]]
id = "%s"
kind = "github"
server_url = "https://api.github.com"
tenant = "my-org"

  [[systems.automations]]
  repository = "my-repo"
  branch = "main"
  alias = "My Repo"
`

// Template renders a starter configuration with a freshly generated system ID.
func Template(tokenEnvPrefix string) string {
	id := uuid.NewString()
	return fmt.Sprintf(templateFormat, tokenEnvPrefix, id, id)
}

// WriteTemplate writes Template to path, creating parent directories as needed.
// An existing file is never overwritten. Permissions on the written file are 0600.
func WriteTemplate(path, tokenEnvPrefix string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("opening config file: %w", err)
	}
	if _, err := f.WriteString(Template(tokenEnvPrefix)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
