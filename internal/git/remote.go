// Package git reads the origin remote of a local checkout.
package git

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/waabox/devopswatch/internal/domain"
)

// Remote is a hosted repository parsed from a git remote URL.
type Remote struct {
	Host      string
	Owner     string
	Name      string
	RemoteURL string
}

// Kind returns the DevOps system kind serving the remote host.
// github.com maps to "github"; any other host is assumed to be a GitLab instance.
func (r Remote) Kind() string {
	if strings.EqualFold(r.Host, "github.com") {
		return "github"
	}
	return "gitlab"
}

// ServerURL returns the API base URL for the remote host.
func (r Remote) ServerURL() string {
	if r.Kind() == "github" {
		return "https://api.github.com"
	}
	return "https://" + r.Host
}

// System builds an ad-hoc DevOps system observing this single repository.
func (r Remote) System(id, branch string) domain.DevOpsSystem {
	return domain.DevOpsSystem{
		ID:        id,
		Kind:      r.Kind(),
		ServerURL: r.ServerURL(),
		Tenant:    r.Owner,
		ObservedAutomations: []domain.ObservedAutomation{{
			RepositoryName: r.Name,
			Branch:         branch,
			Alias:          r.Name,
		}},
	}
}

// DetectRepository reads the .git/config in the given directory and returns
// the Remote built from the origin remote URL.
func DetectRepository(dir string) (Remote, error) {
	configPath := filepath.Join(dir, ".git", "config")
	f, err := os.Open(configPath)
	if err != nil {
		return Remote{}, fmt.Errorf("could not open .git/config: %w", err)
	}
	defer f.Close()

	var inOrigin bool
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == `[remote "origin"]` {
			inOrigin = true
			continue
		}
		if inOrigin && strings.HasPrefix(line, "[") {
			break
		}
		if inOrigin && strings.HasPrefix(line, "url") {
			parts := strings.SplitN(line, "=", 2)
			if len(parts) == 2 {
				return ParseRemoteURL(strings.TrimSpace(parts[1]))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Remote{}, fmt.Errorf("reading .git/config: %w", err)
	}
	return Remote{}, errors.New("no origin remote found in .git/config")
}

// CurrentBranch returns the branch checked out in dir, or "" when HEAD is detached.
func CurrentBranch(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, ".git", "HEAD"))
	if err != nil {
		return "", fmt.Errorf("could not read .git/HEAD: %w", err)
	}
	head := strings.TrimSpace(string(data))
	branch, ok := strings.CutPrefix(head, "ref: refs/heads/")
	if !ok {
		return "", nil
	}
	return branch, nil
}

// ParseRemoteURL parses a git remote URL and returns a Remote.
// Supports HTTPS (https://github.com/owner/repo.git) and SSH (git@github.com:owner/repo.git).
// Nested GitLab groups stay in Owner (group/subgroup). RemoteURL preserves the input unchanged.
func ParseRemoteURL(rawURL string) (Remote, error) {
	normalized := strings.TrimSuffix(rawURL, ".git")

	var host, path string
	switch {
	case strings.HasPrefix(normalized, "git@"):
		trimmed := strings.TrimPrefix(normalized, "git@")
		parts := strings.SplitN(trimmed, ":", 2)
		if len(parts) != 2 {
			return Remote{}, fmt.Errorf("invalid SSH remote URL: %s", rawURL)
		}
		host, path = parts[0], parts[1]
	case strings.HasPrefix(normalized, "https://") || strings.HasPrefix(normalized, "http://"):
		withoutScheme := strings.TrimPrefix(normalized, "https://")
		withoutScheme = strings.TrimPrefix(withoutScheme, "http://")
		parts := strings.SplitN(withoutScheme, "/", 2)
		if len(parts) != 2 {
			return Remote{}, fmt.Errorf("invalid HTTPS remote URL: %s", rawURL)
		}
		host, path = parts[0], parts[1]
		if at := strings.LastIndex(host, "@"); at >= 0 {
			host = host[at+1:]
		}
	default:
		return Remote{}, fmt.Errorf("unsupported remote URL format: %s", rawURL)
	}

	idx := strings.LastIndex(path, "/")
	if idx <= 0 || idx == len(path)-1 {
		return Remote{}, fmt.Errorf("invalid remote URL path: %s", path)
	}
	return Remote{
		Host:      host,
		Owner:     path[:idx],
		Name:      path[idx+1:],
		RemoteURL: rawURL,
	}, nil
}
