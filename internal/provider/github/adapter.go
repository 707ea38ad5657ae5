package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/waabox/devopswatch/internal/domain"
	"github.com/waabox/devopswatch/internal/provider"
	"github.com/waabox/devopswatch/internal/secret"
)

const (
	// Kind is the DevOps system kind served by this adapter.
	Kind = "github"
	// ServerType tags every record produced by this adapter.
	ServerType = "Github"

	idPrefix       = "github_"
	apiVersion     = "2022-11-28"
	defaultBaseURL = "https://api.github.com"
	maxBodyBytes   = 10 << 20
)

// Adapter implements domain.StatusProvider for GitHub Actions.
type Adapter struct {
	secrets   secret.Store
	client    *http.Client
	userAgent string
	collector *provider.Collector
}

// Ensure Adapter implements domain.StatusProvider.
var _ domain.StatusProvider = (*Adapter)(nil)

// NewAdapter creates a GitHub Actions adapter.
// secrets resolves the bearer token of a system by its ID.
func NewAdapter(secrets secret.Store, opts provider.Options) *Adapter {
	opts = opts.WithDefaults()
	if secrets == nil {
		secrets = secret.MapStore{}
	}
	a := &Adapter{
		secrets:   secrets,
		client:    opts.HTTPClient,
		userAgent: opts.UserAgent,
	}
	a.collector = provider.NewCollector(ServerType, a.fetch, opts)
	return a
}

// FetchStatuses returns the latest run of every workflow of every observed
// repository, or an Unknown record for each repository that could not be read.
func (a *Adapter) FetchStatuses(ctx context.Context, system domain.DevOpsSystem) []domain.StatusInformation {
	return a.collector.Collect(ctx, system)
}

// RunsURL returns the "list workflow runs" endpoint for an automation.
// The branch filter is added only when the automation names a branch.
func RunsURL(system domain.DevOpsSystem, automation domain.ObservedAutomation) string {
	base := strings.TrimRight(system.ServerURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	runsURL := fmt.Sprintf("%s/repos/%s/%s/actions/runs", base, system.Tenant, automation.RepositoryName)
	if automation.Branch != "" {
		runsURL += "?" + url.Values{"branch": {automation.Branch}}.Encode()
	}
	return runsURL
}

func (a *Adapter) fetch(ctx context.Context, system domain.DevOpsSystem, automation domain.ObservedAutomation) ([]domain.StatusInformation, error) {
	token, err := a.secrets.Resolve(ctx, system.ID)
	if err != nil {
		return nil, fmt.Errorf("resolving credential: %w", err)
	}
	var payload WorkflowRunResponse
	if err := a.get(ctx, RunsURL(system, automation), token, &payload); err != nil {
		return nil, err
	}
	if payload.TotalCount <= 0 {
		return nil, domain.ErrNoRuns
	}
	return Normalize(payload.WorkflowRuns), nil
}

func (a *Adapter) get(ctx context.Context, apiURL, token string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("github API error: %s: %w", resp.Status, domain.ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("github API error: %s: %w", resp.Status, domain.ErrUnexpectedStatus)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(target); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
