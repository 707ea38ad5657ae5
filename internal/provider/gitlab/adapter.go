package gitlab

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/waabox/devopswatch/internal/domain"
	"github.com/waabox/devopswatch/internal/provider"
	"github.com/waabox/devopswatch/internal/secret"
)

const (
	// Kind is the DevOps system kind served by this adapter.
	Kind = "gitlab"
	// ServerType tags every record produced by this adapter.
	ServerType = "Gitlab"

	idPrefix       = "gitlab_"
	defaultBaseURL = "https://gitlab.com"
	maxBodyBytes   = 10 << 20
)

// Adapter implements domain.StatusProvider for GitLab CI.
type Adapter struct {
	secrets   secret.Store
	client    *http.Client
	userAgent string
	collector *provider.Collector
}

// Ensure Adapter fully implements domain.StatusProvider.
var _ domain.StatusProvider = (*Adapter)(nil)

// NewAdapter creates a GitLab CI adapter.
// A system with an empty server URL targets gitlab.com.
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

// FetchStatuses returns the latest pipeline of every ref of every observed
// project, or an Unknown record for each project that could not be read.
func (a *Adapter) FetchStatuses(ctx context.Context, system domain.DevOpsSystem) []domain.StatusInformation {
	return a.collector.Collect(ctx, system)
}

// PipelinesURL returns the "list project pipelines" endpoint for an automation.
func PipelinesURL(system domain.DevOpsSystem, automation domain.ObservedAutomation) string {
	base := strings.TrimRight(system.ServerURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	apiURL := fmt.Sprintf("%s/api/v4/projects/%s/pipelines", base, url.PathEscape(projectPath(system, automation)))
	if automation.Branch != "" {
		apiURL += "?" + url.Values{"ref": {automation.Branch}}.Encode()
	}
	return apiURL
}

func projectPath(system domain.DevOpsSystem, automation domain.ObservedAutomation) string {
	if system.Tenant == "" {
		return automation.RepositoryName
	}
	return system.Tenant + "/" + automation.RepositoryName
}

func (a *Adapter) fetch(ctx context.Context, system domain.DevOpsSystem, automation domain.ObservedAutomation) ([]domain.StatusInformation, error) {
	token, err := a.secrets.Resolve(ctx, system.ID)
	if err != nil {
		return nil, fmt.Errorf("resolving credential: %w", err)
	}
	var runs []*gitLabPipeline
	if err := a.get(ctx, PipelinesURL(system, automation), token, &runs); err != nil {
		return nil, err
	}
	return normalize(projectPath(system, automation), automation.RepositoryName, runs), nil
}

func (a *Adapter) get(ctx context.Context, apiURL, token string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("gitlab API error: %s: %w", resp.Status, domain.ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("gitlab API error: %s: %w", resp.Status, domain.ErrUnexpectedStatus)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(target); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

type gitLabPipeline struct {
	ID        int64  `json:"id"`
	IID       int    `json:"iid"`
	Ref       string `json:"ref"`
	SHA       string `json:"sha"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// normalize keeps the first listed pipeline per ref. GitLab lists pipelines
// newest first, so that is the latest one.
func normalize(project, shortName string, runs []*gitLabPipeline) []domain.StatusInformation {
	seen := make(map[string]struct{}, len(runs))
	result := make([]domain.StatusInformation, 0, len(runs))
	for _, r := range runs {
		if r == nil {
			continue
		}
		if _, dup := seen[r.Ref]; dup {
			continue
		}
		seen[r.Ref] = struct{}{}
		result = append(result, r.toStatus(project, shortName))
	}
	return result
}

func (r *gitLabPipeline) toStatus(project, shortName string) domain.StatusInformation {
	number := r.IID
	info := domain.StatusInformation{
		ServerType:     ServerType,
		RepositoryName: project,
		ShortName:      shortName,
		Branch:         r.Ref,
		BuildNumber:    &number,
		WorkflowTitle:  "pipeline #" + strconv.Itoa(r.IID),
		ID:             idPrefix + project + "@" + r.Ref,
		Status:         mapGitLabStatus(r.Status),
	}
	if created, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
		info.BuildTime = &created
	}
	return info
}

// mapGitLabStatus follows the same closed mapping as GitHub: only a confirmed
// success or failure is reported, everything else stays Unknown.
func mapGitLabStatus(status string) domain.Status {
	switch status {
	case "success":
		return domain.StatusSuccess
	case "failed":
		return domain.StatusFail
	default:
		return domain.StatusUnknown
	}
}
