package github

import (
	"strconv"

	"github.com/waabox/devopswatch/internal/domain"
)

// Normalize maps GitHub workflow runs onto canonical status records, keeping
// one record per workflow.
//
// The first run listed for a workflow wins. GitHub lists runs newest first, so
// this is the latest run; if a caller hands runs in another order the result is
// the first-seen run instead. Null entries and runs without a workflow id do
// not qualify and are skipped. Normalize is pure.
func Normalize(runs []*WorkflowRun) []domain.StatusInformation {
	seen := make(map[int64]struct{}, len(runs))
	latest := make([]*WorkflowRun, 0, len(runs))
	for _, run := range runs {
		if run == nil || run.WorkflowID == 0 {
			continue
		}
		if _, dup := seen[run.WorkflowID]; dup {
			continue
		}
		seen[run.WorkflowID] = struct{}{}
		latest = append(latest, run)
	}

	result := make([]domain.StatusInformation, 0, len(latest))
	for _, run := range latest {
		result = append(result, run.toStatus())
	}
	return result
}

func (r *WorkflowRun) toStatus() domain.StatusInformation {
	buildNumber := r.RunNumber
	info := domain.StatusInformation{
		ServerType:     ServerType,
		RepositoryName: r.Repository.FullName,
		ShortName:      r.Repository.Name,
		Branch:         r.HeadBranch,
		BuildNumber:    &buildNumber,
		WorkflowTitle:  r.Name,
		ID:             idPrefix + strconv.FormatInt(r.WorkflowID, 10),
		Status:         mapGitHubStatus(r.Status, r.Conclusion),
	}
	if r.CreatedAt != nil {
		created := *r.CreatedAt
		info.BuildTime = &created
	}
	return info
}

// mapGitHubStatus reports only a confirmed success or failure. Every other
// combination, including cancelled, skipped and timed_out, stays Unknown.
func mapGitHubStatus(status, conclusion string) domain.Status {
	if status != "completed" {
		return domain.StatusUnknown
	}
	switch conclusion {
	case "success":
		return domain.StatusSuccess
	case "failure":
		return domain.StatusFail
	}
	return domain.StatusUnknown
}
