package github

import "time"

// WorkflowRunResponse is the raw GitHub API response of the "list workflow runs
// for a repository" endpoint. A zero TotalCount means nothing to report,
// whatever WorkflowRuns holds.
type WorkflowRunResponse struct {
	TotalCount   int            `json:"total_count"`
	WorkflowRuns []*WorkflowRun `json:"workflow_runs"`
}

// WorkflowRun is the raw GitHub API response shape for a workflow run.
// A null conclusion (run still in progress) decodes as the empty string.
type WorkflowRun struct {
	WorkflowID int64         `json:"workflow_id"`
	RunNumber  int           `json:"run_number"`
	CreatedAt  *time.Time    `json:"created_at"`
	Name       string        `json:"name"`
	HeadBranch string        `json:"head_branch"`
	Status     string        `json:"status"`
	Conclusion string        `json:"conclusion"`
	Repository RunRepository `json:"repository"`
}

// RunRepository is the repository sub-record embedded in a workflow run.
type RunRepository struct {
	FullName string `json:"full_name"`
	Name     string `json:"name"`
}
