package github_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waabox/devopswatch/internal/domain"
	githubprovider "github.com/waabox/devopswatch/internal/provider/github"
)

func run(workflowID int64, runNumber int, status, conclusion string) *githubprovider.WorkflowRun {
	created := time.Date(2026, 3, 1, 12, 0, runNumber, 0, time.UTC)
	return &githubprovider.WorkflowRun{
		WorkflowID: workflowID,
		RunNumber:  runNumber,
		CreatedAt:  &created,
		Name:       "CI",
		HeadBranch: "main",
		Status:     status,
		Conclusion: conclusion,
		Repository: githubprovider.RunRepository{FullName: "org/a", Name: "a"},
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	assert.Empty(t, githubprovider.Normalize(nil))
	assert.Empty(t, githubprovider.Normalize([]*githubprovider.WorkflowRun{}))
}

func TestNormalize_KeepsFirstListedRunPerWorkflow(t *testing.T) {
	runs := []*githubprovider.WorkflowRun{
		run(1, 30, "completed", "success"),
		run(2, 12, "completed", "failure"),
		run(1, 29, "completed", "failure"),
		run(1, 28, "completed", "failure"),
	}

	got := githubprovider.Normalize(runs)

	require.Len(t, got, 2)
	assert.Equal(t, "github_1", got[0].ID)
	require.NotNil(t, got[0].BuildNumber)
	assert.Equal(t, 30, *got[0].BuildNumber, "first-listed W1 run must win")
	assert.Equal(t, domain.StatusSuccess, got[0].Status)
	assert.Equal(t, "github_2", got[1].ID)
	assert.Equal(t, domain.StatusFail, got[1].Status)
}

// GitHub lists runs newest first. Normalize trusts that order: if an older run
// is listed first it is the one reported.
func TestNormalize_DependsOnBackendOrdering(t *testing.T) {
	runs := []*githubprovider.WorkflowRun{
		run(7, 1, "completed", "failure"),
		run(7, 2, "completed", "success"),
	}

	got := githubprovider.Normalize(runs)

	require.Len(t, got, 1)
	assert.Equal(t, 1, *got[0].BuildNumber)
	assert.Equal(t, domain.StatusFail, got[0].Status)
}

func TestNormalize_SkipsNullEntries(t *testing.T) {
	got := githubprovider.Normalize([]*githubprovider.WorkflowRun{nil, run(3, 1, "queued", ""), nil})

	require.Len(t, got, 1)
	assert.Equal(t, "github_3", got[0].ID)
}

func TestNormalize_SkipsRunsWithoutWorkflowID(t *testing.T) {
	assert.Empty(t, githubprovider.Normalize([]*githubprovider.WorkflowRun{{}}))

	got := githubprovider.Normalize([]*githubprovider.WorkflowRun{{RunNumber: 4}, run(5, 2, "completed", "success")})

	require.Len(t, got, 1)
	assert.Equal(t, "github_5", got[0].ID)
}

func TestNormalize_CopiesRunFields(t *testing.T) {
	r := run(42, 17, "completed", "success")
	r.HeadBranch = "release/1.2"
	r.Name = "Build & Test"

	got := githubprovider.Normalize([]*githubprovider.WorkflowRun{r})

	require.Len(t, got, 1)
	s := got[0]
	assert.Equal(t, "Github", s.ServerType)
	assert.Equal(t, "org/a", s.RepositoryName)
	assert.Equal(t, "a", s.ShortName)
	assert.Equal(t, "release/1.2", s.Branch)
	assert.Equal(t, 17, *s.BuildNumber)
	assert.Equal(t, *r.CreatedAt, *s.BuildTime)
	assert.Equal(t, "Build & Test", s.WorkflowTitle)
	assert.Equal(t, "github_42", s.ID)
	assert.Empty(t, s.Alias, "alias is set by the provider, not the normalizer")
}

func TestNormalize_MissingCreatedAtLeavesBuildTimeAbsent(t *testing.T) {
	r := run(1, 1, "completed", "success")
	r.CreatedAt = nil

	got := githubprovider.Normalize([]*githubprovider.WorkflowRun{r})

	require.Len(t, got, 1)
	assert.Nil(t, got[0].BuildTime)
}

func TestNormalize_StatusMapping(t *testing.T) {
	tests := []struct {
		status     string
		conclusion string
		want       domain.Status
	}{
		{"completed", "success", domain.StatusSuccess},
		{"completed", "failure", domain.StatusFail},
		{"in_progress", "", domain.StatusUnknown},
		{"queued", "", domain.StatusUnknown},
		{"completed", "cancelled", domain.StatusUnknown},
		{"completed", "skipped", domain.StatusUnknown},
		{"completed", "neutral", domain.StatusUnknown},
		{"completed", "timed_out", domain.StatusUnknown},
		{"in_progress", "success", domain.StatusUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.status+"/"+tt.conclusion, func(t *testing.T) {
			got := githubprovider.Normalize([]*githubprovider.WorkflowRun{run(1, 1, tt.status, tt.conclusion)})
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Status)
		})
	}
}

func TestNormalize_IsDeterministic(t *testing.T) {
	runs := []*githubprovider.WorkflowRun{
		run(5, 3, "completed", "success"),
		run(4, 2, "completed", "failure"),
		run(5, 1, "completed", "failure"),
		run(6, 1, "in_progress", ""),
	}

	assert.Equal(t, githubprovider.Normalize(runs), githubprovider.Normalize(runs))
}
