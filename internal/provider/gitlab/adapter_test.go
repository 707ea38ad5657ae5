package gitlab_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waabox/devopswatch/internal/domain"
	"github.com/waabox/devopswatch/internal/provider"
	gitlabprovider "github.com/waabox/devopswatch/internal/provider/gitlab"
	"github.com/waabox/devopswatch/internal/secret"
)

func newSystem(serverURL string, automations ...domain.ObservedAutomation) domain.DevOpsSystem {
	return domain.DevOpsSystem{
		ID:                  "gl-1",
		Kind:                "gitlab",
		ServerURL:           serverURL,
		Tenant:              "mygroup",
		ObservedAutomations: automations,
	}
}

func newAdapter(srv *httptest.Server) *gitlabprovider.Adapter {
	return gitlabprovider.NewAdapter(secret.MapStore{"gl-1": "glpat-token"}, provider.Options{HTTPClient: srv.Client()})
}

func TestFetchStatuses_ReturnsLatestPipelinePerRef(t *testing.T) {
	created := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	response := []map[string]interface{}{
		{"id": 903, "iid": 43, "ref": "main", "status": "failed", "created_at": created.Format(time.RFC3339)},
		{"id": 902, "iid": 42, "ref": "develop", "status": "running", "created_at": created.Format(time.RFC3339)},
		{"id": 901, "iid": 41, "ref": "main", "status": "success", "created_at": created.Format(time.RFC3339)},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.RequestURI == "/api/v4/projects/mygroup%2Fmyproject/pipelines" {
			assert.Equal(t, "Bearer glpat-token", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(response)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	got := newAdapter(srv).FetchStatuses(context.Background(),
		newSystem(srv.URL, domain.ObservedAutomation{RepositoryName: "myproject", Alias: "My Project"}))

	require.Len(t, got, 2)
	assert.Equal(t, "Gitlab", got[0].ServerType)
	assert.Equal(t, "mygroup/myproject", got[0].RepositoryName)
	assert.Equal(t, "myproject", got[0].ShortName)
	assert.Equal(t, "main", got[0].Branch)
	assert.Equal(t, 43, *got[0].BuildNumber)
	assert.Equal(t, created, *got[0].BuildTime)
	assert.Equal(t, "gitlab_mygroup/myproject@main", got[0].ID)
	assert.Equal(t, domain.StatusFail, got[0].Status)
	assert.Equal(t, "My Project", got[0].Alias)

	assert.Equal(t, "develop", got[1].Branch)
	assert.Equal(t, domain.StatusUnknown, got[1].Status)
}

func TestPipelinesURL(t *testing.T) {
	system := newSystem("https://gitlab.example.com/")
	u := gitlabprovider.PipelinesURL(system, domain.ObservedAutomation{RepositoryName: "myproject", Branch: "main"})
	assert.Equal(t, "https://gitlab.example.com/api/v4/projects/mygroup%2Fmyproject/pipelines?ref=main", u)

	u = gitlabprovider.PipelinesURL(domain.DevOpsSystem{}, domain.ObservedAutomation{RepositoryName: "team/app"})
	assert.Equal(t, "https://gitlab.com/api/v4/projects/team%2Fapp/pipelines", u)
}

func TestFetchStatuses_StatusMapping(t *testing.T) {
	tests := map[string]domain.Status{
		"success":  domain.StatusSuccess,
		"failed":   domain.StatusFail,
		"running":  domain.StatusUnknown,
		"pending":  domain.StatusUnknown,
		"canceled": domain.StatusUnknown,
		"skipped":  domain.StatusUnknown,
		"manual":   domain.StatusUnknown,
	}
	for status, want := range tests {
		t.Run(status, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				json.NewEncoder(w).Encode([]map[string]interface{}{{"id": 1, "iid": 1, "ref": "main", "status": status}})
			}))
			defer srv.Close()

			got := newAdapter(srv).FetchStatuses(context.Background(),
				newSystem(srv.URL, domain.ObservedAutomation{RepositoryName: "p"}))

			require.Len(t, got, 1)
			assert.Equal(t, want, got[0].Status)
		})
	}
}

func TestFetchStatuses_FailuresYieldUnknownRecord(t *testing.T) {
	automation := domain.ObservedAutomation{RepositoryName: "myproject", Branch: "main", Alias: "P"}
	want := provider.UnknownStatus("Gitlab", automation)

	handlers := map[string]http.HandlerFunc{
		"not found":      http.NotFound,
		"unauthorized":   func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusUnauthorized) },
		"malformed body": func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte(`[{"id":`)) },
		"object body":    func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte(`{"message":"404 Project Not Found"}`)) },
		"no pipelines":   func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte(`[]`)) },
	}
	for name, h := range handlers {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			got := newAdapter(srv).FetchStatuses(context.Background(), newSystem(srv.URL, automation))

			require.Len(t, got, 1)
			assert.Equal(t, want, got[0])
		})
	}
}
