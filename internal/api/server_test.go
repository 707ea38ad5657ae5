package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waabox/devopswatch/internal/api"
	"github.com/waabox/devopswatch/internal/domain"
	"github.com/waabox/devopswatch/internal/poller"
)

var testSystems = []domain.DevOpsSystem{
	{ID: "gh", Kind: "github", Tenant: "acme", ObservedAutomations: []domain.ObservedAutomation{{RepositoryName: "api"}, {RepositoryName: "web"}}},
	{ID: "gl", Kind: "gitlab", Tenant: "group"},
}

type fakeRefresher struct {
	called bool
}

func (f *fakeRefresher) PollOnce(context.Context) []domain.Snapshot {
	f.called = true
	return []domain.Snapshot{{SystemID: "gh"}}
}

func newServer(t *testing.T, refresh api.Refresher) *api.Server {
	t.Helper()
	store := poller.NewSnapshotStore()
	store.Put(domain.Snapshot{
		SystemID:  "gh",
		Kind:      "github",
		FetchedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Statuses: []domain.StatusInformation{
			{RepositoryName: "acme/api", ID: "github_7", Status: domain.StatusSuccess},
			{RepositoryName: "web", Status: domain.StatusUnknown},
		},
	})
	return api.NewServer(testSystems, store, refresh, zerolog.Nop())
}

func do(t *testing.T, s *api.Server, method, target string) (int, []byte) {
	t.Helper()
	resp, err := s.App().Test(httptest.NewRequest(method, target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestHealth(t *testing.T) {
	code, body := do(t, newServer(t, nil), http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestListSystems(t *testing.T) {
	code, body := do(t, newServer(t, nil), http.MethodGet, "/api/v1/systems")
	require.Equal(t, http.StatusOK, code)

	var systems []domain.DevOpsSystem
	require.NoError(t, json.Unmarshal(body, &systems))
	assert.Equal(t, testSystems, systems)
}

func TestListStatuses(t *testing.T) {
	code, body := do(t, newServer(t, nil), http.MethodGet, "/api/v1/statuses")
	require.Equal(t, http.StatusOK, code)

	var snaps []domain.Snapshot
	require.NoError(t, json.Unmarshal(body, &snaps))
	require.Len(t, snaps, 1)
	assert.Len(t, snaps[0].Statuses, 2)
	assert.Equal(t, domain.StatusSuccess, snaps[0].Statuses[0].Status)
}

func TestListStatuses_FilterByStatus(t *testing.T) {
	s := newServer(t, nil)

	code, body := do(t, s, http.MethodGet, "/api/v1/statuses?status=unknown")
	require.Equal(t, http.StatusOK, code)
	var snaps []domain.Snapshot
	require.NoError(t, json.Unmarshal(body, &snaps))
	require.Len(t, snaps[0].Statuses, 1)
	assert.Equal(t, "web", snaps[0].Statuses[0].RepositoryName)

	// the stored snapshot is not altered by filtering
	code, body = do(t, s, http.MethodGet, "/api/v1/statuses")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &snaps))
	assert.Len(t, snaps[0].Statuses, 2)

	code, _ = do(t, s, http.MethodGet, "/api/v1/statuses?status=broken")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSystemStatuses(t *testing.T) {
	s := newServer(t, nil)

	code, body := do(t, s, http.MethodGet, "/api/v1/systems/gh/statuses")
	require.Equal(t, http.StatusOK, code)
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.Equal(t, "gh", snap.SystemID)
	assert.Equal(t, "github_7", snap.Statuses[0].ID)

	code, body = do(t, s, http.MethodGet, "/api/v1/systems/nope/statuses")
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"error":"unknown system nope"}`, string(body))

	code, _ = do(t, s, http.MethodGet, "/api/v1/systems/gl/statuses")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestRefresh(t *testing.T) {
	code, _ := do(t, newServer(t, nil), http.MethodPost, "/api/v1/refresh")
	assert.Equal(t, http.StatusNotFound, code)

	r := &fakeRefresher{}
	code, body := do(t, newServer(t, r), http.MethodPost, "/api/v1/refresh")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, r.called)
	assert.Contains(t, string(body), `"system_id":"gh"`)
}
