package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/firecad-etl/internal/adapter/http"
	"github.com/couchcryptid/firecad-etl/internal/domain"
)

type mockBackend struct {
	readyErr   error
	snap       domain.Snapshot
	hasSnap    bool
	refreshErr error
	refreshes  int

	readyDeadline bool
}

var _ sharedobs.ReadinessChecker = (*mockBackend)(nil)

func (m *mockBackend) CheckReadiness(ctx context.Context) error {
	_, m.readyDeadline = ctx.Deadline()
	return m.readyErr
}

func (m *mockBackend) Latest() (domain.Snapshot, bool) { return m.snap, m.hasSnap }

func (m *mockBackend) Refresh(_ context.Context) (domain.Snapshot, error) {
	m.refreshes++
	if m.refreshErr != nil {
		return domain.Snapshot{}, m.refreshErr
	}
	m.hasSnap = true
	return m.snap, nil
}

var fetchedAt = time.Date(2024, 4, 26, 21, 15, 0, 0, time.UTC)

func sampleSnapshot() domain.Snapshot {
	return domain.Snapshot{
		FetchedAt: fetchedAt,
		Strategy:  "standard",
		Incidents: []domain.Incident{
			{ID: "north-1", Section: "NORTH", TimeReceived: "21:09", IncidentType: "MEDICAL", Address: "NW 97TH ST"},
			{ID: "north-2", Section: "NORTH", TimeReceived: "21:13", IncidentType: "FIRE", Address: "NW 27TH AVE"},
			{ID: "south-1", Section: "SOUTH", TimeReceived: "21:20", IncidentType: "MEDICAL", Address: "SW 8TH ST"},
		},
		Diagnostics: domain.Diagnostics{Sections: 2, Groups: 2, Rows: 15},
	}
}

func newTestServer(b *mockBackend) *httpadapter.Server {
	return httpadapter.NewServer(":0", b, slog.Default())
}

func serve(t *testing.T, srv *httpadapter.Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthzReturns200(t *testing.T) {
	rec := serve(t, newTestServer(&mockBackend{}), http.MethodGet, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := serve(t, newTestServer(&mockBackend{}), http.MethodGet, "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", decode(t, rec)["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := serve(t, newTestServer(&mockBackend{readyErr: fmt.Errorf("not ready yet")}), http.MethodGet, "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "not ready yet", body["error"])
}

func TestReadyzBoundsReadinessCheck(t *testing.T) {
	b := &mockBackend{}
	rec := serve(t, newTestServer(b), http.MethodGet, "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, b.readyDeadline, "readiness check runs under a deadline")
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serve(t, newTestServer(&mockBackend{}), http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestIncidents_All(t *testing.T) {
	srv := newTestServer(&mockBackend{snap: sampleSnapshot(), hasSnap: true})
	rec := serve(t, srv, http.MethodGet, "/incidents")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		FetchedAt time.Time         `json:"fetched_at"`
		Strategy  string            `json:"strategy"`
		NoData    bool              `json:"no_data"`
		Count     int               `json:"count"`
		Incidents []domain.Incident `json:"incidents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, fetchedAt.Equal(body.FetchedAt))
	assert.Equal(t, "standard", body.Strategy)
	assert.False(t, body.NoData)
	assert.Equal(t, 3, body.Count)
	assert.Equal(t, sampleSnapshot().Incidents, body.Incidents)
}

func TestIncidents_Filters(t *testing.T) {
	srv := newTestServer(&mockBackend{snap: sampleSnapshot(), hasSnap: true})

	tests := []struct {
		query string
		want  int
	}{
		{"?section=NORTH", 2},
		{"?section=All&type=MEDICAL", 2},
		{"?section=NORTH&type=MEDICAL", 1},
		{"?type=ALARM", 0},
		{"?section=north", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := serve(t, srv, http.MethodGet, "/incidents"+tt.query)
			require.Equal(t, http.StatusOK, rec.Code)

			body := decode(t, rec)
			assert.InDelta(t, tt.want, body["count"], 0)
			assert.Len(t, body["incidents"], tt.want)
		})
	}
}

func TestIncidents_NoSnapshot(t *testing.T) {
	rec := serve(t, newTestServer(&mockBackend{}), http.MethodGet, "/incidents")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["no_data"])
	assert.NotContains(t, body, "fetched_at")
	assert.Equal(t, []any{}, body["incidents"])
}

func TestIncidentsSummary(t *testing.T) {
	srv := newTestServer(&mockBackend{snap: sampleSnapshot(), hasSnap: true})
	rec := serve(t, srv, http.MethodGet, "/incidents/summary")

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		NoData  bool           `json:"no_data"`
		Summary domain.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.NoData)
	assert.Equal(t, 3, body.Summary.Total)
	assert.Equal(t, []domain.Count{{Name: "NORTH", Count: 2}, {Name: "SOUTH", Count: 1}}, body.Summary.BySection)
	assert.Equal(t, []domain.Count{{Name: "MEDICAL", Count: 2}, {Name: "FIRE", Count: 1}}, body.Summary.TopTypes)
}

func TestRefresh(t *testing.T) {
	b := &mockBackend{snap: sampleSnapshot()}
	srv := newTestServer(b)

	rec := serve(t, srv, http.MethodPost, "/refresh")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, b.refreshes)
	body := decode(t, rec)
	assert.InDelta(t, 3, body["count"], 0)
	assert.Equal(t, "standard", body["strategy"])

	rec = serve(t, srv, http.MethodGet, "/incidents")
	assert.InDelta(t, 3, decode(t, rec)["count"], 0)
}

func TestRefresh_Failure(t *testing.T) {
	b := &mockBackend{refreshErr: fmt.Errorf("extract: connection refused")}
	rec := serve(t, newTestServer(b), http.MethodPost, "/refresh")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "refresh failed", body["status"])
	assert.Contains(t, body["error"], "connection refused")
}

func TestRefresh_RequiresPost(t *testing.T) {
	b := &mockBackend{snap: sampleSnapshot()}
	rec := serve(t, newTestServer(b), http.MethodGet, "/refresh")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Zero(t, b.refreshes)
}
