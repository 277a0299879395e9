package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcdevops/geds-sync/modules/directory/domain"
	"github.com/gcdevops/geds-sync/modules/directory/services"
	"github.com/gcdevops/geds-sync/pkg/httpapi"
	"github.com/gcdevops/geds-sync/pkg/logging"
	"github.com/gcdevops/geds-sync/pkg/metrics"
	"github.com/gcdevops/geds-sync/pkg/middleware"
	"github.com/gcdevops/geds-sync/pkg/server"
)

type staticSource struct{ ds domain.Dataset }

func (s staticSource) Load(context.Context) (domain.Dataset, error) { return s.ds, nil }

func snapshot(t *testing.T, m *metrics.SyncMetrics) *services.Prepared {
	t.Helper()
	mapping := domain.DefaultColumnMapping()
	pos := make(map[string]int, len(mapping.Aliases))
	for i, a := range mapping.Aliases {
		pos[a] = i
	}
	rows := [][]string{
		{"Dept A", "Min A", "Team X", "Équipe X", "Dept A: Branch 1: Team X", "Min A: Direction 1: Équipe X"},
		{"Dept A", "Min A", "Branch 2", "Direction 2", "Dept A: Branch 2", "Min A: Direction 2"},
		{"Dept B", "Min B", "Unit (old)", "Unité", "Dept B: Unit", "Min B: Unité"},
	}
	ds := domain.Dataset{Header: mapping.Keep}
	for i, r := range rows {
		rec := make([]string, len(mapping.Keep))
		rec[pos[domain.ColLastName]] = fmt.Sprintf("Person%d", i)
		rec[pos[domain.ColDepartmentEN]] = r[0]
		rec[pos[domain.ColDepartmentFR]] = r[1]
		rec[pos[domain.ColOrgNameEN]] = r[2]
		rec[pos[domain.ColOrgNameFR]] = r[3]
		rec[pos[domain.ColOrgStructureEN]] = r[4]
		rec[pos[domain.ColOrgStructureFR]] = r[5]
		ds.Records = append(ds.Records, rec)
	}

	svc := services.NewSyncService(staticSource{ds: ds}, nil, nil, mapping,
		services.NewOrgChartService(7, ":", m), m, nil)
	prepared, err := svc.Prepare(context.Background())
	require.NoError(t, err)
	return prepared
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	m := metrics.NewSyncMetrics()
	prepared := snapshot(t, m)
	srv := server.NewHTTPServer(
		[]server.Controller{
			NewDirectoryController(prepared),
			NewOpsController(prepared, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), m.Registry),
		},
		nil,
		httpapi.NotFound(),
		httpapi.MethodNotAllowed(),
	)
	srv.Middlewares = append(srv.Middlewares, middleware.WithLogger(logging.Discard()))
	return srv.Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestGetChart(t *testing.T) {
	h := newTestServer(t)

	rec := get(t, h, "/api/v1/charts/en?department=Dept%20A")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t,
		`{"name":"Dept A","_children":[{"name":"Branch 1","_children":[{"name":"Team X","org_id":"1"}]},{"name":"Branch 2","org_id":"0"}]}`,
		rec.Body.String(),
	)

	rec = get(t, h, "/api/v1/charts/fr")
	require.Equal(t, http.StatusOK, rec.Code)
	var forest []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &forest))
	require.Len(t, forest, 2)
	assert.Equal(t, "Min A", forest[0]["name"])

	rec = get(t, h, "/api/v1/charts/de")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), httpapi.CodeInvalidQuery)
}

func TestGetUnmatched(t *testing.T) {
	h := newTestServer(t)

	rec := get(t, h, "/api/v1/charts/en/unmatched")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"root":"Dept B","name":"Unit","path":[0]}]`, rec.Body.String())

	rec = get(t, h, "/api/v1/charts/fr/unmatched")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetPath(t *testing.T) {
	h := newTestServer(t)

	rec := get(t, h, "/api/v1/paths?department=Dept%20A&name=Team%20X")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"department":"Dept A","name":"Team X","path":[0,0],"found":true}`, rec.Body.String())

	rec = get(t, h, "/api/v1/paths?department=Dept%20A&name=Nope")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"department":"Dept A","name":"Nope","path":null,"found":false}`, rec.Body.String())

	rec = get(t, h, "/api/v1/paths?department=Dept%20Z&name=Team%20X")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, h, "/api/v1/paths?department=Dept%20A")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrganization(t *testing.T) {
	h := newTestServer(t)

	rec := get(t, h, "/api/v1/organizations/1")
	require.Equal(t, http.StatusOK, rec.Code)
	var org map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &org))
	assert.Equal(t, "Team X", org["org_name_en"])
	assert.Equal(t, []any{0.0, 0.0}, org["org_chart_path"])

	rec = get(t, h, "/api/v1/organizations/2")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &org))
	assert.Nil(t, org["org_chart_path"])

	rec = get(t, h, "/api/v1/organizations/99")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetDepartments(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/v1/departments")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`[{"dept_id":0,"department_en":"Dept A","department_fr":"Min A"},{"dept_id":1,"department_en":"Dept B","department_fr":"Min B"}]`,
		rec.Body.String(),
	)
}

func TestOps(t *testing.T) {
	h := newTestServer(t)

	rec := get(t, h, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","built_at":"2024-03-01T00:00:00Z","employees":3,"organizations":3}`, rec.Body.String())

	rec = get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "geds_orgchart_nodes")
}

func TestFallbacks(t *testing.T) {
	h := newTestServer(t)

	rec := get(t, h, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), httpapi.CodeNotFound)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
