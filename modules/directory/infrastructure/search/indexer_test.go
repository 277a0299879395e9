package search

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcdevops/geds-sync/modules/directory/domain"
)

// fakeElastic answers the bulk API, rejecting any document whose id is in
// reject.
type fakeElastic struct {
	mu     sync.Mutex
	reject map[string]bool
	docs   map[string]map[string]json.RawMessage
}

func newFakeElastic(reject ...string) *fakeElastic {
	f := &fakeElastic{reject: map[string]bool{}, docs: map[string]map[string]json.RawMessage{}}
	for _, id := range reject {
		f.reject[id] = true
	}
	return f
}

func (f *fakeElastic) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	if !strings.HasSuffix(r.URL.Path, "/_bulk") {
		_, _ = w.Write([]byte(`{"version":{"number":"8.11.0","build_flavor":"default"},"tagline":"You Know, for Search"}`))
		return
	}
	index := strings.Trim(strings.TrimSuffix(r.URL.Path, "/_bulk"), "/")

	type meta struct {
		Index struct {
			ID    string `json:"_id"`
			Index string `json:"_index"`
		} `json:"index"`
	}
	var items []map[string]any
	hasErrors := false

	sc := bufio.NewScanner(r.Body)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		var m meta
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if !sc.Scan() {
			break
		}
		name := index
		if m.Index.Index != "" {
			name = m.Index.Index
		}
		id := m.Index.ID
		if f.reject[id] {
			hasErrors = true
			items = append(items, map[string]any{"index": map[string]any{
				"_index": name, "_id": id, "status": 400,
				"error": map[string]any{"type": "mapper_parsing_exception", "reason": "bad document"},
			}})
			continue
		}
		f.mu.Lock()
		if f.docs[name] == nil {
			f.docs[name] = map[string]json.RawMessage{}
		}
		f.docs[name][id] = append(json.RawMessage(nil), sc.Bytes()...)
		f.mu.Unlock()
		items = append(items, map[string]any{"index": map[string]any{"_index": name, "_id": id, "status": 201, "result": "created"}})
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"took": 1, "errors": hasErrors, "items": items})
}

func TestIndexer_IndexEmployees(t *testing.T) {
	fake := newFakeElastic("1")
	srv := httptest.NewServer(fake)
	defer srv.Close()

	x, err := NewIndexer(Options{URL: srv.URL, NumWorkers: 1})
	require.NoError(t, err)

	docs := []domain.EmployeeDocument{
		{EmployeeID: 0, FullName: "Jane Doe", OrgChartPath: "[0,0]", OrgID: "1"},
		{EmployeeID: 1, FullName: "Rick Roe"},
		{EmployeeID: 2, FullName: "Edna Poe", DepartmentFR: "Min A"},
	}
	stats, err := x.IndexEmployees(context.Background(), docs)
	require.NoError(t, err)
	assert.Equal(t, domain.IndexStats{Indexed: 2, Failed: 1}, stats)

	require.Contains(t, fake.docs, domain.EmployeeIndex)
	var got domain.EmployeeDocument
	require.NoError(t, json.Unmarshal(fake.docs[domain.EmployeeIndex]["0"], &got))
	assert.Equal(t, docs[0], got)
	assert.NotContains(t, fake.docs[domain.EmployeeIndex], "1")
}

func TestIndexer_IndexOrganizations(t *testing.T) {
	fake := newFakeElastic()
	srv := httptest.NewServer(fake)
	defer srv.Close()

	x, err := NewIndexer(Options{URL: srv.URL})
	require.NoError(t, err)

	stats, err := x.IndexOrganizations(context.Background(), []domain.OrganizationDocument{
		{OrgID: 4, OrgNameEN: "Team X", OrgChartPath: "[0,0]"},
		{OrgID: 7, OrgNameEN: "Branch 2"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.IndexStats{Indexed: 2}, stats)
	assert.Len(t, fake.docs[domain.OrganizationIndex], 2)
	assert.Contains(t, string(fake.docs[domain.OrganizationIndex]["4"]), `"org_chart_path":"[0,0]"`)
}

func TestIndexer_Empty(t *testing.T) {
	srv := httptest.NewServer(newFakeElastic())
	defer srv.Close()

	x, err := NewIndexer(Options{URL: srv.URL})
	require.NoError(t, err)
	stats, err := x.IndexOrganizations(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, stats)
}

func TestNewIndexer_RequiresURL(t *testing.T) {
	_, err := NewIndexer(Options{})
	require.Error(t, err)
}
