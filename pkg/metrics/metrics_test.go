package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncMetrics_Counters(t *testing.T) {
	m := NewSyncMetrics()
	m.RowsParsed.WithLabelValues("en").Add(10)
	m.RowsDropped.WithLabelValues("en").Add(3)
	m.UnmatchedLeaves.WithLabelValues("fr").Inc()
	m.ObserveStage("charts", time.Now().Add(-time.Second))

	assert.Equal(t, float64(10), testutil.ToFloat64(m.RowsParsed.WithLabelValues("en")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.RowsDropped.WithLabelValues("en")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.UnmatchedLeaves.WithLabelValues("fr")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.StageDuration))
}

func TestSyncMetrics_NilIsSafe(t *testing.T) {
	var m *SyncMetrics
	m.ObserveStage("x", time.Now())
	m.MarkSuccess(time.Now())
	require.NoError(t, m.Push(context.Background(), "http://unused", "job", ""))
}

func TestSyncMetrics_Push(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := NewSyncMetrics()
	m.MarkSuccess(time.Unix(1700000000, 0))

	require.NoError(t, m.Push(context.Background(), srv.URL, "geds_sync", "nightly"))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.True(t, strings.HasPrefix(gotPath, "/metrics/job/geds_sync"), gotPath)
	assert.Contains(t, gotPath, "instance/nightly")
	assert.NotEmpty(t, gotBody)
}

func TestSyncMetrics_PushEmptyURLIsNoop(t *testing.T) {
	require.NoError(t, NewSyncMetrics().Push(context.Background(), "", "job", ""))
}
