package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// SyncMetrics holds the collectors of one sync run. They live on a private
// registry so a batch job can push them to a Pushgateway when it finishes.
type SyncMetrics struct {
	Registry *prometheus.Registry

	RowsParsed      *prometheus.CounterVec
	RowsDropped     *prometheus.CounterVec
	ChartNodes      *prometheus.GaugeVec
	UnmatchedLeaves *prometheus.CounterVec
	PathMisses      *prometheus.CounterVec
	IndexFailures   *prometheus.CounterVec
	StageDuration   *prometheus.HistogramVec
	LastSuccess     prometheus.Gauge
}

func NewSyncMetrics() *SyncMetrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &SyncMetrics{
		Registry: reg,
		RowsParsed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geds",
			Subsystem: "orgchart",
			Name:      "rows_parsed_total",
			Help:      "Distinct organization paths parsed, by language.",
		}, []string{"lang"}),
		RowsDropped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geds",
			Subsystem: "orgchart",
			Name:      "rows_dropped_total",
			Help:      "Paths removed by adjacent-row deduplication, by language.",
		}, []string{"lang"}),
		ChartNodes: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "geds",
			Subsystem: "orgchart",
			Name:      "nodes",
			Help:      "Nodes in the built org chart forest, by language.",
		}, []string{"lang"}),
		UnmatchedLeaves: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geds",
			Subsystem: "orgchart",
			Name:      "unmatched_leaves_total",
			Help:      "Leaves left without an org id, by language.",
		}, []string{"lang"}),
		PathMisses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geds",
			Subsystem: "orgchart",
			Name:      "path_misses_total",
			Help:      "Organizations whose chart path could not be resolved, by reason.",
		}, []string{"reason"}),
		IndexFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geds",
			Subsystem: "search",
			Name:      "index_failures_total",
			Help:      "Documents rejected by the search index, by index.",
		}, []string{"index"}),
		StageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "geds",
			Subsystem: "sync",
			Name:      "stage_duration_seconds",
			Help:      "Wall time of each sync stage.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		}, []string{"stage"}),
		LastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "geds",
			Subsystem: "sync",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful sync run.",
		}),
	}
}

// ObserveStage records the time elapsed since start for stage.
func (m *SyncMetrics) ObserveStage(stage string, start time.Time) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func (m *SyncMetrics) MarkSuccess(at time.Time) {
	if m == nil {
		return
	}
	m.LastSuccess.Set(float64(at.Unix()))
}

// Push sends every collector to the Pushgateway at url under job. An empty
// url is a no-op.
func (m *SyncMetrics) Push(ctx context.Context, url, job, instance string) error {
	if m == nil || url == "" {
		return nil
	}
	p := push.New(url, job).Gatherer(m.Registry)
	if instance != "" {
		p = p.Grouping("instance", instance)
	}
	return p.PushContext(ctx)
}
