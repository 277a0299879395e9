package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/gcdevops/geds-sync/modules/directory/domain"
	"github.com/gcdevops/geds-sync/pkg/composables"
	"github.com/gcdevops/geds-sync/pkg/logging"
	"github.com/gcdevops/geds-sync/pkg/metrics"
	"github.com/gcdevops/geds-sync/pkg/tracing"
)

var (
	ErrStoreFailed = errors.New("table store failed")
	ErrIndexFailed = errors.New("search indexing failed")
)

type SyncOptions struct {
	SkipStore bool
	SkipIndex bool
}

type SyncResult struct {
	RunID         uuid.UUID                    `json:"run_id"`
	StartedAt     time.Time                    `json:"started_at"`
	DurationMS    int64                        `json:"duration_ms"`
	Employees     int                          `json:"employees"`
	Departments   int                          `json:"departments"`
	Organizations int                          `json:"organizations"`
	PathsResolved int                          `json:"paths_resolved"`
	Unmatched     map[domain.Lang]int          `json:"unmatched_leaves"`
	Indexed       map[string]domain.IndexStats `json:"indexed,omitempty"`
	Stored        bool                         `json:"stored"`
}

// SyncService runs the whole job: load, prepare, chart, store, index.
type SyncService struct {
	source  domain.DatasetSource
	store   domain.TableStore
	indexer domain.Indexer
	mapping domain.ColumnMapping
	charts   *OrgChartService
	metrics  *metrics.SyncMetrics
	logger   *logrus.Logger
	recorder domain.RunRecorder
}

func NewSyncService(
	source domain.DatasetSource,
	store domain.TableStore,
	indexer domain.Indexer,
	mapping domain.ColumnMapping,
	charts *OrgChartService,
	m *metrics.SyncMetrics,
	logger *logrus.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &SyncService{
		source:  source,
		store:   store,
		indexer: indexer,
		mapping: mapping,
		charts:  charts,
		metrics: m,
		logger:  logger,
	}
}

// WithRecorder makes Run keep an audit row for every run that writes tables.
func (s *SyncService) WithRecorder(r domain.RunRecorder) *SyncService {
	s.recorder = r
	return s
}

// Prepared is the in-memory outcome of the read side of a run.
type Prepared struct {
	Tables domain.Tables
	Charts *OrgCharts
}

// Prepare loads the dataset and derives charts and tables without writing
// anywhere.
func (s *SyncService) Prepare(ctx context.Context) (*Prepared, error) {
	start := time.Now()
	ctx, span := tracing.Start(ctx, "sync.prepare")
	defer span.End()

	ds, err := s.source.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load dataset")
	}
	s.metrics.ObserveStage("load", start)

	start = time.Now()
	employees, err := PrepareRecords(ds, s.mapping)
	if err != nil {
		return nil, errors.Wrap(err, "prepare records")
	}
	s.metrics.ObserveStage("prepare", start)

	start = time.Now()
	charts := s.charts.Prepare(ctx, employees)
	s.metrics.ObserveStage("charts", start)

	start = time.Now()
	departments, err := BuildDepartments(employees, charts)
	if err != nil {
		return nil, err
	}
	organizations := BuildOrganizations(ctx, employees, charts.EN, s.metrics)
	s.metrics.ObserveStage("tables", start)

	return &Prepared{
		Tables: domain.Tables{
			Employees:     employees,
			Departments:   departments,
			Organizations: organizations,
		},
		Charts: charts,
	}, nil
}

func (s *SyncService) Run(ctx context.Context, opts SyncOptions) (*SyncResult, error) {
	res := &SyncResult{
		RunID:     uuid.New(),
		StartedAt: time.Now().UTC(),
		Unmatched: map[domain.Lang]int{},
	}
	logger := s.logger.WithField("run_id", res.RunID.String())
	ctx = composables.WithLogger(ctx, logger)

	err := s.run(ctx, opts, res)
	res.DurationMS = time.Since(res.StartedAt).Milliseconds()
	if !opts.SkipStore {
		s.record(ctx, res, err)
	}
	if err != nil {
		return nil, err
	}

	s.metrics.MarkSuccess(time.Now())
	logger.WithFields(logrus.Fields{
		"employees":      res.Employees,
		"departments":    res.Departments,
		"organizations":  res.Organizations,
		"paths_resolved": res.PathsResolved,
		"duration_ms":    res.DurationMS,
	}).Info("sync finished")
	return res, nil
}

func (s *SyncService) run(ctx context.Context, opts SyncOptions, res *SyncResult) error {
	logger := composables.UseLogger(ctx)

	prepared, err := s.Prepare(ctx)
	if err != nil {
		return err
	}
	tables := prepared.Tables
	res.Employees = len(tables.Employees)
	res.Departments = len(tables.Departments)
	res.Organizations = len(tables.Organizations)
	for i := range tables.Organizations {
		if tables.Organizations[i].PathFound {
			res.PathsResolved++
		}
	}
	for lang, diags := range prepared.Charts.Unmatched {
		res.Unmatched[lang] = len(diags)
	}

	if !opts.SkipStore && s.store != nil {
		start := time.Now()
		if err := s.store.ReplaceAll(ctx, tables); err != nil {
			return fmt.Errorf("%w: %w", ErrStoreFailed, err)
		}
		res.Stored = true
		s.metrics.ObserveStage("store", start)
		logger.WithField("stage", "store").Info("tables replaced")
	}

	if !opts.SkipIndex && s.indexer != nil {
		start := time.Now()
		stats, err := s.index(ctx, tables)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrIndexFailed, err)
		}
		res.Indexed = stats
		s.metrics.ObserveStage("index", start)
	}
	return nil
}

// record writes the run history row. A failure here never fails the run.
func (s *SyncService) record(ctx context.Context, res *SyncResult, runErr error) {
	if s.recorder == nil {
		return
	}
	run := domain.SyncRun{
		ID:            res.RunID,
		StartedAt:     res.StartedAt,
		FinishedAt:    res.StartedAt.Add(time.Duration(res.DurationMS) * time.Millisecond),
		Status:        domain.RunSucceeded,
		Employees:     res.Employees,
		Departments:   res.Departments,
		Organizations: res.Organizations,
		PathsResolved: res.PathsResolved,
	}
	if runErr != nil {
		run.Status = domain.RunFailed
		run.Error = runErr.Error()
	}
	if err := s.recorder.Record(ctx, run); err != nil {
		composables.UseLogger(ctx).WithError(err).Warn("run history not recorded")
	}
}

func (s *SyncService) index(ctx context.Context, tables domain.Tables) (map[string]domain.IndexStats, error) {
	ctx, span := tracing.Start(ctx, "sync.index")
	defer span.End()
	logger := composables.UseLogger(ctx).WithField("stage", "index")

	employeeDocs, orgDocs := BuildDocuments(tables)
	out := map[string]domain.IndexStats{}

	stats, err := s.indexer.IndexEmployees(ctx, employeeDocs)
	if err != nil {
		return nil, err
	}
	out[domain.EmployeeIndex] = stats
	s.recordIndexFailures(domain.EmployeeIndex, stats)
	logger.WithFields(logrus.Fields{"index": domain.EmployeeIndex, "indexed": stats.Indexed, "failed": stats.Failed}).Info("bulk upload done")

	stats, err = s.indexer.IndexOrganizations(ctx, orgDocs)
	if err != nil {
		return nil, err
	}
	out[domain.OrganizationIndex] = stats
	s.recordIndexFailures(domain.OrganizationIndex, stats)
	logger.WithFields(logrus.Fields{"index": domain.OrganizationIndex, "indexed": stats.Indexed, "failed": stats.Failed}).Info("bulk upload done")
	return out, nil
}

func (s *SyncService) recordIndexFailures(index string, stats domain.IndexStats) {
	if s.metrics == nil || stats.Failed == 0 {
		return
	}
	s.metrics.IndexFailures.WithLabelValues(index).Add(float64(stats.Failed))
}
