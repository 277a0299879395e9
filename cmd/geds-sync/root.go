package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gcdevops/geds-sync/modules/directory/domain"
	"github.com/gcdevops/geds-sync/modules/directory/infrastructure/geds"
	"github.com/gcdevops/geds-sync/modules/directory/services"
	"github.com/gcdevops/geds-sync/pkg/composables"
	"github.com/gcdevops/geds-sync/pkg/configuration"
	"github.com/gcdevops/geds-sync/pkg/metrics"
	"github.com/gcdevops/geds-sync/pkg/tracing"
)

// app carries what every subcommand shares once the configuration is loaded.
type app struct {
	envFiles []string
	depth    int

	conf     *configuration.Configuration
	metrics  *metrics.SyncMetrics
	shutdown tracing.ShutdownFunc
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "geds-sync",
		Short:         "Build GEDS org charts and load them into Postgres and Elasticsearch",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Context())
		},
	}
	cmd.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", []string{".env", ".env.local"}, "Env files to load when present")
	cmd.PersistentFlags().IntVar(&a.depth, "depth", 0, "Org tree depth (default: ORG_TREE_DEPTH)")

	cmd.AddCommand(newFetchCmd(a))
	cmd.AddCommand(newRunCmd(a))
	cmd.AddCommand(newChartCmd(a))
	cmd.AddCommand(newPathCmd(a))
	cmd.AddCommand(newExportCmd(a))
	cmd.AddCommand(newMigrateCmd(a))
	cmd.AddCommand(newHistoryCmd(a))
	cmd.AddCommand(newServeCmd(a))
	return cmd
}

func (a *app) init(ctx context.Context) error {
	conf, err := configuration.Load(a.envFiles...)
	if err != nil {
		return withCode(exitValidation, err)
	}
	if a.depth < 0 {
		conf.Unload()
		return withCode(exitUsage, fmt.Errorf("invalid --depth: %d", a.depth))
	}
	if a.depth > 0 {
		conf.OrgChart.TreeDepth = a.depth
	}
	a.conf = conf
	a.metrics = metrics.NewSyncMetrics()

	otel := conf.OpenTelemetry
	a.shutdown, err = tracing.Setup(ctx, otel.Enabled, otel.Endpoint, otel.ServiceName)
	if err != nil {
		conf.Logger().WithError(err).Warn("tracing disabled")
	}
	return nil
}

// close flushes tracing, pushes metrics and releases the log file.
func (a *app) close(ctx context.Context) {
	if a.conf == nil {
		return
	}
	logger := a.conf.Logger()
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil {
			logger.WithError(err).Warn("tracing shutdown")
		}
	}
	prom := a.conf.Prometheus
	hostname, _ := os.Hostname()
	if err := a.metrics.Push(ctx, prom.PushgatewayURL, prom.Job, hostname); err != nil {
		logger.WithError(err).Warn("metrics push failed")
	}
	a.conf.Unload()
}

func (a *app) context(ctx context.Context) context.Context {
	return composables.WithLogger(ctx, a.conf.Logger().WithField("app", "geds-sync"))
}

func (a *app) mapping() (domain.ColumnMapping, error) {
	m, err := domain.LoadColumnMapping(a.conf.Data.ColumnsFile)
	if err != nil {
		return domain.ColumnMapping{}, withCode(exitValidation, err)
	}
	return m, nil
}

func (a *app) source(force bool) *geds.Source {
	data := a.conf.Data
	return &geds.Source{
		URL:    data.URL,
		Subset: data.Subset,
		Force:  force,
		Cache:  geds.Cache{Path: data.Path},
		Client: geds.NewHTTPClient(0),
	}
}

// syncService wires the pipeline; store and indexer may be nil.
func (a *app) syncService(src domain.DatasetSource, store domain.TableStore, indexer domain.Indexer) (*services.SyncService, error) {
	m, err := a.mapping()
	if err != nil {
		return nil, err
	}
	oc := a.conf.OrgChart
	charts := services.NewOrgChartService(oc.TreeDepth, oc.Separator, a.metrics)
	return services.NewSyncService(src, store, indexer, m, charts, a.metrics, a.conf.Logger()), nil
}

// prepare runs the read side of the pipeline from the cached dataset.
func (a *app) prepare(ctx context.Context) (*services.Prepared, error) {
	svc, err := a.syncService(a.source(false), nil, nil)
	if err != nil {
		return nil, err
	}
	prepared, err := svc.Prepare(a.context(ctx))
	if err != nil {
		return nil, withCode(syncExitCode(err), err)
	}
	return prepared, nil
}

func Execute() {
	a := &app{}
	err := newRootCmd(a).Execute()
	a.close(context.Background())
	if err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}
