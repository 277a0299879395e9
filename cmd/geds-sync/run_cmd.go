package main

import (
	"github.com/spf13/cobra"

	"github.com/gcdevops/geds-sync/modules/directory/domain"
	"github.com/gcdevops/geds-sync/modules/directory/infrastructure/persistence"
	"github.com/gcdevops/geds-sync/modules/directory/infrastructure/search"
	"github.com/gcdevops/geds-sync/modules/directory/services"
)

type runOptions struct {
	force     bool
	skipDB    bool
	skipIndex bool
}

func newRunCmd(a *app) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Prepare org charts, replace the tables and index the documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.context(cmd.Context())

			var (
				store    domain.TableStore
				recorder domain.RunRecorder
			)
			if !opts.skipDB {
				pool, err := connectDB(ctx, a.conf.Database.Opts)
				if err != nil {
					return withCode(exitDB, err)
				}
				defer pool.Close()
				db, dbx := sqlHandles(pool)
				defer db.Close()
				if _, err := persistence.Migrate(ctx, db); err != nil {
					return withCode(exitDB, err)
				}
				store = persistence.NewDirectoryStore(pool)
				recorder = persistence.NewRunLog(dbx)
			}

			var indexer domain.Indexer
			if !opts.skipIndex {
				x, err := search.NewIndexer(search.Options{
					URL:     a.conf.Elastic.URL,
					Timeout: a.conf.Elastic.Timeout,
				})
				if err != nil {
					return withCode(exitIndex, err)
				}
				indexer = x
			}

			svc, err := a.syncService(a.source(opts.force), store, indexer)
			if err != nil {
				return err
			}
			if recorder != nil {
				svc.WithRecorder(recorder)
			}
			res, err := svc.Run(ctx, services.SyncOptions{SkipStore: opts.skipDB, SkipIndex: opts.skipIndex})
			if err != nil {
				return withCode(syncExitCode(err), err)
			}
			return writeJSONLine(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().BoolVar(&opts.force, "force", false, "Download the extract even when the cache exists")
	cmd.Flags().BoolVar(&opts.skipDB, "skip-db", false, "Do not write the relational tables")
	cmd.Flags().BoolVar(&opts.skipIndex, "skip-index", false, "Do not index documents in Elasticsearch")
	return cmd
}
