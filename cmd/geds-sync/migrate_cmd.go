package main

import (
	"github.com/spf13/cobra"

	"github.com/gcdevops/geds-sync/modules/directory/infrastructure/persistence"
)

func newMigrateCmd(a *app) *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the run history migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.context(cmd.Context())
			pool, err := connectDB(ctx, a.conf.Database.Opts)
			if err != nil {
				return withCode(exitDB, err)
			}
			defer pool.Close()
			db, _ := sqlHandles(pool)
			defer db.Close()

			if status {
				states, err := persistence.MigrationStatus(ctx, db)
				if err != nil {
					return withCode(exitDB, err)
				}
				return writeJSONLine(cmd.OutOrStdout(), states)
			}
			applied, err := persistence.Migrate(ctx, db)
			if err != nil {
				return withCode(exitDB, err)
			}
			return writeJSONLine(cmd.OutOrStdout(), map[string]any{"applied": applied})
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "Only report which migrations are applied")
	return cmd
}
