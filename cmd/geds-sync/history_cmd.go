package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gcdevops/geds-sync/modules/directory/infrastructure/persistence"
)

type runRow struct {
	RunID         string `json:"run_id"`
	StartedAt     string `json:"started_at"`
	DurationMS    int64  `json:"duration_ms"`
	Status        string `json:"status"`
	Employees     int    `json:"employees"`
	Organizations int    `json:"organizations"`
	PathsResolved int    `json:"paths_resolved"`
	Error         string `json:"error,omitempty"`
}

func newHistoryCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the latest sync runs, one JSON line each",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return withCode(exitUsage, fmt.Errorf("invalid --limit: %d", limit))
			}
			ctx := a.context(cmd.Context())
			pool, err := connectDB(ctx, a.conf.Database.Opts)
			if err != nil {
				return withCode(exitDB, err)
			}
			defer pool.Close()
			db, dbx := sqlHandles(pool)
			defer db.Close()

			runs, err := persistence.NewRunLog(dbx).Recent(ctx, limit)
			if err != nil {
				return withCode(exitDB, err)
			}
			for _, r := range runs {
				row := runRow{
					RunID:         r.ID.String(),
					StartedAt:     r.StartedAt.UTC().Format(time.RFC3339),
					DurationMS:    r.FinishedAt.Sub(r.StartedAt).Milliseconds(),
					Status:        string(r.Status),
					Employees:     r.Employees,
					Organizations: r.Organizations,
					PathsResolved: r.PathsResolved,
					Error:         r.Error,
				}
				if err := writeJSONLine(cmd.OutOrStdout(), row); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "How many runs to list")
	return cmd
}
