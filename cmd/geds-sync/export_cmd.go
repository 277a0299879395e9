package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gcdevops/geds-sync/modules/directory/domain"
	"github.com/gcdevops/geds-sync/modules/directory/infrastructure/export"
	"github.com/gcdevops/geds-sync/modules/directory/infrastructure/persistence"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		output string
		fromDB bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the organizations table with chart paths to .xlsx or .csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			ext := strings.ToLower(filepath.Ext(output))
			if ext != ".xlsx" && ext != ".csv" {
				return withCode(exitUsage, fmt.Errorf("--output must end in .xlsx or .csv"))
			}
			ctx := a.context(cmd.Context())

			var (
				orgs  []domain.Organization
				depts []domain.Department
			)
			if fromDB {
				pool, err := connectDB(ctx, a.conf.Database.Opts)
				if err != nil {
					return withCode(exitDB, err)
				}
				defer pool.Close()
				store := persistence.NewDirectoryStore(pool)
				if orgs, err = store.Organizations(ctx); err != nil {
					return withCode(exitDB, err)
				}
				if depts, err = store.Departments(ctx); err != nil {
					return withCode(exitDB, err)
				}
			} else {
				prepared, err := a.prepare(ctx)
				if err != nil {
					return err
				}
				orgs, depts = prepared.Tables.Organizations, prepared.Tables.Departments
			}

			table := export.OrganizationsTable(orgs, depts)
			var (
				data []byte
				err  error
			)
			if ext == ".xlsx" {
				data, err = export.XLSX(table)
			} else {
				data, err = export.CSVBytes(table)
			}
			if err != nil {
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), output, data); err != nil {
				return err
			}
			return writeJSONLine(cmd.OutOrStdout(), map[string]any{"output": output, "rows": len(table.Rows)})
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "Output file, .xlsx or .csv (required)")
	cmd.Flags().BoolVar(&fromDB, "from-db", false, "Read organizations from Postgres instead of the cached extract")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
