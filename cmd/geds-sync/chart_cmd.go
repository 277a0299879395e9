package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gcdevops/geds-sync/modules/directory/domain"
	"github.com/gcdevops/geds-sync/modules/directory/services"
)

func parseLang(v string) (domain.Lang, error) {
	switch domain.Lang(v) {
	case domain.LangEN, domain.LangFR:
		return domain.Lang(v), nil
	}
	return "", withCode(exitUsage, fmt.Errorf("invalid --lang %q: want en or fr", v))
}

func newChartCmd(a *app) *cobra.Command {
	var (
		lang       string
		department string
		output     string
		diffFile   string
		indent     bool
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Write the org chart JSON built from the cached extract",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := parseLang(lang)
			if err != nil {
				return err
			}
			prepared, err := a.prepare(cmd.Context())
			if err != nil {
				return err
			}
			forest := prepared.Charts.Forest(l)

			var data []byte
			if department != "" {
				data, err = services.DepartmentChart(forest, department)
			} else {
				data, err = json.Marshal(forest)
			}
			if err != nil {
				return err
			}
			if diffFile != "" {
				previous, err := os.ReadFile(diffFile)
				if err != nil {
					return withCode(exitUsage, fmt.Errorf("read --diff: %w", err))
				}
				if data, err = services.ChartDiff(previous, data); err != nil {
					return withCode(exitValidation, err)
				}
			}
			if indent {
				var v any
				if err := json.Unmarshal(data, &v); err != nil {
					return err
				}
				if data, err = json.MarshalIndent(v, "", "  "); err != nil {
					return err
				}
			}
			return writeOutput(cmd.OutOrStdout(), output, append(data, '\n'))
		},
	}
	cmd.Flags().StringVar(&lang, "lang", string(domain.LangEN), "Chart language: en or fr")
	cmd.Flags().StringVar(&department, "department", "", "Only this department's root (whole forest when unknown)")
	cmd.Flags().StringVar(&output, "output", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&diffFile, "diff", "", "Print a JSON Patch from this previously written chart instead of the chart")
	cmd.Flags().BoolVar(&indent, "indent", false, "Pretty-print the JSON")
	return cmd
}
