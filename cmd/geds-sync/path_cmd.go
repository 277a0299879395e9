package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gcdevops/geds-sync/modules/directory/services"
)

type pathResult struct {
	Department string `json:"department"`
	Name       string `json:"name"`
	Path       []int  `json:"path"`
	Found      bool   `json:"found"`
}

func newPathCmd(a *app) *cobra.Command {
	var (
		lang       string
		department string
		name       string
	)

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the child-index path to an organization inside its department chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := parseLang(lang)
			if err != nil {
				return err
			}
			if strings.TrimSpace(department) == "" || strings.TrimSpace(name) == "" {
				return withCode(exitUsage, fmt.Errorf("--department and --name are required"))
			}
			prepared, err := a.prepare(cmd.Context())
			if err != nil {
				return err
			}
			path, found, err := services.FindPath(prepared.Charts.Forest(l), department, name)
			if err != nil {
				return withCode(exitValidation, err)
			}
			if !found {
				path = nil
			}
			return writeJSONLine(cmd.OutOrStdout(), pathResult{
				Department: department,
				Name:       name,
				Path:       path,
				Found:      found,
			})
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "en", "Chart language: en or fr")
	cmd.Flags().StringVar(&department, "department", "", "Department root name (required)")
	cmd.Flags().StringVar(&name, "name", "", "Organization name to find (required)")
	return cmd
}
