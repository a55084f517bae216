package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sakif/toolscope/internal/importer"
)

func newImportCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Bulk-load tools from a YAML or JSON file",
		Long: `Import every record in file into the catalog.

The file holds a list of tools, or a "tools:" key with that list. Records
are created in batches (import.batch_size, default 50) with import.pause
between batches. A bad record is reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := importer.ReadFile(args[0])
			if err != nil {
				return err
			}

			st, err := a.openStack()
			if err != nil {
				return err
			}
			defer st.close()

			imp := importer.New(st.tools, importer.Options{
				BatchSize: a.cfg.Import.BatchSize,
				Pause:     a.cfg.Import.Pause,
			}, a.logger)

			report, runErr := imp.Run(cmd.Context(), records)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "Imported %d of %d tool(s).\n", report.Succeeded, report.Total)
				if report.Failed > 0 {
					fmt.Fprintf(out, "Failed: %d\n", report.Failed)
					for _, f := range report.Failures {
						fmt.Fprintf(out, "  - %s: %s\n", f.Name, f.Error)
					}
				}
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}
