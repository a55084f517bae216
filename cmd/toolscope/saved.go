package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sakif/toolscope/internal/service"
)

func newSavedCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "Manage saved tools",
	}
	cmd.AddCommand(
		newSavedListCmd(a),
		newSavedToggleCmd(a),
		newSavedClearCmd(a),
		newSavedExportCmd(a),
	)
	return cmd
}

func newSavedListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStack()
			if err != nil {
				return err
			}
			defer st.close()

			tools, err := st.saved.SavedTools(cmd.Context())
			if err != nil {
				return describe(err)
			}

			out := cmd.OutOrStdout()
			if len(tools) == 0 {
				fmt.Fprintln(out, "No saved tools.")
				return nil
			}
			for _, t := range tools {
				fmt.Fprintf(out, "%s\t%s\t%s\n", t.ID, t.Name, t.Website)
			}
			return nil
		},
	}
}

func newSavedToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Save a tool, or unsave it if already saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStack()
			if err != nil {
				return err
			}
			defer st.close()

			result, err := st.saved.Toggle(args[0])
			if err != nil {
				return describe(err)
			}
			if result.Saved {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s.\n", result.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s.\n", result.ID)
			}
			return nil
		},
	}
}

func newSavedClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every saved tool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStack()
			if err != nil {
				return err
			}
			defer st.close()

			n := st.saved.Count()
			st.saved.Clear()
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d saved tool(s).\n", n)
			return nil
		},
	}
}

func newSavedExportCmd(a *app) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write saved tools to a JSON file",
		Long: `Export the saved tools as a JSON array of name, description, category,
pricing, website and tags.

Without --out the file is written to the current directory as
toolscope-saved-tools-YYYY-MM-DD.json. Use --out - for stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStack()
			if err != nil {
				return err
			}
			defer st.close()

			data, err := st.saved.Export(cmd.Context())
			if err != nil {
				return describe(err)
			}

			if outPath == "-" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if outPath == "" {
				outPath = service.ExportFilename(time.Now())
			}
			if dir := filepath.Dir(outPath); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("creating %s: %w", dir, err)
				}
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "output file, or - for stdout")
	return cmd
}
