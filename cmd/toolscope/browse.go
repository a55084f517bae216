package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sakif/toolscope/internal/catalog"
	"github.com/sakif/toolscope/internal/model"
	"github.com/sakif/toolscope/internal/service"
)

type browseFlags struct {
	query      string
	categories []string
	pricing    []string
	tags       []string
	sort       string
	asJSON     bool
}

func (f browseFlags) state() catalog.FilterState {
	state := catalog.FilterState{
		SearchQuery: f.query,
		SortKey:     catalog.ParseSortKey(f.sort),
		Tags:        f.tags,
	}
	for _, name := range f.categories {
		category, ok := model.ParseCategory(name)
		if !ok {
			category = model.Category(name)
		}
		state.Categories = append(state.Categories, category)
	}
	for _, name := range f.pricing {
		pricing, ok := model.ParsePricing(name)
		if !ok {
			pricing = model.Pricing(name)
		}
		state.Pricing = append(state.Pricing, pricing)
	}
	return state
}

func newBrowseCmd(a *app) *cobra.Command {
	var f browseFlags

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Search and filter the directory",
		Example: `  toolscope browse --q writer
  toolscope browse --category Code,Data --pricing Free --sort pricing
  toolscope browse --tag ai --tag video --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStack()
			if err != nil {
				return err
			}
			defer st.close()

			result, err := st.browse.Browse(cmd.Context(), f.state())
			if err != nil {
				return describe(err)
			}

			if f.asJSON {
				return writeIndentedJSON(cmd.OutOrStdout(), result)
			}
			return printBrowse(cmd.OutOrStdout(), result)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.query, "q", "", "case-insensitive search in name, description and tags")
	flags.StringSliceVar(&f.categories, "category", nil, "categories to include (repeat or comma-separate)")
	flags.StringSliceVar(&f.pricing, "pricing", nil, "pricing tiers to include")
	flags.StringSliceVar(&f.tags, "tag", nil, "tags; a tool matches if it has any of them")
	flags.StringVar(&f.sort, "sort", string(catalog.DefaultSortKey), "name, category or pricing")
	flags.BoolVar(&f.asJSON, "json", false, "print the full result as JSON")
	return cmd
}

func printBrowse(out io.Writer, result *service.BrowseResult) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICING\tTAGS\tSAVED")
	for _, t := range result.Tools {
		saved := ""
		if t.Saved {
			saved = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Name, t.Category, t.Pricing, strings.Join(t.Tags, ", "), saved)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "\n%d of %d tool(s)\n", result.Count, result.Total)
	return err
}

func newTagsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List every tag in the directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStack()
			if err != nil {
				return err
			}
			defer st.close()

			tags, err := st.tools.AllTags(cmd.Context())
			if err != nil {
				return describe(err)
			}
			for _, tag := range tags {
				fmt.Fprintln(cmd.OutOrStdout(), tag)
			}
			return nil
		},
	}
}

func writeIndentedJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
