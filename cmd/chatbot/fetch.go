package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var fetchJSON bool

var fetchCmd = &cobra.Command{
	Use:   "fetch <movie|tv>",
	Short: "List the current catalog with resolved genres",
	Args:  cobra.ExactArgs(1),
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "print the enriched records as JSON")
}

func runFetch(cmd *cobra.Command, args []string) error {
	items, err := newFetchOnly(cfg).Fetch(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if fetchJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tDATE\tGENRES\tPOPULARITY\tPOSTER")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%s\n",
			it.Title, it.ReleaseDate, strings.Join(it.GenreNames, ", "), it.Popularity, it.PosterURL)
	}
	return tw.Flush()
}
