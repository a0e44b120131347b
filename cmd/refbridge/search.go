// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/refbridge/internal/format"
	"github.com/pdiddy/refbridge/internal/importer"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the record store and show which results are already imported",
	Long: `Search queries the reference manager's local API and lists candidate
records in the store's recency order. Each result is marked "exists" when a
page carrying its identity property is already in the graph, or "new"
otherwise.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("yaml", false, "output results as YAML")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	session, closer, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer closer()

	rs, err := session.Run(context.Background(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	entries := rs.Entries()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		return yaml.NewEncoder(os.Stdout).Encode(entries)
	}

	formatTable(entries, os.Stdout)
	return nil
}

// formatTable writes entries as a human-readable table.
func formatTable(entries []importer.Entry, w io.Writer) {
	if len(entries) == 0 {
		return
	}

	fmt.Fprintf(w, "%-4s  %-8s  %-56s  %-24s  %s\n", "#", "Status", "Title", "Authors", "Year")
	fmt.Fprintln(w, strings.Repeat("-", 102))

	for i, e := range entries {
		status := "new"
		if e.Exists {
			status = "exists"
		}
		title := e.Record.Title
		if title == "" {
			title = "(untitled " + e.Record.ID + ")"
		}
		if len(title) > 56 {
			title = title[:53] + "..."
		}
		authors := format.AuthorsDisplay(e.Record.Creators)
		if len(authors) > 24 {
			authors = authors[:21] + "..."
		}
		year := ""
		if y, ok := format.ExtractYear(e.Record.Date); ok {
			year = fmt.Sprintf("%d", y)
		}
		fmt.Fprintf(w, "%-4d  %-8s  %-56s  %-24s  %s\n", i+1, status, title, authors, year)
	}

	fmt.Fprintf(w, "\n%d results\n", len(entries))
}
