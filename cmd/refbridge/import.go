// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/refbridge/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <query>",
	Short: "Search and import one record as a graph page",
	Long: `Import runs a search, then imports the selected record as a new page with
its bibliographic properties and abstract. Select with --pick (1-based result
number) or --first-new (first result not yet in the graph).

A record already in the graph is skipped, never duplicated: the identity
property is re-checked immediately before the page is created, and at most
one import per record can be in flight at a time.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().Int("pick", 0, "result number to import (1-based)")
	importCmd.Flags().Bool("first-new", false, "import the first result not yet in the graph")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	pick, _ := cmd.Flags().GetInt("pick")
	firstNew, _ := cmd.Flags().GetBool("first-new")
	if pick == 0 && !firstNew {
		return fmt.Errorf("select a record with --pick or --first-new")
	}
	if pick != 0 && firstNew {
		return fmt.Errorf("--pick and --first-new are mutually exclusive")
	}

	session, closer, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer closer()

	ctx := context.Background()
	rs, err := session.Run(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if rs.Len() == 0 {
		return nil
	}

	var outcome importer.Outcome
	if firstNew {
		_, outcome = session.ImportFirstNew(ctx, rs)
	} else {
		outcome, err = session.ImportAt(ctx, rs, pick-1)
		if err != nil {
			return err
		}
	}

	if outcome == importer.OutcomeFailed {
		return fmt.Errorf("import failed")
	}
	return nil
}
