// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/refbridge/internal/dedupe"
	"github.com/pdiddy/refbridge/internal/graph"
	"github.com/pdiddy/refbridge/internal/importer"
	"github.com/pdiddy/refbridge/internal/pipeline"
	"github.com/pdiddy/refbridge/internal/zotero"
	"github.com/pdiddy/refbridge/pkg/types"
)

// importRegistry is the process-wide in-flight import registry, shared by
// every session so repeated triggers cannot double-import a record.
var importRegistry = importer.NewRegistry()

// buildGraph selects the graph backend from config. The returned closer is a
// no-op for the API backend.
func buildGraph(cfg types.Config) (graph.Graph, func(), error) {
	switch cfg.Graph.Mode {
	case types.GraphModeLocal:
		g, err := graph.NewSQLiteGraph(cfg.Graph)
		if err != nil {
			return nil, nil, err
		}
		return g, func() { g.Close() }, nil
	case types.GraphModeAPI:
		return graph.NewAPIGraph(cfg.Graph), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown graph mode %q (want api or local)", cfg.Graph.Mode)
	}
}

// newSession wires a full pipeline session from the command's effective
// config. Notices go to stdout, internal events to stderr.
func newSession(cmd *cobra.Command) (*pipeline.Session, func(), error) {
	cfg := loadConfig(cmd)

	g, closer, err := buildGraph(cfg)
	if err != nil {
		return nil, nil, err
	}

	notifier := importer.WriterNotifier{W: os.Stdout}
	checker := dedupe.NewChecker(g, cfg.Import.PropertyKey, os.Stderr)
	coordinator := importer.NewCoordinator(g, checker, importRegistry, notifier, cfg.Import.PropertyKey, os.Stderr)
	fetcher := zotero.New(cfg.Store)

	return pipeline.New(fetcher, checker, coordinator, notifier), closer, nil
}
