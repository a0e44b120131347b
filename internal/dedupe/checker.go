// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedupe decides whether a record already has a page in the graph.
//
// The primary strategy looks the record ID up in the stored identity
// property. Title lookup is strictly a degraded fallback for hosts where
// property queries fail; it can produce false negatives when a page was
// renamed. A checker never returns an error: if both strategies fail the
// record is reported as absent, erring toward re-import over silently
// blocking work.
package dedupe

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/refbridge/internal/format"
	"github.com/pdiddy/refbridge/internal/graph"
	"github.com/pdiddy/refbridge/pkg/types"
)

// Checker performs existence checks against one graph backend.
type Checker struct {
	graph   graph.Graph
	propKey string
	log     io.Writer
}

// NewChecker builds a checker. Degraded-mode events are written to log.
func NewChecker(g graph.Graph, propKey string, log io.Writer) *Checker {
	if log == nil {
		log = io.Discard
	}
	return &Checker{graph: g, propKey: propKey, log: log}
}

// Exists reports whether rec already has a corresponding page. Any page
// carrying the identity property counts, even if external edits violated
// uniqueness; the checker does not reconcile duplicates.
func (c *Checker) Exists(ctx context.Context, rec types.Record) bool {
	page, err := c.graph.FindPageByProperty(ctx, c.propKey, rec.ID)
	if err == nil {
		return page != nil
	}
	fmt.Fprintf(c.log, "existence check degraded for %s: property lookup failed: %v\n", rec.ID, err)

	// Fallback: exact title match. Weaker, never promoted to primary.
	page, err = c.graph.FindPageByTitle(ctx, format.PageTitle(rec))
	if err != nil {
		fmt.Fprintf(c.log, "existence check for %s: title lookup failed, treating as absent: %v\n", rec.ID, err)
		return false
	}
	return page != nil
}
