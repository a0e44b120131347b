// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package importer commits a selected record to the knowledge base exactly
// once. The coordinator re-checks existence immediately before persisting,
// holds a per-record in-flight lock for the duration, and releases it on
// every exit path. Distinct records may import concurrently; two imports of
// the same record cannot.
package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/refbridge/internal/format"
	"github.com/pdiddy/refbridge/internal/graph"
	"github.com/pdiddy/refbridge/pkg/types"
)

// ExistenceChecker reports whether a record already has a page. It never
// fails; lookup errors degrade to "absent" inside the checker.
type ExistenceChecker interface {
	Exists(ctx context.Context, rec types.Record) bool
}

// Outcome is the terminal result of one import invocation.
type Outcome int

const (
	// OutcomeBusy means another import of the same record was in flight;
	// the call was a no-op.
	OutcomeBusy Outcome = iota

	// OutcomeSkipped means the record already has a page.
	OutcomeSkipped

	// OutcomeImported means a page was created. Failure of the optional
	// abstract append does not demote this outcome.
	OutcomeImported

	// OutcomeFailed means page creation failed and nothing durable exists.
	OutcomeFailed
)

// Coordinator runs guarded imports against one graph backend.
type Coordinator struct {
	graph    graph.Graph
	checker  ExistenceChecker
	registry *Registry
	notifier Notifier
	propKey  string
	log      io.Writer
}

// NewCoordinator wires an import coordinator. Internal events (lock guards,
// non-fatal append failures) go to log; user-visible statuses go to notifier.
func NewCoordinator(g graph.Graph, checker ExistenceChecker, registry *Registry, notifier Notifier, propKey string, log io.Writer) *Coordinator {
	if log == nil {
		log = io.Discard
	}
	return &Coordinator{
		graph:    g,
		checker:  checker,
		registry: registry,
		notifier: notifier,
		propKey:  propKey,
		log:      log,
	}
}

// Import commits rec to the graph at most once. Each terminal state emits
// exactly one user-visible notice; a lock-refused call emits none and only
// logs the guard event. The lock is released on every path out, including
// panics in the persistence layer.
func (c *Coordinator) Import(ctx context.Context, rec types.Record) Outcome {
	if !c.registry.TryAcquire(rec.ID) {
		fmt.Fprintf(c.log, "import of %s already in flight, ignoring trigger\n", rec.ID)
		return OutcomeBusy
	}
	defer c.registry.Release(rec.ID)

	// Re-check just before committing: an import may have completed between
	// listing and selection.
	if c.checker.Exists(ctx, rec) {
		c.notifier.Warn(fmt.Sprintf("%q is already in the graph", displayTitle(rec)))
		return OutcomeSkipped
	}

	fields := format.Derive(rec)
	props := graph.PageProperties{
		Title:        rec.Title,
		Authors:      fields.AuthorsDisplay,
		Year:         fields.Year,
		ItemType:     rec.ItemType,
		ExternalID:   rec.ID,
		ExternalLink: graph.DeepLink(rec.ID),
		URL:          rec.URL,
	}

	page, err := c.graph.CreatePage(ctx, fields.PageTitle, props.Map(c.propKey),
		graph.CreateOptions{Redirect: false, CreateFirstBlock: false})
	if err != nil {
		c.notifier.Error(fmt.Sprintf("import of %q failed: %v", displayTitle(rec), err))
		return OutcomeFailed
	}
	if page == nil {
		c.notifier.Error(fmt.Sprintf("import of %q failed: host returned no page", displayTitle(rec)))
		return OutcomeFailed
	}

	// The page is the durable result; a failed abstract append is logged
	// and the import still counts as successful.
	if fields.MarkdownAbstract != "" {
		if err := c.graph.AppendBlock(ctx, page.UUID, "Abstract", []string{fields.MarkdownAbstract}); err != nil {
			fmt.Fprintf(c.log, "abstract append for %s failed: %v\n", rec.ID, err)
		}
	}

	c.notifier.Success(fmt.Sprintf("imported %q", displayTitle(rec)))
	return OutcomeImported
}

func displayTitle(rec types.Record) string {
	if rec.Title != "" {
		return rec.Title
	}
	return rec.ID
}
