// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the search-dedupe-import flow end to end. It is the
// single entry point triggers plug into: a command, a console call, and a UI
// selection all supply a query or a pick and share the same coordinator.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/refbridge/internal/importer"
	"github.com/pdiddy/refbridge/internal/zotero"
	"github.com/pdiddy/refbridge/pkg/types"
)

// Fetcher searches the record store.
type Fetcher interface {
	Search(ctx context.Context, query string) ([]types.Record, error)
}

// Session wires one fetcher, checker, and coordinator into a reusable flow.
// Sessions are cheap; the heavyweight state (the in-flight registry) lives in
// the coordinator and is shared across sessions.
type Session struct {
	fetcher     Fetcher
	checker     importer.ExistenceChecker
	coordinator *importer.Coordinator
	notifier    importer.Notifier
}

// New builds a session.
func New(fetcher Fetcher, checker importer.ExistenceChecker, coordinator *importer.Coordinator, notifier importer.Notifier) *Session {
	return &Session{
		fetcher:     fetcher,
		checker:     checker,
		coordinator: coordinator,
		notifier:    notifier,
	}
}

// Run searches for query and returns the result set with every candidate's
// existence flag populated. Store failures surface as one notice each and a
// non-nil error; an empty result is a warning notice with an empty set and
// no error.
func (s *Session) Run(ctx context.Context, query string) (*importer.ResultSet, error) {
	s.notifier.Info(fmt.Sprintf("searching for %q", query))

	records, err := s.fetcher.Search(ctx, query)
	if err != nil {
		switch {
		case errors.Is(err, zotero.ErrInvalidQuery):
			s.notifier.Warn("search query is empty")
		case errors.Is(err, zotero.ErrStoreUnavailable):
			s.notifier.Error("record store is not reachable: start the application and retry")
		default:
			s.notifier.Error(fmt.Sprintf("search failed: %v", err))
		}
		return nil, err
	}

	rs := importer.Populate(ctx, s.checker, records)
	if rs.Len() == 0 {
		s.notifier.Warn(fmt.Sprintf("no results for %q", query))
	}
	return rs, nil
}

// ImportAt imports the entry at index (0-based) and patches its existence
// flag so the caller's view reflects the new state without re-checking the
// other entries.
func (s *Session) ImportAt(ctx context.Context, rs *importer.ResultSet, index int) (importer.Outcome, error) {
	if index < 0 || index >= rs.Len() {
		return importer.OutcomeFailed, fmt.Errorf("selection %d out of range (have %d results)", index+1, rs.Len())
	}

	entry := rs.At(index)
	outcome := s.coordinator.Import(ctx, entry.Record)
	if outcome == importer.OutcomeImported || outcome == importer.OutcomeSkipped {
		rs.Patch(entry.Record.ID, true)
	}
	return outcome, nil
}

// ImportFirstNew imports the first entry not yet in the graph and returns
// its index. When every candidate already exists it emits a warning and
// returns -1 without touching the graph.
func (s *Session) ImportFirstNew(ctx context.Context, rs *importer.ResultSet) (int, importer.Outcome) {
	for i, entry := range rs.Entries() {
		if entry.Exists {
			continue
		}
		outcome := s.coordinator.Import(ctx, entry.Record)
		if outcome == importer.OutcomeImported || outcome == importer.OutcomeSkipped {
			rs.Patch(entry.Record.ID, true)
		}
		return i, outcome
	}
	s.notifier.Warn("every result is already in the graph")
	return -1, importer.OutcomeSkipped
}
