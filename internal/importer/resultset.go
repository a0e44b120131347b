// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import (
	"context"
	"sync"

	"github.com/pdiddy/refbridge/pkg/types"
)

// Entry pairs one candidate record with its current existence flag.
type Entry struct {
	Record types.Record `json:"record" yaml:"record"`
	Exists bool         `json:"exists" yaml:"exists"`
}

// ResultSet holds the entries of one search session, in the store's result
// order. It is discarded on the next search. After an import, exactly the
// affected entry is patched in place so the caller need not re-check the
// rest.
type ResultSet struct {
	mu      sync.RWMutex
	entries []Entry
}

// Populate checks every record's existence concurrently and returns the
// resulting set. Result order matches input order regardless of completion
// order, and every entry carries a defined Exists flag.
func Populate(ctx context.Context, checker ExistenceChecker, records []types.Record) *ResultSet {
	entries := make([]Entry, len(records))

	var wg sync.WaitGroup
	for i, rec := range records {
		wg.Add(1)
		go func(i int, rec types.Record) {
			defer wg.Done()
			entries[i] = Entry{Record: rec, Exists: checker.Exists(ctx, rec)}
		}(i, rec)
	}
	wg.Wait()

	return &ResultSet{entries: entries}
}

// Entries returns a copy of the current entries.
func (rs *ResultSet) Entries() []Entry {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	out := make([]Entry, len(rs.entries))
	copy(out, rs.entries)
	return out
}

// Len returns the number of entries.
func (rs *ResultSet) Len() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return len(rs.entries)
}

// At returns the entry at index i.
func (rs *ResultSet) At(i int) Entry {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.entries[i]
}

// Patch updates the existence flag of the entry whose record has the given
// ID. It reports whether an entry was updated; no other entry is touched.
func (rs *ResultSet) Patch(id string, exists bool) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	for i := range rs.entries {
		if rs.entries[i].Record.ID == id {
			rs.entries[i].Exists = exists
			return true
		}
	}
	return false
}
