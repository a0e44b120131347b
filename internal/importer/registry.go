// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import "sync"

// Registry tracks record IDs with an import in flight. It is the one piece
// of shared mutable state in the pipeline: at most one import per record ID
// may hold an entry at a time. Scope one registry to the plugin lifetime and
// inject it wherever imports run.
type Registry struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{inflight: make(map[string]struct{})}
}

// TryAcquire marks id as mid-import. It returns false without side effects
// when an import for id is already in flight.
func (r *Registry) TryAcquire(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, held := r.inflight[id]; held {
		return false
	}
	r.inflight[id] = struct{}{}
	return true
}

// Release removes id from the in-flight set. Releasing an id that is not
// held is a no-op.
func (r *Registry) Release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inflight, id)
}

// Held reports whether an import for id is currently in flight.
func (r *Registry) Held(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, held := r.inflight[id]
	return held
}
