// Package locks provides in-process, per-document mutual exclusion.
// Every subsystem that mutates a document's on-disk files acquires the
// same lock for its id, so sidecar and page writes never interleave
// across the store and the index.
package locks

import (
	"sync"

	"github.com/google/uuid"
)

// Keyed hands out one mutex per document id. Entries are created on
// first use and removed when the last holder releases, so the table
// does not grow with the store.
type Keyed struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// NewKeyed creates an empty lock table.
func NewKeyed() *Keyed {
	return &Keyed{entries: make(map[uuid.UUID]*entry)}
}

// Lock acquires the mutex for id and returns its release function.
// Distinct ids proceed concurrently.
func (k *Keyed) Lock(id uuid.UUID) func() {
	k.mu.Lock()
	e, ok := k.entries[id]
	if !ok {
		e = &entry{}
		k.entries[id] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.entries, id)
		}
		k.mu.Unlock()
	}
}
