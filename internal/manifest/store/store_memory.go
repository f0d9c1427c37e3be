// Package store persists the holder's credential manifest. Every read hands
// out a copy-on-read snapshot so one matching operation never observes a
// mutation.
package store

import (
	"context"
	"sync"

	"cardwallet/internal/manifest"
)

// InMemoryStore keeps manifest entries in process memory. Used by tests and
// the demo deployment.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []manifest.Entry
}

func NewInMemory(entries ...manifest.Entry) *InMemoryStore {
	s := &InMemoryStore{}
	s.entries = append(s.entries, entries...)
	return s
}

// Snapshot returns an independent copy of the current entries, preserving
// insertion order.
func (s *InMemoryStore) Snapshot(ctx context.Context) ([]manifest.Entry, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]manifest.Entry, len(s.entries))
	for i, entry := range s.entries {
		snapshot[i] = copyEntry(entry)
	}
	return snapshot, nil
}

// Add appends an entry to the manifest.
func (s *InMemoryStore) Add(ctx context.Context, entry manifest.Entry) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, copyEntry(entry))
	return nil
}

func copyEntry(entry manifest.Entry) manifest.Entry {
	out := entry
	out.FHIRBundleContains = make([]manifest.BundleItem, len(entry.FHIRBundleContains))
	for i, item := range entry.FHIRBundleContains {
		copied := item
		copied.Profile = append([]string(nil), item.Profile...)
		out.FHIRBundleContains[i] = copied
	}
	return out
}
