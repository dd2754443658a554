package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryStore implements Store with in-process maps. It carries the same
// immutability contract as the Postgres store and is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[Namespace]map[string]*Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: map[Namespace]map[string]*Entry{
			NamespaceTierLookup: {},
			NamespaceAllocation: {},
			NamespaceContent:    {},
		},
	}
}

// Get returns the entry for key in ns, or nil if absent.
func (s *MemoryStore) Get(_ context.Context, ns Namespace, key string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[ns][key]
	if !ok {
		return nil, nil
	}
	// Return a copy so callers cannot mutate the stored entry.
	clone := *entry
	clone.Payload = append(json.RawMessage(nil), entry.Payload...)
	return &clone, nil
}

// Put stores an immutable payload. Returns ErrKeyExists if key is taken.
func (s *MemoryStore) Put(_ context.Context, ns Namespace, key string, payload json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.entries[ns]
	if !ok {
		bucket = map[string]*Entry{}
		s.entries[ns] = bucket
	}
	if _, exists := bucket[key]; exists {
		return ErrKeyExists
	}
	bucket[key] = &Entry{
		Namespace: ns,
		Key:       key,
		Payload:   append(json.RawMessage(nil), payload...),
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// Len reports the number of entries in a namespace. Test helper.
func (s *MemoryStore) Len(ns Namespace) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries[ns])
}
