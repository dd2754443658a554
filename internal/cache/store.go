// Package cache provides the key-value persistence layer backing the roadmap
// pipeline. Three independent namespaces each hold one immutable JSON payload
// per key plus a creation timestamp. There is no eviction and no TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Namespace identifies one of the three logical cache tables.
type Namespace string

const (
	// NamespaceTierLookup stores tier rankings keyed by the raw topic string.
	NamespaceTierLookup Namespace = "tier_lookup"
	// NamespaceAllocation stores skill allocations keyed by (topic, tier list).
	NamespaceAllocation Namespace = "allocation"
	// NamespaceContent stores content records keyed by (topic, skill set).
	NamespaceContent Namespace = "content"
)

// ErrKeyExists is returned by Put when the key is already present in the
// namespace. Entries are immutable, so callers must treat this as a cache hit
// for the existing payload, not as a failure.
var ErrKeyExists = errors.New("cache: key already exists")

// Entry is a single immutable cached payload.
type Entry struct {
	Namespace Namespace       `json:"namespace"`
	Key       string          `json:"key"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// Store is the contract the pipeline depends on. Implementations must make
// Put reject duplicate keys with ErrKeyExists and Get return (nil, nil) on a
// miss.
type Store interface {
	// Get returns the entry for key in ns, or nil if absent.
	Get(ctx context.Context, ns Namespace, key string) (*Entry, error)
	// Put stores an immutable payload. Returns ErrKeyExists if key is taken.
	Put(ctx context.Context, ns Namespace, key string, payload json.RawMessage) error
}
