package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"
)

// FillFunc computes the payload for a cache miss. It is only invoked once per
// in-flight key regardless of how many callers are waiting.
type FillFunc func(ctx context.Context) (json.RawMessage, error)

// Flight wraps a Store with a per-key single-flight guard so that concurrent
// misses for the same key share one external invocation instead of each
// issuing their own.
type Flight struct {
	store Store
	group singleflight.Group
}

// NewFlight creates a Flight over the given store.
func NewFlight(store Store) *Flight {
	return &Flight{store: store}
}

// Store exposes the underlying store.
func (f *Flight) Store() Store {
	return f.store
}

// GetOrFill returns the cached payload for (ns, key), computing and persisting
// it via fill on a miss. The boolean reports whether the payload came from the
// cache. A concurrent writer winning the race is indistinguishable from a hit:
// ErrKeyExists from Put resolves to the stored entry.
func (f *Flight) GetOrFill(ctx context.Context, ns Namespace, key string, fill FillFunc) (json.RawMessage, bool, error) {
	type result struct {
		payload json.RawMessage
		hit     bool
	}

	v, err, _ := f.group.Do(string(ns)+"\x00"+key, func() (any, error) {
		entry, err := f.store.Get(ctx, ns, key)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			return result{payload: entry.Payload, hit: true}, nil
		}

		payload, err := fill(ctx)
		if err != nil {
			return nil, err
		}

		if err := f.store.Put(ctx, ns, key, payload); err != nil {
			if errors.Is(err, ErrKeyExists) {
				// Lost the write race to another process. The stored entry is
				// authoritative; read it back.
				entry, getErr := f.store.Get(ctx, ns, key)
				if getErr != nil {
					return nil, getErr
				}
				if entry == nil {
					return nil, fmt.Errorf("cache: %s entry vanished after conflict on %q", ns, key)
				}
				return result{payload: entry.Payload, hit: true}, nil
			}
			return nil, err
		}
		return result{payload: payload, hit: false}, nil
	})
	if err != nil {
		return nil, false, err
	}

	r := v.(result)
	return r.payload, r.hit, nil
}
