// Package kv defines the key-value contract that task lists are persisted
// through, plus namespacing and an in-memory implementation.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("kv: key not found")

// KV is the interface for a persistent string key-value store.
// Values are opaque strings; callers own their encoding.
type KV interface {
	// Get returns the value stored under key.
	// Returns an error wrapping ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value string) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Has reports whether a key exists.
	Has(ctx context.Context, key string) (bool, error)

	// ListKeys returns all keys in sorted order.
	ListKeys(ctx context.Context) ([]string, error)
}
