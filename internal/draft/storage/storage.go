// Package storage holds the key-value backends drafts are persisted in.
package storage

import (
	"context"
	"errors"
)

var (
	ErrClosed         = errors.New("storage_closed")
	ErrCorruptPayload = errors.New("corrupt_payload")
)

// Storage is a string key-value store. Get reports found=false, err=nil for
// a missing key.
type Storage interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Named is implemented by backends that report their name for metrics.
type Named interface {
	Backend() string
}

// BackendName returns the backend name of s, or "unknown".
func BackendName(s Storage) string {
	if n, ok := s.(Named); ok {
		return n.Backend()
	}
	return "unknown"
}
