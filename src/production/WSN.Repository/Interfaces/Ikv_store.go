package interfaces

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a key or entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotFoundOrUnauthorized is returned when an alert does not exist or
	// belongs to a different user. Callers cannot tell the two apart.
	ErrNotFoundOrUnauthorized = errors.New("alert not found or unauthorized")
)

// KVEntry is one raw record from a prefix scan.
type KVEntry struct {
	Key   string
	Value []byte
}

// KVStore is the persistent key-value collaborator every repository is built
// on. Values are stored as JSON documents. Get decodes into out and returns
// ErrNotFound for missing keys; Set is an upsert (last write wins).
type KVStore interface {
	Get(ctx context.Context, key string, out interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
	GetByPrefix(ctx context.Context, prefix string) ([]KVEntry, error)
	Delete(ctx context.Context, key string) error
}
