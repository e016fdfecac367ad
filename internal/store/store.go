// Package store defines the durable key/value store the color index is
// persisted in. Keys are category names, values are opaque bytes.
//
// Every backend writes a single key atomically: after Save returns, readers see
// either the previous value or the complete new one.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read for a key that does not exist.
var ErrNotFound = errors.New("key not found")

// Store is a durable key/value store.
type Store interface {
	// Save writes value under key, replacing any previous value.
	Save(ctx context.Context, key string, value []byte) error
	// Read returns the value under key or an error satisfying
	// errors.Is(err, ErrNotFound).
	Read(ctx context.Context, key string) ([]byte, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists every key in the backend's iteration order.
	Keys(ctx context.Context) ([]string, error)
	// IsEmpty reports whether the store holds no keys.
	IsEmpty(ctx context.Context) (bool, error)
	Close() error
}

// Locker is implemented by stores that can take an exclusive, cross-process
// writer lock. The returned function releases it.
type Locker interface {
	Lock(ctx context.Context) (unlock func(), err error)
}

// Lock takes s's writer lock when s supports one and is a no-op otherwise.
func Lock(ctx context.Context, s Store) (func(), error) {
	if l, ok := s.(Locker); ok {
		return l.Lock(ctx)
	}
	return func() {}, nil
}

// IsEmptyByKeys implements IsEmpty on top of Keys.
func IsEmptyByKeys(ctx context.Context, s Store) (bool, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return false, err
	}
	return len(keys) == 0, nil
}
