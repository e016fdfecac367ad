package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// lockRetry is how often a blocked writer retries the lock.
const lockRetry = 200 * time.Millisecond

// LockFile takes an exclusive advisory lock on path, retrying until ctx is done.
func LockFile(ctx context.Context, path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return func() {}, fmt.Errorf("cannot create lock directory: %w", err)
	}
	l := flock.New(path)
	locked, err := l.TryLockContext(ctx, lockRetry)
	if err != nil {
		if ctx.Err() != nil {
			return func() {}, fmt.Errorf("another indexer holds the store lock (%s): %w", path, ctx.Err())
		}
		return func() {}, fmt.Errorf("cannot acquire store lock: %w", err)
	}
	if !locked {
		return func() {}, fmt.Errorf("another indexer holds the store lock (%s)", path)
	}
	return func() { _ = l.Unlock() }, nil
}
