// Package file is a Store backed by one file per key in a directory.
//
// Values are written to a temporary file and renamed into place, so a key is
// either fully present or absent. Keys are listed in lexical order.
package file

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kamusis/pixdex/internal/store"
)

const (
	valueExt = ".json"
	tmpGlob  = ".tmp-*"
	lockName = ".lock"
)

// Store keeps each key in <dir>/<escaped key>.json.
type Store struct {
	dir string
}

// Open returns a Store rooted at dir, creating it if needed.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("file store: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create store dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(key string) string {
	name := url.PathEscape(key)
	if strings.HasPrefix(name, ".") {
		name = "%2E" + name[1:]
	}
	return filepath.Join(s.dir, name+valueExt)
}

// Save writes value atomically via rename.
func (s *Store) Save(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, tmpGlob)
	if err != nil {
		return fmt.Errorf("cannot create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("cannot write %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("cannot sync %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("cannot install %s: %w", key, err)
	}
	return nil
}

// Read returns the value under key.
func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, key)
		}
		return nil, fmt.Errorf("cannot read %s: %w", key, err)
	}
	return b, nil
}

// Delete removes key.
func (s *Store) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cannot delete %s: %w", key, err)
	}
	return nil
}

// Keys lists keys in lexical order.
func (s *Store) Keys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("cannot list store dir %s: %w", s.dir, err)
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, valueExt) {
			continue
		}
		key, err := url.PathUnescape(strings.TrimSuffix(name, valueExt))
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// IsEmpty reports whether the directory holds no values.
func (s *Store) IsEmpty(ctx context.Context) (bool, error) {
	return store.IsEmptyByKeys(ctx, s)
}

// Lock takes the directory's writer lock.
func (s *Store) Lock(ctx context.Context) (func(), error) {
	return store.LockFile(ctx, filepath.Join(s.dir, lockName))
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
