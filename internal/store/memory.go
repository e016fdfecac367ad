package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Memory is an in-memory Store that iterates keys in insertion order.
// It is safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	order []string
	data  map[string][]byte
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Save stores a copy of value.
func (m *Memory) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; !ok {
		m.order = append(m.order, key)
	}
	m.data[key] = slices.Clone(value)
	return nil
}

// Read returns a copy of the value under key.
func (m *Memory) Read(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return slices.Clone(v), nil
}

// Delete removes key.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; !ok {
		return nil
	}
	delete(m.data, key)
	m.order = slices.DeleteFunc(m.order, func(k string) bool { return k == key })
	return nil
}

// Keys returns keys in insertion order.
func (m *Memory) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.order), nil
}

// IsEmpty reports whether no keys are stored.
func (m *Memory) IsEmpty(_ context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data) == 0, nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
