// Package pool holds processed records until every achievable image is in.
//
// A Pool has a hard capacity and an expected count. Images that permanently
// fail are reported with MarkFailed, which lowers the achievable count so the
// completion barrier still fires.
package pool

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrPoolFull is returned by Insert when the pool is at capacity.
	ErrPoolFull = errors.New("pool is full")
	// ErrPoolEmpty is returned by Remove on an empty pool.
	ErrPoolEmpty = errors.New("pool is empty")
)

// Pool is a capacity-bounded, insertion-ordered collection.
type Pool[T any] struct {
	mu       sync.Mutex
	items    []T
	capacity int
	expected int
	failed   int
	done     chan struct{}
	once     *sync.Once
}

// New returns a pool that holds at most capacity items and is complete once
// expected items (minus failures) have been inserted.
func New[T any](capacity, expected int) *Pool[T] {
	p := &Pool[T]{
		items:    make([]T, 0, max(min(capacity, expected), 0)),
		capacity: capacity,
		expected: expected,
	}
	p.resetBarrier()
	p.checkLocked()
	return p
}

// Insert appends v. It fails with ErrPoolFull once the pool holds capacity
// items; the caller still owns v in that case.
func (p *Pool[T]) Insert(v T) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.items) >= p.capacity {
		return fmt.Errorf("%w: capacity %d", ErrPoolFull, p.capacity)
	}
	p.items = append(p.items, v)
	p.checkLocked()
	return nil
}

// MarkFailed records one item that will never arrive.
func (p *Pool[T]) MarkFailed() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed++
	p.checkLocked()
}

// Achievable is the expected count minus permanent failures.
func (p *Pool[T]) Achievable() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.achievableLocked()
}

// Failed returns the number of permanent failures recorded.
func (p *Pool[T]) Failed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed
}

// Len returns the number of items held.
func (p *Pool[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// Cap returns the capacity.
func (p *Pool[T]) Cap() int { return p.capacity }

// IsComplete reports whether every achievable item has been inserted.
func (p *Pool[T]) IsComplete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items) == p.achievableLocked()
}

// Done is closed exactly once, when the pool first becomes complete.
func (p *Pool[T]) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Records returns a copy of the items in insertion order.
func (p *Pool[T]) Records() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

// Remove pops the most recently inserted item.
func (p *Pool[T]) Remove() (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var zero T
	if len(p.items) == 0 {
		return zero, ErrPoolEmpty
	}
	last := p.items[len(p.items)-1]
	p.items[len(p.items)-1] = zero
	p.items = p.items[:len(p.items)-1]
	return last, nil
}

// Clear empties the pool and forgets recorded failures. The barrier is re-armed
// unless nothing is expected.
func (p *Pool[T]) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(p.items)
	p.items = p.items[:0]
	p.failed = 0
	p.resetBarrier()
	p.checkLocked()
}

func (p *Pool[T]) achievableLocked() int {
	return max(p.expected-p.failed, 0)
}

func (p *Pool[T]) resetBarrier() {
	p.done = make(chan struct{})
	p.once = new(sync.Once)
}

func (p *Pool[T]) checkLocked() {
	if len(p.items) == p.achievableLocked() {
		done := p.done
		p.once.Do(func() { close(done) })
	}
}
