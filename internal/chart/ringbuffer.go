package chart

import "sync"

// RingBuffer keeps the newest cap items added to it. It is safe for
// concurrent use.
type RingBuffer[T any] struct {
	mu   sync.RWMutex
	buf  []T
	next int
	full bool
}

// NewRingBuffer returns an empty buffer holding at most capacity items
// (at least one).
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	return &RingBuffer[T]{buf: make([]T, max(capacity, 1))}
}

// Add appends item, evicting the oldest once the buffer is full.
func (r *RingBuffer[T]) Add(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(item)
}

func (r *RingBuffer[T]) add(item T) {
	r.buf[r.next] = item
	r.next++
	if r.next == len(r.buf) {
		r.next = 0
		r.full = true
	}
}

// Replace empties the buffer and adds every item that passes keep, in
// order. Only the newest cap of them survive.
func (r *RingBuffer[T]) Replace(items []T, keep func(T) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.buf)
	r.next, r.full = 0, false
	for _, it := range items {
		if keep == nil || keep(it) {
			r.add(it)
		}
	}
}

// Len returns the number of items held.
func (r *RingBuffer[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.full {
		return len(r.buf)
	}
	return r.next
}

// All returns a copy of the items, oldest first.
func (r *RingBuffer[T]) All() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.full {
		return append([]T(nil), r.buf[:r.next]...)
	}
	out := make([]T, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	return append(out, r.buf[:r.next]...)
}
