// Package container implements the generic ordered-sequence, pair and
// shared-handle primitives spec.md §4.2 asks the rest of the engine to
// build on: item lists, stream lists and the codec registry all need an
// ordered, sortable, binary-searchable collection plus a reference-counted
// handle to share ownership of heavyweight objects (open streams, codec
// state) across the decoder/encoder and their callers.
//
// Grounded on github.com/nabbar/golib/ioutils/multi's mutex/atomic-guarded
// registry (model.go) generalized from its fixed io.Writer element type to
// a type-parameterized sequence, and on original_source's shared-pointer
// container (the PLzmaSDK C++ engine holds items and streams behind
// refcounted handles so a Decoder and the caller's ItemOutStreamArray can
// both reference the same object).
package container

import (
	"sort"
	"sync"
)

// Sequence is an ordered, mutex-guarded collection of T, generalizing the
// ad hoc slice-plus-mutex shape used throughout nabbar-golib/ioutils.
type Sequence[T any] struct {
	mu    sync.RWMutex
	items []T
}

// NewSequence builds a Sequence preloaded with the given items.
func NewSequence[T any](items ...T) *Sequence[T] {
	s := &Sequence[T]{}
	s.items = append(s.items, items...)
	return s
}

// Push appends one item.
func (s *Sequence[T]) Push(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, v)
}

// Pop removes and returns the last item; ok is false on an empty sequence.
func (s *Sequence[T]) Pop() (v T, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return v, false
	}
	last := len(s.items) - 1
	v = s.items[last]
	s.items = s.items[:last]
	return v, true
}

// At returns the item at index i; ok is false when i is out of range.
func (s *Sequence[T]) At(i int) (v T, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.items) {
		return v, false
	}
	return s.items[i], true
}

// Count returns the number of items.
func (s *Sequence[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Clear empties the sequence.
func (s *Sequence[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Snapshot returns a copy of the backing slice, safe to range over without
// holding the sequence's lock.
func (s *Sequence[T]) Snapshot() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// SortBy sorts the sequence in place using less, stably.
func (s *Sequence[T]) SortBy(less func(a, b T) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sort.SliceStable(s.items, func(i, j int) bool { return less(s.items[i], s.items[j]) })
}

// BinarySearchBy returns the first index for which less returns false
// under the assumption the sequence is already sorted by less, mirroring
// sort.Search. found reports whether that index is an exact match via eq.
func (s *Sequence[T]) BinarySearchBy(less func(a, b T) bool, target T, eq func(a, b T) bool) (idx int, found bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.items)
	idx = sort.Search(n, func(i int) bool { return !less(s.items[i], target) })
	if idx < n && eq(s.items[idx], target) {
		return idx, true
	}
	return idx, false
}
