package csync

import (
	"iter"
	"slices"
	"sync"
)

// Slice is a slice guarded by a RWMutex. Readers get copies, never the
// backing array.
type Slice[T any] struct {
	inner []T
	mu    sync.RWMutex
}

func NewSlice[T any]() *Slice[T] {
	return &Slice[T]{}
}

func NewSliceFrom[T any](s []T) *Slice[T] {
	return &Slice[T]{inner: slices.Clone(s)}
}

func (s *Slice[T]) Append(items ...T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner = append(s.inner, items...)
}

func (s *Slice[T]) Get(index int) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var zero T
	if index < 0 || index >= len(s.inner) {
		return zero, false
	}
	return s.inner[index], true
}

func (s *Slice[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.inner)
}

// Range returns a copy of the items in [from, to), clamped to the slice.
func (s *Slice[T]) Range(from, to int) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	from = max(0, from)
	to = min(to, len(s.inner))
	if from >= to {
		return nil
	}
	return slices.Clone(s.inner[from:to])
}

func (s *Slice[T]) Slice() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.inner)
}

func (s *Slice[T]) Seq() iter.Seq[T] {
	items := s.Slice()
	return func(yield func(T) bool) {
		for _, v := range items {
			if !yield(v) {
				return
			}
		}
	}
}
