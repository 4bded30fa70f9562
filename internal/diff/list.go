package diff

import "sync"

// List holds the snapshot last handed to a rendering surface and produces
// the plan for each new snapshot. Each List is safe for concurrent use;
// separate Lists share nothing.
type List[T any, K comparable] struct {
	mu    sync.Mutex
	key   func(T) K
	equal func(a, b T) bool
	items []T
}

// NewList returns an empty list reconciled by key and equal.
func NewList[T any, K comparable](key func(T) K, equal func(a, b T) bool) *List[T, K] {
	return &List[T, K]{key: key, equal: equal}
}

// Submit replaces the current snapshot with next and returns the plan from
// the previous snapshot. next is copied.
func (l *List[T, K]) Submit(next []T) Plan[K] {
	snapshot := append([]T(nil), next...)

	l.mu.Lock()
	defer l.mu.Unlock()
	plan := Diff(l.items, snapshot, l.key, l.equal)
	l.items = snapshot
	return plan
}

// Items returns a copy of the current snapshot.
func (l *List[T, K]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]T(nil), l.items...)
}

// Len returns the size of the current snapshot.
func (l *List[T, K]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}
