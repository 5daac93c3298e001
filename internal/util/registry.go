package util

import "sync"

// Registry is an insertion ordered, concurrency safe name -> value map.
// Prompts enumerate peers and tools in the order they were added, so plain
// maps are not enough.
type Registry[T any] struct {
	mu    sync.RWMutex
	order []string
	items map[string]T
}

// Put inserts or replaces the value under name. Replacement keeps the
// first position.
func (r *Registry[T]) Put(name string, v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.items == nil {
		r.items = map[string]T{}
	}
	if _, exists := r.items[name]; !exists {
		r.order = append(r.order, name)
	}
	r.items[name] = v
}

// Get returns the value registered under name.
func (r *Registry[T]) Get(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[name]
	return v, ok
}

// Names returns the registered names in insertion order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Values returns the registered values in insertion order.
func (r *Registry[T]) Values() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.items[name])
	}
	return out
}

// Len returns the number of entries.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Add inserts v under name unless the name is taken. It reports whether v
// was inserted.
func (r *Registry[T]) Add(name string, v T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.items == nil {
		r.items = map[string]T{}
	}
	if _, exists := r.items[name]; exists {
		return false
	}
	r.order = append(r.order, name)
	r.items[name] = v
	return true
}
