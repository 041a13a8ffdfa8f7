// Package registry provides a generic thread-safe keyed store with an optional
// size bound.
//
// subst engines use it to cache parsed templates by source text, and the
// template store uses it to memoize parsed bindings.
//
//	r := registry.New[string, int](0) // unbounded
//	r.Register("one", 1)
//	v, ok := r.Get("one")
//
// A bounded registry evicts its oldest entry when a new key would exceed the
// capacity. All methods are safe for concurrent use.
package registry

import "sync"

// Registry is a thread-safe map from K to V.
// It uses sync.RWMutex for read-heavy workloads.
type Registry[K comparable, V any] struct {
	mu       sync.RWMutex
	entries  map[K]V
	order    []K
	capacity int
}

// New creates an empty registry holding at most capacity entries.
// A capacity of zero or less means unbounded.
func New[K comparable, V any](capacity int) *Registry[K, V] {
	return &Registry[K, V]{
		entries:  make(map[K]V),
		capacity: capacity,
	}
}

// Register adds or replaces the value for key.
func (r *Registry[K, V]) Register(key K, value V) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store(key, value)
}

// store must be called with the write lock held.
func (r *Registry[K, V]) store(key K, value V) {
	if _, exists := r.entries[key]; !exists {
		if r.capacity > 0 && len(r.entries) >= r.capacity {
			oldest := r.order[0]
			r.order = r.order[1:]
			delete(r.entries, oldest)
		}
		r.order = append(r.order, key)
	}
	r.entries[key] = value
}

// Get returns the value for key and whether it exists.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[key]
	return v, ok
}

// Has reports whether key exists.
func (r *Registry[K, V]) Has(key K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// Delete removes key. Deleting a missing key is a no-op.
func (r *Registry[K, V]) Delete(key K) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[key]; !ok {
		return
	}
	delete(r.entries, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Clear removes every entry.
func (r *Registry[K, V]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[K]V)
	r.order = nil
}

// Keys returns all keys in insertion order.
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]K, len(r.order))
	copy(keys, r.order)
	return keys
}

// Len returns the number of entries.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Range calls fn for each entry in insertion order until fn returns false.
// It iterates over a snapshot, so fn may modify the registry.
func (r *Registry[K, V]) Range(fn func(K, V) bool) {
	r.mu.RLock()
	keys := make([]K, len(r.order))
	copy(keys, r.order)
	values := make([]V, len(keys))
	for i, k := range keys {
		values[i] = r.entries[k]
	}
	r.mu.RUnlock()

	for i, k := range keys {
		if !fn(k, values[i]) {
			return
		}
	}
}

// GetOrCreate returns the value for key, creating it with factory if absent.
//
// The factory runs under the write lock and at most once per key. A factory
// error is returned without storing anything. cached reports whether the value
// was already present.
func (r *Registry[K, V]) GetOrCreate(key K, factory func() (V, error)) (value V, cached bool, err error) {
	r.mu.RLock()
	v, ok := r.entries[key]
	r.mu.RUnlock()
	if ok {
		return v, true, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.entries[key]; ok {
		return v, true, nil
	}

	v, err = factory()
	if err != nil {
		var zero V
		return zero, false, err
	}
	r.store(key, v)
	return v, false, nil
}
