// Package cache provides a small keyed store of lazily built values. The
// renderer owns one instance per object class (pipelines, bind group layouts,
// bind groups) instead of sharing global maps.
package cache

// Cache maps keys to values built on first access. The zero value is not
// usable; create instances with New. Cache is not safe for concurrent use:
// the renderer touches it only from the rendering thread.
type Cache[K comparable, V any] struct {
	entries map[K]V
}

// New creates an empty cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{entries: make(map[K]V)}
}

// GetOrCreate returns the value for key, calling build to create it on the
// first access. If build returns an error nothing is stored and the error is
// returned. Subsequent calls with the same key never invoke build again.
func (c *Cache[K, V]) GetOrCreate(key K, build func() (V, error)) (V, error) {
	if v, ok := c.entries[key]; ok {
		return v, nil
	}
	v, err := build()
	if err != nil {
		var zero V
		return zero, err
	}
	c.entries[key] = v
	return v, nil
}

// Get returns the cached value for key if present.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	v, ok := c.entries[key]
	return v, ok
}

// Remove deletes the entry for key and returns it, so callers can release
// GPU objects held by the evicted value.
func (c *Cache[K, V]) Remove(key K) (V, bool) {
	v, ok := c.entries[key]
	if ok {
		delete(c.entries, key)
	}
	return v, ok
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	return len(c.entries)
}

// Range calls fn for every entry until fn returns false. Iteration order is
// unspecified.
func (c *Cache[K, V]) Range(fn func(key K, value V) bool) {
	for k, v := range c.entries {
		if !fn(k, v) {
			return
		}
	}
}
