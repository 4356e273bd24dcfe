package cache

import (
	"time"
)

// Timed is a cache that invalidates elements on a timer basis. It is not thread
// safe; the weather client makes one per lookup.
type Timed[V any] struct {
	ttl   time.Duration
	now   func() time.Time
	cache map[string]element[V]
}

// element holds a timestamped value to save.
type element[V any] struct {
	value    V
	creation time.Time
}

// NewTimed creates a new Timed cache where elements will be invalidated after
// a time in cache corresponding to TTL.
func NewTimed[V any](ttl time.Duration) *Timed[V] {
	return &Timed[V]{
		ttl:   ttl,
		now:   time.Now,
		cache: make(map[string]element[V]),
	}
}

// Set assigns a value to a key.
func (c *Timed[V]) Set(key string, val V) {
	c.cache[key] = element[V]{
		value:    val,
		creation: c.now(),
	}
}

// Get retrieves a value for a key. The value may not exist or have expired, in
// which case ok will be false.
func (c *Timed[V]) Get(key string) (value V, ok bool) {
	el, ok := c.cache[key]
	if !ok {
		return value, false
	}

	// in memory elements might still be invalid
	if elapsed := c.now().Sub(el.creation); elapsed > c.ttl {
		delete(c.cache, key)
		return value, false
	}

	return el.value, true
}

// Len is the number of entries held, expired or not.
func (c *Timed[V]) Len() int {
	return len(c.cache)
}
