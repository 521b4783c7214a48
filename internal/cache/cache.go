// Package cache provides a time-boxed key/value cache used for fetch
// snapshots and geocoding lookups.
package cache

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Cache is the get/put/expire contract shared by cache consumers.
type Cache[V any] interface {
	// Get returns the value for key if present and not expired.
	Get(key string) (V, bool)
	// Put stores value under key, resetting its time-to-live.
	Put(key string, value V)
	// Expire removes key immediately.
	Expire(key string)
}

// LRU is a thread-safe least-recently-used cache whose entries also expire
// after a fixed time-to-live. A non-positive TTL disables expiry.
type LRU[V any] struct {
	maxEntries int
	ttl        time.Duration
	clock      clockwork.Clock

	mu      sync.Mutex
	entries map[string]*entry[V]
	head    *entry[V] // most recently used
	tail    *entry[V] // least recently used
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
	prev      *entry[V]
	next      *entry[V]
}

// NewLRU creates a cache holding at most maxEntries values for ttl each.
// A nil clock uses real time.
func NewLRU[V any](maxEntries int, ttl time.Duration, clock clockwork.Clock) *LRU[V] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &LRU[V]{
		maxEntries: maxEntries,
		ttl:        ttl,
		clock:      clock,
		entries:    make(map[string]*entry[V]),
	}
}

func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.expired(e) {
		c.delete(e)
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *LRU[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.deadline()
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry[V]{key: key, value: value, expiresAt: expiresAt}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.delete(c.tail)
	}
}

func (c *LRU[V]) Expire(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.delete(e)
	}
}

// Len returns the number of stored entries, including expired ones not yet
// evicted.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *LRU[V]) deadline() time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return c.clock.Now().Add(c.ttl)
}

func (c *LRU[V]) expired(e *entry[V]) bool {
	return !e.expiresAt.IsZero() && !c.clock.Now().Before(e.expiresAt)
}

func (c *LRU[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *LRU[V]) addToFront(e *entry[V]) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *LRU[V]) remove(e *entry[V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *LRU[V]) delete(e *entry[V]) {
	if e == nil {
		return
	}
	delete(c.entries, e.key)
	c.remove(e)
}
