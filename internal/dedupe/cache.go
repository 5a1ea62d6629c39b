// ABOUTME: Thread-safe TTL cache of inbound activity IDs and the replies they produced
// ABOUTME: Lets the gateway replay replies for channel retries instead of running a turn twice

package dedupe

import (
	"container/list"
	"sync"
	"time"
)

// State is what a key's entry says about earlier deliveries.
type State int

const (
	// StateNew means the key was not seen (or expired) and is now reserved by the caller.
	StateNew State = iota
	// StatePending means another caller holds the reservation.
	StatePending
	// StateDone means the key completed and its value is available.
	StateDone
)

type entry[V any] struct {
	at      time.Time
	element *list.Element
	value   V
	pending bool
}

// Cache tracks keys for ttl, holding at most maxSize entries. The oldest
// entry is evicted first when full.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]*entry[V]
	order   *list.List // keys, oldest at front
	ttl     time.Duration
	maxSize int
	now     func() time.Time

	done   chan struct{}
	closed bool
}

// New creates a cache. A background goroutine removes expired entries until Close.
func New[V any](ttl time.Duration, maxSize int) *Cache[V] {
	c := newCache[V](ttl, maxSize)
	go c.cleanup()
	return c
}

func newCache[V any](ttl time.Duration, maxSize int) *Cache[V] {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &Cache[V]{
		entries: make(map[string]*entry[V]),
		order:   list.New(),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
		done:    make(chan struct{}),
	}
}

// Reserve atomically claims key. When it returns StateNew the caller must
// later call Complete or Release. StateDone also returns the stored value.
func (c *Cache[V]) Reserve(key string) (State, V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	if e, ok := c.entries[key]; ok && c.fresh(e) {
		if e.pending {
			return StatePending, zero
		}
		return StateDone, e.value
	}

	c.putLocked(key, &entry[V]{pending: true})
	return StateNew, zero
}

// Complete stores value for a reserved key and starts its TTL.
func (c *Cache[V]) Complete(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.putLocked(key, &entry[V]{value: value})
}

// Release drops a reservation so a retry can run again.
func (c *Cache[V]) Release(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok && e.pending {
		c.order.Remove(e.element)
		delete(c.entries, key)
	}
}

// Len returns the number of tracked keys, including expired ones not yet swept.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[V]) fresh(e *entry[V]) bool {
	return c.now().Sub(e.at) < c.ttl
}

// putLocked inserts or replaces key as the newest entry. Must be called with mu held.
func (c *Cache[V]) putLocked(key string, e *entry[V]) {
	e.at = c.now()

	if old, ok := c.entries[key]; ok {
		e.element = old.element
		c.order.MoveToBack(e.element)
		c.entries[key] = e
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	e.element = c.order.PushBack(key)
	c.entries[key] = e
}

// evictOldest removes the oldest entry. Must be called with mu held.
func (c *Cache[V]) evictOldest() {
	front := c.order.Front()
	if front == nil {
		return
	}
	key, _ := front.Value.(string)
	c.order.Remove(front)
	delete(c.entries, key)
}

func (c *Cache[V]) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.done:
			return
		}
	}
}

// sweep removes expired entries.
func (c *Cache[V]) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if !c.fresh(e) {
			c.order.Remove(e.element)
			delete(c.entries, key)
		}
	}
}

// Close stops the background sweeper. It is safe to call multiple times.
func (c *Cache[V]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		close(c.done)
		c.closed = true
	}
}
