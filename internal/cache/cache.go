// Package cache memoizes pipeline results. The core transform is pure, so a
// result is valid for as long as the raw input it was computed from; entries
// are keyed by a content hash of the raw table plus the normalization
// options, and expire after a TTL so a refreshed upstream dataset is picked
// up without a restart. Failed runs are never stored.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/epiwatch/hfmd-dashboard/internal/domain"
)

// Key derives a cache key from the raw table content and an options
// fingerprint. Identical input bytes under identical options always map to
// the same key; any difference in either produces a different key.
func Key(raw domain.RawTable, fingerprint string) string {
	h := sha256.New()
	h.Write([]byte(fingerprint))
	for _, c := range raw.Columns {
		h.Write([]byte{0})
		h.Write([]byte(c))
	}
	for _, row := range raw.Rows {
		h.Write([]byte{1})
		for _, cell := range row {
			h.Write([]byte{0})
			h.Write([]byte(cell))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Cache is a thread-safe LRU cache with per-entry expiry.
type Cache[V any] struct {
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

// New creates a cache holding at most maxEntries values for at most ttl
// each. A nil clock means the real clock.
func New[V any](maxEntries int, ttl time.Duration, clock clockwork.Clock) *Cache[V] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Cache[V]{
		maxEntries: maxEntries,
		ttl:        ttl,
		clock:      clock,
		entries:    make(map[string]*entry[V]),
	}
}

// Get returns the cached value for key if present and not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.clock.Now().After(e.expiresAt) {
		c.removeEntry(e)
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

// Put stores a value under key, resetting its expiry.
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.clock.Now().Add(c.ttl)
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
		c.evictTail()
	}
}

// Len reports the number of entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[V]) removeEntry(e *entry[V]) {
	delete(c.entries, e.key)
	c.unlink(e)
}

func (c *Cache[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.unlink(e)
	c.addToFront(e)
}

func (c *Cache[V]) addToFront(e *entry[V]) {
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

func (c *Cache[V]) unlink(e *entry[V]) {
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

func (c *Cache[V]) evictTail() {
	if c.tail == nil {
		return
	}
	c.removeEntry(c.tail)
}
