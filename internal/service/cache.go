// Package service wires the domain packages (matcher, evaluate, batch,
// inherit, compare, simulate, delegation) into a single Engine facade.
package service

import (
	"sync"

	"github.com/sentrypolicy/authzcore/internal/domain/policy"
)

// resultEntry is a doubly-linked list node for the LRU decision cache: a
// bounded LRU shape keyed by a hash of (subject, resource, action).
type resultEntry struct {
	key        uint64
	effect     policy.Effect
	prev, next *resultEntry
}

// resultCache is a bounded LRU cache of resolved decisions. Thread-safe
// with a single mutex, since both Get and Put mutate LRU order.
type resultCache struct {
	mu      sync.Mutex
	entries map[uint64]*resultEntry
	head    *resultEntry
	tail    *resultEntry
	maxSize int
}

func newResultCache(maxSize int) *resultCache {
	return &resultCache{entries: make(map[uint64]*resultEntry, maxSize), maxSize: maxSize}
}

func (c *resultCache) Get(key uint64) (policy.Effect, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		c.moveToHeadLocked(e)
		return e.effect, true
	}
	return "", false
}

func (c *resultCache) Put(key uint64, effect policy.Effect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		e.effect = effect
		c.moveToHeadLocked(e)
		return
	}
	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictTailLocked()
	}
	e := &resultEntry{key: key, effect: effect}
	c.entries[key] = e
	c.pushHeadLocked(e)
}

func (c *resultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]*resultEntry, c.maxSize)
	c.head, c.tail = nil, nil
}

func (c *resultCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *resultCache) moveToHeadLocked(e *resultEntry) {
	if c.head == e {
		return
	}
	c.unlinkLocked(e)
	c.pushHeadLocked(e)
}

func (c *resultCache) pushHeadLocked(e *resultEntry) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *resultCache) unlinkLocked(e *resultEntry) {
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
	e.prev, e.next = nil, nil
}

func (c *resultCache) evictTailLocked() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.unlinkLocked(c.tail)
}
