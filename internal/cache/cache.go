// Package cache implements a fixed-capacity, thread-safe key-value cache
// with least-recently-used eviction and binary snapshot persistence.
//
// Entries live in an arena of slots addressed by stable integer handles.
// Each slot carries intrusive prev/next links forming the recency list
// (head = most recently used, tail = least recently used), and a free list
// recycles slots reclaimed by Remove and eviction. The key index maps
// directly to a handle, so lookup, promotion and removal are all O(1).
package cache

import (
	"errors"
	"sync"
	"time"
)

// ErrInvalidCapacity is returned by New when the requested capacity is below 1.
var ErrInvalidCapacity = errors.New("cache capacity must be at least 1")

// handle addresses a slot in the arena. A handle stays valid until its slot
// is reclaimed through the free list.
type handle int32

const noHandle handle = -1

// slot holds one entry together with its intrusive recency links.
type slot struct {
	key          string
	value        []byte
	lastAccessed time.Time
	accessCount  uint64
	prev, next   handle
}

// Cache is a bounded key-value map ordered by recency of access.
// All methods are safe for concurrent use.
type Cache struct {
	mu       sync.RWMutex
	capacity int
	slots    []slot
	free     []handle
	index    map[string]handle
	head     handle // most recently used
	tail     handle // least recently used
}

// New creates a cache holding at most capacity entries.
func New(capacity int) (*Cache, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	return &Cache{
		capacity: capacity,
		slots:    make([]slot, 0, capacity),
		index:    make(map[string]handle, capacity),
		head:     noHandle,
		tail:     noHandle,
	}, nil
}

// Get retrieves a value by key and promotes the entry to most recently used.
// The returned slice is a copy; callers may mutate it freely.
//
// Lookup, access bookkeeping, promotion and the value copy all happen in one
// exclusive critical section, so no concurrent mutation can interleave with
// a logical get.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.index[key]
	if !ok {
		return nil, false
	}

	s := &c.slots[h]
	s.lastAccessed = time.Now()
	s.accessCount++

	c.detach(h)
	c.pushFront(h)
	return cloneBytes(s.value), true
}

// Put stores a key-value pair. An existing entry is updated in place and
// promoted to most recently used; a new entry is inserted at the most
// recently used position, evicting the least recently used entry first when
// the cache is full. It reports whether an eviction occurred.
func (c *Cache) Put(key string, value []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if h, ok := c.index[key]; ok {
		s := &c.slots[h]
		s.value = cloneBytes(value)
		s.lastAccessed = time.Now()
		s.accessCount++

		c.detach(h)
		c.pushFront(h)
		return false
	}

	evicted := false
	if len(c.index) >= c.capacity {
		c.removeSlot(c.tail)
		evicted = true
	}

	h := c.alloc(key, value)
	c.pushFront(h)
	c.index[key] = h
	return evicted
}

// Remove deletes a key if present and reports whether a removal happened.
// Other entries keep their recency order.
func (c *Cache) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.index[key]
	if !ok {
		return false
	}
	c.removeSlot(h)
	return true
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// Len returns the number of entries currently stored.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.index)
}

// Empty reports whether the cache holds no entries.
func (c *Cache) Empty() bool {
	return c.Len() == 0
}

// Capacity returns the configured maximum number of entries.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Keys returns all keys ordered from most to least recently used.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.index))
	for h := c.head; h != noHandle; h = c.slots[h].next {
		out = append(out, c.slots[h].key)
	}
	return out
}

// alloc takes a slot from the free list, or grows the arena, and initializes
// it as a fresh entry. Caller holds the write lock.
func (c *Cache) alloc(key string, value []byte) handle {
	var h handle
	if n := len(c.free); n > 0 {
		h = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		c.slots = append(c.slots, slot{})
		h = handle(len(c.slots) - 1)
	}
	c.slots[h] = slot{
		key:          key,
		value:        cloneBytes(value),
		lastAccessed: time.Now(),
		accessCount:  1,
		prev:         noHandle,
		next:         noHandle,
	}
	return h
}

// removeSlot unlinks a slot, drops its index entry and returns it to the
// free list. Caller holds the write lock.
func (c *Cache) removeSlot(h handle) {
	delete(c.index, c.slots[h].key)
	c.detach(h)
	c.slots[h] = slot{prev: noHandle, next: noHandle}
	c.free = append(c.free, h)
}

// detach unlinks a slot from the recency list.
func (c *Cache) detach(h handle) {
	s := &c.slots[h]
	if s.prev != noHandle {
		c.slots[s.prev].next = s.next
	} else {
		c.head = s.next
	}
	if s.next != noHandle {
		c.slots[s.next].prev = s.prev
	} else {
		c.tail = s.prev
	}
	s.prev, s.next = noHandle, noHandle
}

// pushFront links a detached slot in at the most recently used position.
func (c *Cache) pushFront(h handle) {
	s := &c.slots[h]
	s.prev = noHandle
	s.next = c.head
	if c.head != noHandle {
		c.slots[c.head].prev = h
	}
	c.head = h
	if c.tail == noHandle {
		c.tail = h
	}
}

// pushBack links a detached slot in at the least recently used position.
// Snapshot load uses this to rebuild the recency list in file order.
func (c *Cache) pushBack(h handle) {
	s := &c.slots[h]
	s.next = noHandle
	s.prev = c.tail
	if c.tail != noHandle {
		c.slots[c.tail].next = h
	}
	c.tail = h
	if c.head == noHandle {
		c.head = h
	}
}

// reset drops all entries and recycled slots. Caller holds the write lock.
func (c *Cache) reset() {
	c.slots = c.slots[:0]
	c.free = c.free[:0]
	c.index = make(map[string]handle, c.capacity)
	c.head = noHandle
	c.tail = noHandle
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
