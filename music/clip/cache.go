// Package clip provides a bounded least-recently-used store for
// generated audio buffers, keyed by the synthesizer's parameter keys.
// Repeated requests for identical parameters return the shared buffer
// without regeneration.
package clip

import (
	"container/list"
	"sync"

	"github.com/cwbudde/algo-ambient/music/synth"
)

// Default limits match a few minutes of mono 44.1 kHz material.
const (
	DefaultMaxBytes = 64 * 1024 * 1024
	DefaultMaxCount = 64
)

// GeneratorFunc produces the buffer for a missing key.
type GeneratorFunc func() *synth.Buffer

// Stats describes current cache occupancy and lifetime counters.
type Stats struct {
	Count     int
	Bytes     int
	Seconds   float64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

type entry struct {
	key   string
	buf   *synth.Buffer
	bytes int
}

// Cache is a key→buffer store with LRU eviction under dual limits:
// a maximum entry count and a maximum total byte size. Limits of zero
// or below mean unlimited. All methods are safe for concurrent use;
// lookup, insertion, and eviction are atomic together so the LRU
// invariant holds.
type Cache struct {
	mu sync.Mutex

	maxBytes int
	maxCount int

	entries    map[string]*list.Element
	order      *list.List // front = most recently used
	totalBytes int

	hits      uint64
	misses    uint64
	evictions uint64
}

// New returns a Cache with the given limits. Limits <= 0 are unlimited.
func New(maxBytes, maxCount int) *Cache {
	return &Cache{
		maxBytes: maxBytes,
		maxCount: maxCount,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// GetOrGenerate returns the buffer for key, invoking gen on a miss.
// Both hits and fresh insertions mark the entry most recently used.
// The new entry is inserted before limits are enforced, so eviction
// removes older entries first.
func (c *Cache) GetOrGenerate(key string, gen GeneratorFunc) *synth.Buffer {
	c.mu.Lock()
	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		c.hits++
		buf := elem.Value.(*entry).buf
		c.mu.Unlock()
		return buf
	}
	c.misses++
	c.mu.Unlock()

	// Generation runs outside the lock: it is CPU-bound and must not
	// block concurrent lookups for other keys.
	buf := gen()
	if buf == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have generated the same key meanwhile.
	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*entry).buf
	}

	e := &entry{key: key, buf: buf, bytes: buf.ByteSize()}
	c.entries[key] = c.order.PushFront(e)
	c.totalBytes += e.bytes
	c.evictLocked()
	return buf
}

// SetLimits updates the limits. Reducing them evicts immediately.
func (c *Cache) SetLimits(maxBytes, maxCount int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxBytes = maxBytes
	c.maxCount = maxCount
	c.evictLocked()
}

// Clear removes all entries unconditionally without touching limits.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
	c.totalBytes = 0
}

// Stats returns current occupancy and lifetime hit/miss/eviction counts.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	seconds := 0.0
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		seconds += elem.Value.(*entry).buf.Duration()
	}
	return Stats{
		Count:     c.order.Len(),
		Bytes:     c.totalBytes,
		Seconds:   seconds,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

// evictLocked removes least-recently-used entries until both limits
// hold. The most recently touched entry is never its own victim, so a
// single entry may exceed the byte limit until something newer lands.
func (c *Cache) evictLocked() {
	for c.order.Len() > 1 && c.overLimitLocked() {
		oldest := c.order.Back()
		e := oldest.Value.(*entry)
		c.order.Remove(oldest)
		delete(c.entries, e.key)
		c.totalBytes -= e.bytes
		c.evictions++
	}
}

func (c *Cache) overLimitLocked() bool {
	if c.maxCount > 0 && c.order.Len() > c.maxCount {
		return true
	}
	if c.maxBytes > 0 && c.totalBytes > c.maxBytes {
		return true
	}
	return false
}
