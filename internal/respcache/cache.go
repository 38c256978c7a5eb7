// Package respcache implements the response cache: a size-bounded LRU with
// per-entry absolute expiry, keyed by the opaque cache-key format
// "<canonical-host>$<request-url>" (the key's shape is owned by the
// dispatcher; this package treats it as an opaque string).
package respcache

import (
	"sync"
	"time"

	"github.com/hookhost/hookhost/internal/descriptor"
	"github.com/hookhost/hookhost/internal/list"
)

// Entry is a single cached response.
type Entry struct {
	Key        string
	Descriptor descriptor.Descriptor
	Size       int64
	ExpiresAt  time.Time
}

// Cache is an LRU of Entry values bounded by total byte size, not entry
// count. A sizeLimit of 0 disables the size bound (entries only leave via
// expiry-on-read or explicit removal).
type Cache struct {
	mu        sync.Mutex
	sizeLimit int64
	totalSize int64
	index     map[string]*list.Element[*Entry]
	order     *list.List[*Entry] // MRU at Front, LRU at Back
	now       func() time.Time
}

// New returns an empty cache bounded at sizeLimit bytes.
func New(sizeLimit int64) *Cache {
	return &Cache{
		sizeLimit: sizeLimit,
		index:     make(map[string]*list.Element[*Entry]),
		order:     list.New[*Entry](),
		now:       time.Now,
	}
}

// TotalSize returns the current sum of entry sizes.
func (c *Cache) TotalSize() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalSize
}

// Len returns the current entry count.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Get looks up key. A live hit moves the entry to MRU and returns its
// descriptor. An expired entry is evicted as part of the lookup and
// reported as a miss, per §4.3's "lookup of an expired entry removes it".
func (c *Cache) Get(key string) (descriptor.Descriptor, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[key]
	if !ok {
		return descriptor.Descriptor{}, false
	}
	if c.now().After(elem.Value.ExpiresAt) {
		c.removeLocked(elem)
		return descriptor.Descriptor{}, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.Descriptor, true
}

// Put inserts or refreshes key. If key is already present, its descriptor,
// size and expiry are replaced and totalSize is adjusted by the delta; the
// entry also moves to MRU. After insertion, LRU-tail entries are evicted
// while totalSize exceeds sizeLimit (when sizeLimit > 0). Eviction never
// considers expiry, only recency (§4.3).
func (c *Cache) Put(key string, d descriptor.Descriptor, size int64, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[key]; ok {
		c.totalSize += size - elem.Value.Size
		elem.Value.Descriptor = d
		elem.Value.Size = size
		elem.Value.ExpiresAt = expiresAt
		c.order.MoveToFront(elem)
	} else {
		entry := &Entry{Key: key, Descriptor: d, Size: size, ExpiresAt: expiresAt}
		elem := c.order.PushFront(entry)
		c.index[key] = elem
		c.totalSize += size
	}

	c.evictOverLimitLocked()
}

// Remove evicts key unconditionally, if present.
func (c *Cache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.index[key]; ok {
		c.removeLocked(elem)
	}
}

func (c *Cache) evictOverLimitLocked() {
	if c.sizeLimit <= 0 {
		return
	}
	for c.totalSize > c.sizeLimit {
		tail := c.order.Back()
		if tail == nil {
			return
		}
		c.removeLocked(tail)
	}
}

func (c *Cache) removeLocked(elem *list.Element[*Entry]) {
	delete(c.index, elem.Value.Key)
	c.order.Remove(elem)
	c.totalSize -= elem.Value.Size
}
