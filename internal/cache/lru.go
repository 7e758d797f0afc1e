package cache

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/rvec/resource"
)

// LRUBlockCache is an LRU BlockCache bounded by capacity bytes.
type LRUBlockCache struct {
	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[Key]*list.Element
	evictList *list.List
	rc        *resource.Controller

	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	key   Key
	value []byte
}

// NewLRUBlockCache creates a cache of capacity bytes. rc may be nil.
func NewLRUBlockCache(capacity int64, rc *resource.Controller) *LRUBlockCache {
	return &LRUBlockCache{
		capacity:  capacity,
		items:     make(map[Key]*list.Element),
		evictList: list.New(),
		rc:        rc,
	}
}

func (c *LRUBlockCache) Get(_ context.Context, key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(el)
		return el.Value.(*entry).value, true
	}
	c.misses.Add(1)
	return nil, false
}

// Set caches b. Blocks larger than the capacity, or denied by the resource
// controller, are not cached.
func (c *LRUBlockCache) Set(_ context.Context, key Key, b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := int64(len(b))
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry)
		old := int64(len(e.value))
		if n > old && !c.rc.TryAcquireMemory(n-old) {
			return
		}
		if n < old {
			c.rc.ReleaseMemory(old - n)
		}
		c.size += n - old
		e.value = b
		c.evictList.MoveToFront(el)
		c.evict()
		return
	}

	if n > c.capacity {
		return
	}
	for c.size+n > c.capacity {
		back := c.evictList.Back()
		if back == nil {
			break
		}
		c.removeElement(back)
	}
	if !c.rc.TryAcquireMemory(n) {
		return
	}
	c.items[key] = c.evictList.PushFront(&entry{key: key, value: b})
	c.size += n
}

func (c *LRUBlockCache) Invalidate(predicate func(key Key) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var doomed []*list.Element
	for k, el := range c.items {
		if predicate(k) {
			doomed = append(doomed, el)
		}
	}
	for _, el := range doomed {
		c.removeElement(el)
	}
}

func (c *LRUBlockCache) evict() {
	for c.size > c.capacity {
		back := c.evictList.Back()
		if back == nil {
			return
		}
		c.removeElement(back)
	}
}

func (c *LRUBlockCache) removeElement(el *list.Element) {
	c.evictList.Remove(el)
	e := el.Value.(*entry)
	delete(c.items, e.key)
	n := int64(len(e.value))
	c.size -= n
	c.rc.ReleaseMemory(n)
}

// Close drops every entry and returns its memory.
func (c *LRUBlockCache) Close() error {
	c.Invalidate(func(Key) bool { return true })
	return nil
}

func (c *LRUBlockCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Size returns the cached bytes.
func (c *LRUBlockCache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Len returns the number of cached blocks.
func (c *LRUBlockCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
