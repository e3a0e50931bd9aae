package tokenstats

import (
	"container/list"
	"sync"
)

// DefaultCacheSize bounds the holder-count cache. Creation bursts on a
// busy endpoint stay well under this; older entries are evicted least
// recently used.
const DefaultCacheSize = 4096

// holderCache memoizes holder counts per token mint so repeated
// notifications for one token cost a single pair of RPC queries.
type holderCache struct {
	mu      sync.Mutex
	maxSize int
	order   *list.List
	entries map[string]*list.Element
}

type cacheEntry struct {
	token string
	count int
}

func newHolderCache(maxSize int) *holderCache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &holderCache{
		maxSize: maxSize,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

func (c *holderCache) get(token string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[token]
	if !ok {
		return 0, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).count, true
}

func (c *holderCache) put(token string, count int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[token]; ok {
		elem.Value.(*cacheEntry).count = count
		c.order.MoveToFront(elem)
		return
	}

	c.entries[token] = c.order.PushFront(&cacheEntry{token: token, count: count})

	if c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).token)
	}
}

func (c *holderCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
