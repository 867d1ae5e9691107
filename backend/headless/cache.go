package headless

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/stem/gpucore"
)

// compileCacheSize bounds the number of compiled stages kept by the
// package-level cache.
const compileCacheSize = 128

// stageKey identifies one compilation.
type stageKey struct {
	stage  gpucore.ShaderStage
	source string
}

// compiled is the outcome of one compilation. stageInfo slices are shared
// between cache hits and must not be modified.
type compiled struct {
	info stageInfo
	err  error
}

// stageNode is an entry of the recency list.
type stageNode struct {
	key        stageKey
	value      compiled
	prev, next *stageNode
}

// stageCache is an LRU cache of compiled stages shared by every headless
// driver. Tests compile the same handful of sources over and over, and WGSL
// stages go through the full naga front end.
//
// stageCache is safe for concurrent use.
type stageCache struct {
	mu       sync.Mutex
	entries  map[stageKey]*stageNode
	head     *stageNode // most recently used
	tail     *stageNode
	capacity int

	hits   atomic.Uint64
	misses atomic.Uint64
}

func newStageCache(capacity int) *stageCache {
	return &stageCache{
		entries:  make(map[stageKey]*stageNode),
		capacity: capacity,
	}
}

var compileCache = newStageCache(compileCacheSize)

// compile returns the cached result for key or runs build and caches it.
// build runs under the lock so a source is compiled at most once.
func (c *stageCache) compile(key stageKey, build func() (stageInfo, error)) (stageInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[key]; ok {
		c.moveToFront(n)
		c.hits.Add(1)
		return n.value.info, n.value.err
	}
	c.misses.Add(1)

	info, err := build()
	n := &stageNode{key: key, value: compiled{info: info, err: err}}
	c.entries[key] = n
	c.pushFront(n)
	for len(c.entries) > c.capacity {
		oldest := c.tail
		c.unlink(oldest)
		delete(c.entries, oldest.key)
	}
	return info, err
}

// Len returns the number of cached stages.
func (c *stageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *stageCache) pushFront(n *stageNode) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *stageCache) moveToFront(n *stageNode) {
	if n == c.head {
		return
	}
	c.unlink(n)
	c.pushFront(n)
}

func (c *stageCache) unlink(n *stageNode) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
}
