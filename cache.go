package galach

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/nlstn/go-galach/internal/syntax"
)

// parseCache is a bounded map from (grammar, input) to syntax trees, so that
// repeated queries (paging, live search refreshes) skip tokenizing and
// parsing.
//
// Eviction strategy: when the cache reaches its capacity limit the entire map
// is replaced. This is simpler than a true LRU and sufficient for a small
// number of distinct queries repeated many times.
//
// Entries keep the input so that a hash collision is a miss, never a wrong
// tree. A nil *parseCache is a disabled cache. All methods are safe for
// concurrent use.
type parseCache struct {
	mu    sync.RWMutex
	items map[uint64]cacheEntry
	max   int
}

type cacheEntry struct {
	input string
	tree  *syntax.SyntaxTree
}

func newParseCache(max int) *parseCache {
	if max <= 0 {
		return nil
	}
	return &parseCache{
		items: make(map[uint64]cacheEntry, max),
		max:   max,
	}
}

func cacheKey(grammar Grammar, input string) uint64 {
	d := xxhash.New()
	_, _ = d.Write([]byte{byte(grammar)})
	_, _ = d.WriteString(input)
	return d.Sum64()
}

func (c *parseCache) get(key uint64, input string) (*syntax.SyntaxTree, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || e.input != input {
		return nil, false
	}
	return e.tree, true
}

func (c *parseCache) put(key uint64, input string, tree *syntax.SyntaxTree) {
	if c == nil {
		return
	}
	c.mu.Lock()
	if len(c.items) >= c.max {
		// Evict everything and start fresh rather than tracking individual entry ages.
		c.items = make(map[uint64]cacheEntry, c.max)
	}
	c.items[key] = cacheEntry{input: input, tree: tree}
	c.mu.Unlock()
}

func (c *parseCache) len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
