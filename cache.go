package engine

import "fmt"

// simpleCache is a capacity-bounded, key-to-index cache: register an item
// under a string key once, then look it up by key or by the index it was
// assigned. Adapted from the teacher's SimpleCache to memoize the
// scheduler's per-phase color-group plan, keyed by a fingerprint of that
// phase's current bundle signatures, instead of a table lookup.
type simpleCache[T any] struct {
	items       []T
	itemIndices map[string]int
	maxCapacity int
}

func newSimpleCache[T any](capacity int) *simpleCache[T] {
	return &simpleCache[T]{itemIndices: make(map[string]int), maxCapacity: capacity}
}

func (c *simpleCache[T]) GetIndex(key string) (int, bool) {
	index, ok := c.itemIndices[key]
	return index, ok
}

func (c *simpleCache[T]) GetItem(index int) *T {
	return &c.items[index]
}

func (c *simpleCache[T]) Register(key string, item T) (int, error) {
	if len(c.itemIndices) >= c.maxCapacity {
		return -1, fmt.Errorf("engine: schedule plan cache at capacity (%d)", c.maxCapacity)
	}
	idx := len(c.items)
	c.itemIndices[key] = idx
	c.items = append(c.items, item)
	return idx, nil
}

func (c *simpleCache[T]) Clear() {
	c.items = c.items[:0]
	clear(c.itemIndices)
}

// planCache memoizes colorBundles' output per phase, since a phase's
// bundle set (and therefore its coloring) only changes when systems are
// added or removed, not every frame.
type planCache struct {
	cache *simpleCache[[][]int]
}

func newPlanCache() *planCache {
	return &planCache{cache: newSimpleCache[[][]int](int(phaseCount) * 8)}
}

// lookupOrCompute returns the cached color-group plan for key, computing and
// registering it via compute if this is the first time key has been seen
// (or the cache has been reset after a registration change).
func (p *planCache) lookupOrCompute(key string, compute func() [][]int) [][]int {
	if idx, ok := p.cache.GetIndex(key); ok {
		return *p.cache.GetItem(idx)
	}
	groups := compute()
	if _, err := p.cache.Register(key, groups); err != nil {
		// Cache exhaustion just means we recompute every time; correctness
		// doesn't depend on the memoization hitting.
		return groups
	}
	return groups
}

// reset drops every memoized plan, needed after AddSystem changes a phase's
// bundle signature space.
func (p *planCache) reset() {
	p.cache.Clear()
}
