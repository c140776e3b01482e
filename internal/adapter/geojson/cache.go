package geojson

import (
	"container/list"
	"sync"
)

// stateCache holds per-state feature subsets, evicting the least recently
// read prefix once capacity is exceeded.
type stateCache[V any] struct {
	capacity int

	mu    sync.Mutex
	order *list.List // front is most recently used
	index map[string]*list.Element
}

type cached[V any] struct {
	prefix string
	subset V
}

func newStateCache[V any](capacity int) *stateCache[V] {
	return &stateCache[V]{
		capacity: max(1, capacity),
		order:    list.New(),
		index:    make(map[string]*list.Element),
	}
}

func (c *stateCache[V]) get(prefix string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[prefix]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cached[V]).subset, true
}

func (c *stateCache[V]) put(prefix string, subset V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[prefix]; ok {
		el.Value.(*cached[V]).subset = subset
		c.order.MoveToFront(el)
		return
	}
	c.index[prefix] = c.order.PushFront(&cached[V]{prefix: prefix, subset: subset})

	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.index, oldest.Value.(*cached[V]).prefix)
	}
}
