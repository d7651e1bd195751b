// Package state provides the snapshot container backing the reactive stores.
// A container holds one immutable state value that is replaced atomically on
// every update and fanned out to subscribers, so derived views recompute
// whenever the snapshot changes.
package state

import "sync"

type Container[S any] struct {
	mu     sync.RWMutex
	snap   S
	nextID int
	subs   map[int]func(S)
}

func New[S any](initial S) *Container[S] {
	return &Container[S]{snap: initial, subs: make(map[int]func(S))}
}

// Snapshot returns the current state value. S must be treated as immutable:
// callers never mutate slices or maps reachable from it.
func (c *Container[S]) Snapshot() S {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Update replaces the snapshot with mutate's return value and notifies all
// subscribers with the new snapshot. mutate receives a copy of the current
// value; partial in-place mutation of shared state is impossible by
// construction.
func (c *Container[S]) Update(mutate func(S) S) {
	c.mu.Lock()
	next := mutate(c.snap)
	c.snap = next
	subs := make([]func(S), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	// Notify outside the lock so a subscriber may read the container again.
	for _, fn := range subs {
		fn(next)
	}
}

// Subscribe registers fn to run on every snapshot replacement and returns an
// unsubscribe func. fn is invoked synchronously from the updating goroutine.
func (c *Container[S]) Subscribe(fn func(S)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}
