package reactive

import (
	"sync"
	"sync/atomic"
)

// RenderFunc renders a component. It must only read state through the scope's
// hooks and must not block.
type RenderFunc func(scope *Scope) string

// Component is a mounted render function with its own Owner.
type Component struct {
	id    uint64
	rt    *Runtime
	owner *Owner
	fn    RenderFunc
	scope *Scope

	dirty atomic.Bool

	mu      sync.RWMutex
	output  string
	renders int
}

// ID returns the component's listener identity.
func (c *Component) ID() uint64 {
	return c.id
}

// Owner returns the component's scope owner.
func (c *Component) Owner() *Owner {
	return c.owner
}

// Output returns the result of the last render.
func (c *Component) Output() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.output
}

// Renders returns how many times the component has rendered.
func (c *Component) Renders() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.renders
}

// IsMounted reports whether the component has not been unmounted.
func (c *Component) IsMounted() bool {
	return !c.owner.IsDisposed()
}

// IsDirty reports whether a re-render is scheduled.
func (c *Component) IsDirty() bool {
	return c.dirty.Load()
}

// MarkDirty schedules a re-render on the next Flush. Repeated calls before
// the flush schedule one render.
func (c *Component) MarkDirty() {
	if c.owner.IsDisposed() {
		return
	}
	if c.dirty.Swap(true) {
		return
	}
	c.rt.enqueue(c)
}

func (c *Component) render() {
	c.owner.StartRender()
	out := c.fn(c.scope)

	c.mu.Lock()
	c.output = out
	c.renders++
	n := c.renders
	c.mu.Unlock()

	c.rt.logger.Debug("component rendered", "component", c.id, "renders", n)
}
