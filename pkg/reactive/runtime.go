package reactive

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/vango-dev/store/internal/errors"
)

// DefaultMaxFlushPasses bounds how many render passes one Flush may run.
const DefaultMaxFlushPasses = 100

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the runtime logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

// WithMaxFlushPasses sets the flush pass limit.
func WithMaxFlushPasses(n int) Option {
	return func(rt *Runtime) {
		if n > 0 {
			rt.maxPasses = n
		}
	}
}

// Runtime mounts components and re-renders the dirty ones on Flush.
type Runtime struct {
	root      *Owner
	logger    *slog.Logger
	maxPasses int

	mu      sync.Mutex
	pending []*Component
}

// New creates a runtime with an empty root owner.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		root:      NewOwner(nil),
		logger:    slog.Default(),
		maxPasses: DefaultMaxFlushPasses,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Root returns the runtime's root owner.
func (rt *Runtime) Root() *Owner {
	return rt.root
}

// Mount creates a component under the root owner and renders it once.
func (rt *Runtime) Mount(fn RenderFunc) *Component {
	return rt.MountUnder(rt.root, fn)
}

// MountUnder creates a component whose owner is a child of parent, so it is
// unmounted together with parent.
func (rt *Runtime) MountUnder(parent *Owner, fn RenderFunc) *Component {
	if parent == nil {
		parent = rt.root
	}

	c := &Component{
		id:    nextID(),
		rt:    rt,
		owner: NewOwner(parent),
		fn:    fn,
	}
	c.scope = &Scope{c: c}

	rt.logger.Debug("component mounted", "component", c.id)
	c.render()
	return c
}

// Unmount disposes the component's owner, which runs its cleanups and ends
// its store subscriptions.
func (rt *Runtime) Unmount(c *Component) {
	c.owner.Dispose()
	c.dirty.Store(false)
	rt.logger.Debug("component unmounted", "component", c.id)
}

// Render re-renders c immediately, dirty or not.
func (rt *Runtime) Render(c *Component) error {
	if c.owner.IsDisposed() {
		return errors.New("E204").WithDetail(fmt.Sprintf("component %d", c.id))
	}
	c.dirty.Store(false)
	c.render()
	return nil
}

func (rt *Runtime) enqueue(c *Component) {
	rt.mu.Lock()
	rt.pending = append(rt.pending, c)
	rt.mu.Unlock()
}

func (rt *Runtime) drain() []*Component {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	batch := rt.pending
	rt.pending = nil
	return batch
}

// Pending returns the number of components waiting for a render.
func (rt *Runtime) Pending() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return len(rt.pending)
}

// Flush re-renders dirty components until none are left. Renders that mark
// components dirty again get another pass; after the pass limit Flush stops
// and returns E203, leaving the remaining components queued.
func (rt *Runtime) Flush() error {
	for pass := 0; ; pass++ {
		if pass >= rt.maxPasses {
			if n := rt.Pending(); n > 0 {
				return errors.New("E203").
					WithDetail(fmt.Sprintf("%d components still dirty after %d passes", n, pass))
			}
			return nil
		}

		batch := rt.drain()
		if len(batch) == 0 {
			return nil
		}

		for _, c := range batch {
			if c.owner.IsDisposed() || !c.dirty.Swap(false) {
				continue
			}
			c.render()
		}
	}
}

// Dispose unmounts every component.
func (rt *Runtime) Dispose() {
	rt.root.Dispose()
	rt.drain()
}
