package reactive

import (
	"sync"

	"github.com/vango-dev/store/pkg/store"
)

var _ store.Host = (*Scope)(nil)

// Scope is the render context handed to a RenderFunc. It implements
// store.Host.
type Scope struct {
	c *Component
}

// Component returns the component being rendered.
func (s *Scope) Component() *Component {
	return s.c
}

// OnCleanup registers fn to run when the component unmounts.
func (s *Scope) OnCleanup(fn func()) {
	s.c.owner.OnCleanup(fn)
}

// externalStore is the hook slot behind SyncExternalStore.
type externalStore struct {
	c *Component

	mu          sync.Mutex
	source      any
	getSnapshot func() any
	equal       func(a, b any) bool
	last        any
	unsubscribe func()
}

// SyncExternalStore subscribes the component to an external store on its
// first render and returns the current snapshot. When the store notifies,
// the snapshot is recomputed and the component is marked dirty if it differs
// from the one last rendered. A render that passes a different source moves
// the subscription to it. The subscription ends when the component unmounts.
func (s *Scope) SyncExternalStore(
	source any,
	subscribe func(onChange func()) (unsubscribe func()),
	getSnapshot func() any,
	equal func(a, b any) bool,
) any {
	owner := s.c.owner

	var ext *externalStore
	if slot := owner.UseHookSlot(); slot != nil {
		ext = slot.(*externalStore)
	} else {
		ext = &externalStore{c: s.c}
		owner.SetHookSlot(ext)
		owner.OnCleanup(ext.teardown)
	}

	snap := getSnapshot()

	ext.mu.Lock()
	ext.getSnapshot = getSnapshot
	ext.equal = equal
	ext.last = snap
	var stale func()
	resubscribe := ext.unsubscribe == nil || ext.source != source
	if resubscribe {
		stale = ext.unsubscribe
		ext.source = source
		ext.unsubscribe = nil
	}
	ext.mu.Unlock()

	if resubscribe {
		if stale != nil {
			stale()
		}
		unsub := subscribe(ext.onChange)
		ext.mu.Lock()
		ext.unsubscribe = unsub
		ext.mu.Unlock()
	}

	return snap
}

func (e *externalStore) onChange() {
	e.mu.Lock()
	getSnapshot, equal, last := e.getSnapshot, e.equal, e.last
	e.mu.Unlock()

	if !equal(last, getSnapshot()) {
		e.c.MarkDirty()
	}
}

func (e *externalStore) teardown() {
	e.mu.Lock()
	unsub := e.unsubscribe
	e.unsubscribe = nil
	e.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}
