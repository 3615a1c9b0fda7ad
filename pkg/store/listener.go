package store

import "sync/atomic"

// Listener is notified after every state update.
type Listener interface {
	// OnStoreChange is called synchronously, with no arguments, after the
	// state has been replaced.
	OnStoreChange()

	// ID identifies the listener. A store holds at most one listener per ID.
	ID() uint64
}

var idCounter uint64

// NextID returns a process-wide unique listener ID.
func NextID() uint64 {
	return atomic.AddUint64(&idCounter, 1)
}

// funcListener adapts a plain function to Listener.
type funcListener struct {
	id uint64
	fn func()
}

// NewListener wraps fn as a Listener with a fresh ID.
func NewListener(fn func()) Listener {
	return &funcListener{id: NextID(), fn: fn}
}

func (l *funcListener) OnStoreChange() { l.fn() }
func (l *funcListener) ID() uint64     { return l.id }
