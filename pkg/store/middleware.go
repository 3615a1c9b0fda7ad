package store

import "context"

// Commit describes one SetState call as it passes through middleware.
type Commit struct {
	// Store is the store name (see WithName).
	Store string

	// Seq is the 1-based sequence number of this update within the store.
	Seq uint64

	// Listeners is the number of listeners subscribed when the update started.
	Listeners int

	ctx context.Context
}

// Context returns the commit's context. Never nil.
func (c *Commit) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// SetContext replaces the context seen by later middleware in the chain.
func (c *Commit) SetContext(ctx context.Context) {
	if ctx != nil {
		c.ctx = ctx
	}
}

// Middleware wraps a commit. next performs the merge and the listener
// notification; a middleware must call it exactly once and must not recover
// panics it does not re-raise.
type Middleware func(c *Commit, next func())

// chain builds the call order: the first middleware is outermost.
func chain(mws []Middleware, c *Commit, final func()) {
	if len(mws) == 0 {
		final()
		return
	}
	next := final
	for i := len(mws) - 1; i >= 0; i-- {
		mw, inner := mws[i], next
		next = func() { mw(c, inner) }
	}
	next()
}
