package store

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/store/internal/errors"
)

// Store is an external state container: one state value, a listener set and
// a shallow-merging setter.
type Store[T any] struct {
	name        string
	logger      *slog.Logger
	ctx         context.Context
	middlewares []Middleware

	// mu protects state and ready.
	mu    sync.RWMutex
	state T
	ready bool

	seq atomic.Uint64

	// subs is ordered by subscription time; IDs are unique.
	subs  []Listener
	subMu sync.RWMutex
}

// New creates a store. init is called exactly once, synchronously, before New
// returns and before any listener can exist; its result is the initial state.
//
// The setter and getter handed to init are meant to be captured by closures
// in the returned state (actions). Calling the setter from the body of init
// panics with E201; the getter returns the zero value of T until init returns.
func New[T any](init func(set Setter[T], get Getter[T]) T, opts ...Option) *Store[T] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Store[T]{
		name:        cfg.name,
		logger:      cfg.logger,
		ctx:         cfg.ctx,
		middlewares: cfg.middlewares,
	}

	initial := init(s.SetState, s.GetState)

	s.mu.Lock()
	s.state = initial
	s.ready = true
	s.mu.Unlock()

	s.logger.Debug("store created", "store", s.name)
	return s
}

// Name returns the store name.
func (s *Store[T]) Name() string {
	return s.name
}

// GetState returns the current state.
func (s *Store[T]) GetState() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetState resolves u against the current state, replaces the state with the
// shallow merge of the two and notifies every listener synchronously.
//
// An updater passed via From runs before any lock is taken, so it may call
// GetState or SetState. The partial it returns is merged into the state as it
// is after the updater returns. A panicking listener aborts the rest of the notification round; the state
// has already been replaced by then.
func (s *Store[T]) SetState(u Update[T]) {
	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()
	if !ready {
		panic(errors.New("E201").
			WithDetail("store " + s.name + " was updated before its initializer returned").
			WithSuggestion("Return the initial value from the initializer; call set from actions stored in the state"))
	}

	c := &Commit{
		Store:     s.name,
		Seq:       s.seq.Add(1),
		Listeners: s.Len(),
		ctx:       s.ctx,
	}

	chain(s.middlewares, c, func() {
		s.commit(u)
		s.notify()
	})
}

// Apply is SetState(Patch(partials...)).
func (s *Store[T]) Apply(partials ...Partial[T]) {
	s.SetState(Patch(partials...))
}

// Update is SetState(From(fn)).
func (s *Store[T]) Update(fn func(prev T) Partial[T]) {
	s.SetState(From(fn))
}

// commit resolves the update and replaces the state.
func (s *Store[T]) commit(u Update[T]) {
	p := u.resolve(s.GetState())

	s.mu.Lock()
	s.state = merge(s.state, p)
	s.mu.Unlock()
}

// notify calls every listener subscribed at the start of the round.
// Listeners added during the round are not called; listeners removed during
// the round still are.
func (s *Store[T]) notify() {
	s.subMu.RLock()
	subs := make([]Listener, len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	for _, l := range subs {
		l.OnStoreChange()
	}
}

// Subscribe adds l to the listener set and returns a function that removes
// it. Subscribing a listener whose ID is already present is a no-op (the
// returned function still removes it). Unsubscribing twice is a no-op.
func (s *Store[T]) Subscribe(l Listener) (unsubscribe func()) {
	if l == nil {
		return func() {}
	}

	id := l.ID()

	s.subMu.Lock()
	dup := false
	for _, existing := range s.subs {
		if existing.ID() == id {
			dup = true
			break
		}
	}
	if !dup {
		s.subs = append(s.subs, l)
	}
	n := len(s.subs)
	s.subMu.Unlock()

	s.logger.Debug("store subscribe", "store", s.name, "listener", id, "listeners", n)

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(id) })
	}
}

// SubscribeFunc subscribes fn under a fresh ID. Each call is a separate
// subscription, even for the same function.
func (s *Store[T]) SubscribeFunc(fn func()) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	return s.Subscribe(NewListener(fn))
}

func (s *Store[T]) unsubscribe(id uint64) {
	s.subMu.Lock()
	for i, existing := range s.subs {
		if existing.ID() == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			break
		}
	}
	n := len(s.subs)
	s.subMu.Unlock()

	s.logger.Debug("store unsubscribe", "store", s.name, "listener", id, "listeners", n)
}

// Len returns the number of subscribed listeners.
func (s *Store[T]) Len() int {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	return len(s.subs)
}
