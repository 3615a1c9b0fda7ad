package store

import (
	"fmt"
	"sync"

	"github.com/vango-dev/store/internal/errors"
)

// Host is the UI framework's external-store subscription primitive.
//
// SyncExternalStore must:
//   - call subscribe once per source for the calling scope and call the
//     returned unsubscribe when the scope is torn down; when a later render
//     passes a different source, unsubscribe from the old one and subscribe
//     again
//   - return getSnapshot() for the current render
//   - when onChange fires, re-evaluate getSnapshot and schedule a re-render
//     of the scope if equal reports the result differs from the last one
//     rendered
//
// source identifies the store and is comparable with ==. Snapshots cross this
// boundary as any; Use restores the static type.
type Host interface {
	SyncExternalStore(
		source any,
		subscribe func(onChange func()) (unsubscribe func()),
		getSnapshot func() any,
		equal func(a, b any) bool,
	) any
}

// UseOption configures Use and Bind.
type UseOption[V any] func(*useConfig[V])

type useConfig[V any] struct {
	equal func(a, b V) bool
}

// WithEquals replaces the equality used to decide whether the selected value
// changed.
func WithEquals[V any](fn func(a, b V) bool) UseOption[V] {
	return func(c *useConfig[V]) {
		if fn != nil {
			c.equal = fn
		}
	}
}

func resolveUse[V any](opts []UseOption[V]) useConfig[V] {
	cfg := useConfig[V]{equal: defaultEquals[V]}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Use reads selector(state) inside host's current scope and keeps the scope
// subscribed to s, so it re-renders when the selected value changes.
//
// selector must be pure and synchronous: the host may call it several times
// per update, including outside of rendering.
func Use[T, V any](host Host, s *Store[T], selector func(T) V, opts ...UseOption[V]) V {
	cfg := resolveUse(opts)

	snap := host.SyncExternalStore(
		s,
		s.subscribeHook,
		func() any { return selector(s.GetState()) },
		func(a, b any) bool { return cfg.equal(asValue[V](a), asValue[V](b)) },
	)
	return asValue[V](snap)
}

func (s *Store[T]) subscribeHook(onChange func()) func() {
	return s.SubscribeFunc(onChange)
}

// asValue converts a snapshot back to V. A nil snapshot is the zero V.
func asValue[V any](snap any) V {
	if snap == nil {
		var zero V
		return zero
	}
	v, ok := snap.(V)
	if !ok {
		var zero V
		panic(errors.New("E202").
			WithDetail(fmt.Sprintf("got %T, want %T", snap, zero)))
	}
	return v
}

// Selection is a framework-free binding of a selector to a store. It keeps the
// last selected value and calls onChange only when it differs.
type Selection[V any] struct {
	mu    sync.Mutex
	value V
	unsub func()
}

// Bind subscribes to s and tracks selector(state). onChange may be nil.
func Bind[T, V any](s *Store[T], selector func(T) V, onChange func(V), opts ...UseOption[V]) *Selection[V] {
	cfg := resolveUse(opts)

	sel := &Selection[V]{value: selector(s.GetState())}
	sel.unsub = s.SubscribeFunc(func() {
		next := selector(s.GetState())

		sel.mu.Lock()
		changed := !cfg.equal(sel.value, next)
		if changed {
			sel.value = next
		}
		sel.mu.Unlock()

		if changed && onChange != nil {
			onChange(next)
		}
	})
	return sel
}

// Value returns the last selected value.
func (sel *Selection[V]) Value() V {
	sel.mu.Lock()
	defer sel.mu.Unlock()
	return sel.value
}

// Close unsubscribes the selection. Safe to call more than once.
func (sel *Selection[V]) Close() {
	sel.unsub()
}
