package store

// Partial is a partial state update. It assigns a subset of fields on the copy
// of the current state that becomes the next state. Fields it does not touch
// keep their previous value.
type Partial[T any] func(next *T)

// Merge composes partials left to right. Later partials win for fields that
// several of them assign. Nil partials are skipped.
func Merge[T any](partials ...Partial[T]) Partial[T] {
	return func(next *T) {
		for _, p := range partials {
			if p != nil {
				p(next)
			}
		}
	}
}

// Set returns a partial that assigns v to the field selected by field.
//
//	store.Set(func(s *Todo) *string { return &s.Filter }, "done")
func Set[T, V any](field func(*T) *V, v V) Partial[T] {
	return func(next *T) {
		*field(next) = v
	}
}

// Update is the argument of a Setter: either a partial or an updater that
// derives a partial from the previous state.
type Update[T any] struct {
	partial Partial[T]
	updater func(prev T) Partial[T]
}

// Patch wraps one or more partials as an Update.
func Patch[T any](partials ...Partial[T]) Update[T] {
	if len(partials) == 1 {
		return Update[T]{partial: partials[0]}
	}
	return Update[T]{partial: Merge(partials...)}
}

// From wraps an updater function as an Update. The updater receives the state
// as it was before this update.
func From[T any](fn func(prev T) Partial[T]) Update[T] {
	return Update[T]{updater: fn}
}

// resolve turns the update into a partial against prev.
func (u Update[T]) resolve(prev T) Partial[T] {
	if u.updater != nil {
		return u.updater(prev)
	}
	return u.partial
}

// merge returns the shallow merge of prev and p.
func merge[T any](prev T, p Partial[T]) T {
	next := prev
	if p != nil {
		p(&next)
	}
	return next
}

// Setter is the write half handed to a store's initializer.
type Setter[T any] func(u Update[T])

// Getter is the read half handed to a store's initializer.
type Getter[T any] func() T
