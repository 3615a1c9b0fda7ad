// Package store provides an external state container for reactive UIs.
//
// A Store holds one struct value of application-defined type, a set of change
// listeners, and a setter that shallow-merges partial updates. Components read
// slices of the state through Use, which ties re-rendering to the host
// framework's external-store subscription primitive.
//
// Usage:
//
//	type Counter struct {
//	    Count int
//	    Inc   func()
//	}
//
//	var counter = store.New(func(set store.Setter[Counter], get store.Getter[Counter]) Counter {
//	    return Counter{
//	        Inc: func() {
//	            set(store.From(func(s Counter) store.Partial[Counter] {
//	                return func(next *Counter) { next.Count = s.Count + 1 }
//	            }))
//	        },
//	    }
//	})
//
//	func View(scope *reactive.Scope) string {
//	    count := store.Use(scope, counter, func(s Counter) int { return s.Count })
//	    return fmt.Sprintf("count=%d", count)
//	}
//
// # Updates
//
// A Partial[T] assigns a subset of fields on a copy of the current state.
// SetState copies the current value (a shallow copy: pointers, slices and maps
// are shared), applies the partial, replaces the state and then notifies every
// subscribed listener synchronously. There is no batching: every SetState
// notifies once, and a listener may call SetState again, which nests a new
// notification round.
//
// T should be a struct value type. With a pointer type the "copy" would alias
// the previous state.
package store
