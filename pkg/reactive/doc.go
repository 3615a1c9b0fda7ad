// Package reactive is a small host UI runtime for stores.
//
// It provides what pkg/store treats as the framework's external-store
// primitive: components with owned scopes, hook slots with stable identity
// across renders, cleanup on unmount, and a flush loop that re-renders the
// components marked dirty.
//
// Usage:
//
//	rt := reactive.New()
//	c := rt.Mount(func(scope *reactive.Scope) string {
//	    n := store.Use(scope, counter, func(s Counter) int { return s.Count })
//	    return fmt.Sprintf("count=%d", n)
//	})
//
//	counter.GetState().Inc()
//	if err := rt.Flush(); err != nil { ... }
//	fmt.Println(c.Output()) // count=1
//
//	rt.Unmount(c) // unsubscribes from counter
//
// Rendering is pull-based: a store change only marks the component dirty, and
// nothing re-renders until Flush is called.
package reactive
