// Package errors provides structured, coded errors for the store module.
//
// Every error carries a code (e.g. "E201") that maps to a registered template:
//   - a short message describing the error
//   - a longer explanation
//   - a category (runtime, config, cli)
//
// Programmer errors inside pkg/store and pkg/reactive (setting state while the
// initializer is still running, a host returning a snapshot of the wrong type,
// a flush that never settles) panic with a *StoreError so the code survives
// recover() and shows up in test failures.
//
// # Usage
//
//	err := errors.New("E141").
//	    WithDetail("No store.json found in " + dir).
//	    WithSuggestion("Create store.json or pass --config")
//
//	fmt.Fprintln(os.Stderr, err.Format())
package errors
