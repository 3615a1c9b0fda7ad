package main

import (
	"fmt"
	"strings"

	"github.com/vango-dev/store/pkg/reactive"
	"github.com/vango-dev/store/pkg/store"
)

// scenario mounts components on rt using stores built with opts and returns
// the actions to run, one per step.
type scenario func(rt *reactive.Runtime, opts []store.Option) (views []*reactive.Component, step func(i int))

var scenarios = map[string]scenario{
	"counter": counterScenario,
	"todos":   todosScenario,
}

func scenarioNames() []string {
	return []string{"counter", "todos"}
}

// named prepends the store name so callers' options apply after it.
func named(name string, opts []store.Option) []store.Option {
	return append([]store.Option{store.WithName(name)}, opts...)
}

// =============================================================================
// counter
// =============================================================================

type counterState struct {
	Count int
	Inc   func()
	Reset func()
}

func newCounterStore(opts ...store.Option) *store.Store[counterState] {
	return store.New(func(set store.Setter[counterState], get store.Getter[counterState]) counterState {
		return counterState{
			Inc: func() {
				set(store.From(func(s counterState) store.Partial[counterState] {
					return func(next *counterState) { next.Count = s.Count + 1 }
				}))
			},
			Reset: func() {
				set(store.Patch(store.Set(func(s *counterState) *int { return &s.Count }, 0)))
			},
		}
	}, opts...)
}

func counterScenario(rt *reactive.Runtime, opts []store.Option) ([]*reactive.Component, func(int)) {
	counter := newCounterStore(named("counter", opts)...)

	label := rt.Mount(func(scope *reactive.Scope) string {
		n := store.Use(scope, counter, func(s counterState) int { return s.Count })
		return fmt.Sprintf("count=%d", n)
	})
	parity := rt.Mount(func(scope *reactive.Scope) string {
		even := store.Use(scope, counter, func(s counterState) bool { return s.Count%2 == 0 })
		if even {
			return "parity=even"
		}
		return "parity=odd"
	})

	return []*reactive.Component{label, parity}, func(int) {
		counter.GetState().Inc()
	}
}

// =============================================================================
// todos
// =============================================================================

type todo struct {
	Title string
	Done  bool
}

type todoState struct {
	Items     []todo
	Filter    string
	Add       func(title string)
	Toggle    func(i int)
	SetFilter func(filter string)
}

func newTodoStore(opts ...store.Option) *store.Store[todoState] {
	return store.New(func(set store.Setter[todoState], get store.Getter[todoState]) todoState {
		return todoState{
			Filter: "all",
			Add: func(title string) {
				set(store.From(func(s todoState) store.Partial[todoState] {
					items := append(append([]todo(nil), s.Items...), todo{Title: title})
					return func(next *todoState) { next.Items = items }
				}))
			},
			Toggle: func(i int) {
				set(store.From(func(s todoState) store.Partial[todoState] {
					if i < 0 || i >= len(s.Items) {
						return nil
					}
					items := append([]todo(nil), s.Items...)
					items[i].Done = !items[i].Done
					return func(next *todoState) { next.Items = items }
				}))
			},
			SetFilter: func(filter string) {
				set(store.Patch(store.Set(func(s *todoState) *string { return &s.Filter }, filter)))
			},
		}
	}, opts...)
}

func visibleTodos(s todoState) []string {
	var titles []string
	for _, t := range s.Items {
		switch {
		case s.Filter == "done" && !t.Done:
		case s.Filter == "open" && t.Done:
		default:
			titles = append(titles, t.Title)
		}
	}
	return titles
}

func todosScenario(rt *reactive.Runtime, opts []store.Option) ([]*reactive.Component, func(int)) {
	todos := newTodoStore(named("todos", opts)...)

	list := rt.Mount(func(scope *reactive.Scope) string {
		titles := store.Use(scope, todos, visibleTodos)
		return "list=[" + strings.Join(titles, ",") + "]"
	})
	stats := rt.Mount(func(scope *reactive.Scope) string {
		done := store.Use(scope, todos, func(s todoState) int {
			n := 0
			for _, t := range s.Items {
				if t.Done {
					n++
				}
			}
			return n
		})
		total := store.Use(scope, todos, func(s todoState) int { return len(s.Items) })
		return fmt.Sprintf("done=%d/%d", done, total)
	})

	return []*reactive.Component{list, stats}, func(i int) {
		s := todos.GetState()
		s.Add(fmt.Sprintf("task-%d", i+1))
		if i%2 == 1 {
			s.Toggle(i)
		}
		if i == 2 {
			s.SetFilter("open")
		}
	}
}
