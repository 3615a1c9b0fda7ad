package store

import "testing"

type profile struct {
	Name  string
	Email string
	Age   int
}

func TestMergeAppliesLeftToRight(t *testing.T) {
	p := Merge(
		Set(func(s *profile) *string { return &s.Name }, "ada"),
		nil,
		Set(func(s *profile) *int { return &s.Age }, 36),
		Set(func(s *profile) *string { return &s.Name }, "grace"),
	)

	got := merge(profile{Email: "x@example.com"}, p)
	want := profile{Name: "grace", Email: "x@example.com", Age: 36}
	if got != want {
		t.Errorf("merge = %+v, want %+v", got, want)
	}
}

func TestMergeDoesNotTouchPrevious(t *testing.T) {
	prev := profile{Name: "ada"}
	next := merge(prev, Set(func(s *profile) *string { return &s.Name }, "grace"))

	if prev.Name != "ada" {
		t.Errorf("prev mutated: %+v", prev)
	}
	if next.Name != "grace" {
		t.Errorf("next = %+v", next)
	}
}

func TestPatchMultiple(t *testing.T) {
	s := New(func(Setter[profile], Getter[profile]) profile {
		return profile{Name: "ada", Age: 1}
	})

	s.SetState(Patch(
		func(next *profile) { next.Age = 2 },
		func(next *profile) { next.Email = "ada@example.com" },
	))

	got := s.GetState()
	if got != (profile{Name: "ada", Email: "ada@example.com", Age: 2}) {
		t.Errorf("GetState() = %+v", got)
	}
}

func TestUpdateResolve(t *testing.T) {
	u := From(func(prev profile) Partial[profile] {
		return func(next *profile) { next.Age = prev.Age + 10 }
	})

	got := merge(profile{Age: 5}, u.resolve(profile{Age: 5}))
	if got.Age != 15 {
		t.Errorf("Age = %d, want 15", got.Age)
	}

	var zero Update[profile]
	if zero.resolve(profile{}) != nil {
		t.Error("zero Update should resolve to a nil partial")
	}
}
