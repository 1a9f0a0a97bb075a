package hooks

import (
	"context"
	"testing"
	"time"
)

// render drives one full render cycle of a detached scope.
func render(s *Scope, fn func(s *Scope)) {
	s.ComponentWillRender(nil)
	fn(s)
	s.ComponentDidRender()
	s.LayoutDidRender(context.Background())
}

func TestUseStatePersistsAcrossRenders(t *testing.T) {
	s := NewScope(nil, nil, nil)

	var got int
	var set func(int)
	render(s, func(s *Scope) {
		got, set = UseState(s, func() int { return 7 })
	})
	if got != 7 {
		t.Fatalf("initial value = %d, want 7", got)
	}

	set(42)
	render(s, func(s *Scope) {
		got, _ = UseState(s, func() int { return 7 })
	})
	if got != 42 {
		t.Errorf("value after set = %d, want 42", got)
	}
}

func TestUseStateSetterSchedules(t *testing.T) {
	var scheduled int
	s := NewScope(nil, func() { scheduled++ }, nil)

	var set func(string)
	render(s, func(s *Scope) {
		_, set = UseState(s, func() string { return "" })
	})

	set("a")
	set("b")
	if scheduled != 2 {
		t.Errorf("schedule calls = %d, want 2", scheduled)
	}
}

func TestMultipleSlotsKeepOrder(t *testing.T) {
	s := NewScope(nil, nil, nil)

	var a int
	var b string
	var setA func(int)
	body := func(s *Scope) {
		a, setA = UseState(s, func() int { return 1 })
		b, _ = UseState(s, func() string { return "x" })
	}

	render(s, body)
	setA(10)
	render(s, body)

	if a != 10 || b != "x" {
		t.Errorf("slots after re-render: a=%d b=%q, want a=10 b=\"x\"", a, b)
	}
}

func TestUseMemoRecomputesOnlyOnDepsChange(t *testing.T) {
	s := NewScope(nil, nil, nil)

	computes := 0
	body := func(dep int) func(s *Scope) {
		return func(s *Scope) {
			UseMemo(s, func() int {
				computes++
				return dep * 2
			}, []any{dep})
		}
	}

	render(s, body(1))
	render(s, body(1))
	if computes != 1 {
		t.Fatalf("computes with stable deps = %d, want 1", computes)
	}

	render(s, body(2))
	if computes != 2 {
		t.Errorf("computes after deps change = %d, want 2", computes)
	}
}

func TestUseRefIsStable(t *testing.T) {
	s := NewScope(nil, nil, nil)

	var first, second *Ref[int]
	render(s, func(s *Scope) { first = UseRef(s, 5) })
	first.Current = 99
	render(s, func(s *Scope) { second = UseRef(s, 5) })

	if first != second {
		t.Fatal("UseRef returned a different ref on re-render")
	}
	if second.Current != 99 {
		t.Errorf("ref value = %d, want 99", second.Current)
	}
}

func TestUseReducer(t *testing.T) {
	s := NewScope(nil, nil, nil)

	var n int
	var dispatch func(int)
	body := func(s *Scope) {
		n, dispatch = UseReducer(s,
			func() int { return 0 },
			func(state, delta int) int { return state + delta })
	}

	render(s, body)
	dispatch(3)
	dispatch(4)
	render(s, body)
	if n != 7 {
		t.Errorf("reduced state = %d, want 7", n)
	}
}

func TestDepsEqual(t *testing.T) {
	ptr := &struct{}{}
	fn := func() {}

	tests := []struct {
		name string
		prev []any
		next []any
		want bool
	}{
		{"both nil", nil, nil, false},
		{"prev nil", nil, []any{1}, false},
		{"both empty", []any{}, []any{}, true},
		{"equal scalars", []any{1, "a", true}, []any{1, "a", true}, true},
		{"changed scalar", []any{1}, []any{2}, false},
		{"length mismatch", []any{1}, []any{1, 2}, false},
		{"same pointer", []any{ptr}, []any{ptr}, true},
		{"different pointers", []any{new(int)}, []any{new(int)}, false},
		{"same func", []any{fn}, []any{fn}, true},
		{"float equality", []any{1.5}, []any{1.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DepsEqual(tt.prev, tt.next); got != tt.want {
				t.Errorf("DepsEqual(%v, %v) = %v, want %v", tt.prev, tt.next, got, tt.want)
			}
		})
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached in time")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestEffectEmptyDepsRunsOnce(t *testing.T) {
	s := NewScope(nil, nil, nil)

	runs := make(chan struct{}, 8)
	body := func(s *Scope) {
		UseEffect(s, func(ctx context.Context) Cleanup {
			runs <- struct{}{}
			return nil
		}, []any{})
	}

	render(s, body)
	render(s, body)
	render(s, body)

	waitFor(t, func() bool { return len(runs) >= 1 })
	time.Sleep(20 * time.Millisecond)
	if got := len(runs); got != 1 {
		t.Errorf("effect runs = %d, want 1", got)
	}
}

func TestEffectNilDepsRunsEveryRender(t *testing.T) {
	s := NewScope(nil, nil, nil)

	runs := make(chan struct{}, 8)
	body := func(s *Scope) {
		UseEffect(s, func(ctx context.Context) Cleanup {
			runs <- struct{}{}
			return nil
		}, nil)
	}

	render(s, body)
	render(s, body)
	render(s, body)

	waitFor(t, func() bool { return len(runs) >= 3 })
}

func TestEffectCleanupRunsOnUnmount(t *testing.T) {
	s := NewScope(nil, nil, nil)

	cleaned := make(chan struct{}, 1)
	render(s, func(s *Scope) {
		UseEffect(s, func(ctx context.Context) Cleanup {
			return func() { cleaned <- struct{}{} }
		}, []any{})
	})

	s.ComponentWillUnmount(context.Background())
	select {
	case <-cleaned:
	default:
		t.Fatal("cleanup did not run before ComponentWillUnmount returned")
	}
}

func TestUnmountedScopeDoesNotSchedule(t *testing.T) {
	var scheduled int
	s := NewScope(nil, func() { scheduled++ }, nil)

	var set func(int)
	render(s, func(s *Scope) {
		_, set = UseState(s, func() int { return 0 })
	})

	s.ComponentWillUnmount(context.Background())
	set(1)
	if scheduled != 0 {
		t.Errorf("schedule calls after unmount = %d, want 0", scheduled)
	}
}

func TestContextProviderVisibleToChild(t *testing.T) {
	key := NewContextKey[string]("color")

	parent := NewScope(nil, nil, nil)
	render(parent, func(s *Scope) {
		ProvideContext(s, key, "red")
	})

	child := NewScope(parent, nil, nil)
	var got string
	var ok bool
	render(child, func(s *Scope) {
		got, ok = UseContext(s, key)
	})
	if !ok || got != "red" {
		t.Fatalf("child context = (%q, %v), want (\"red\", true)", got, ok)
	}

	// A child override never leaks back to the parent.
	render(child, func(s *Scope) {
		ProvideContext(s, key, "blue")
	})
	var parentVal string
	render(parent, func(s *Scope) {
		parentVal, _ = UseContext(s, key)
	})
	if parentVal != "red" {
		t.Errorf("parent context after child override = %q, want %q", parentVal, "red")
	}
}
