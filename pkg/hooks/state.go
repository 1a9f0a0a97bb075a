package hooks

import "sync"

// stateCell holds one UseState slot. The mutex guards setter calls arriving
// from effect goroutines while a render reads the value.
type stateCell struct {
	mu    sync.Mutex
	value any
}

// UseState returns persistent per-instance state and a setter for it.
//
// On the first render the initializer runs and its result is stored; on
// every subsequent render the stored value for this call site is returned.
// Calling the setter stores the new value and schedules a re-render of the
// owning instance; the new value is observed on that next render.
func UseState[T any](s *Scope, init func() T) (T, func(T)) {
	cell := s.useSlot(func() any {
		return &stateCell{value: init()}
	}).(*stateCell)

	cell.mu.Lock()
	value := cell.value.(T)
	cell.mu.Unlock()

	set := func(next T) {
		cell.mu.Lock()
		cell.value = next
		cell.mu.Unlock()
		s.ScheduleRender()
	}
	return value, set
}

// UseReducer is UseState driven by a reduce function: the dispatcher applies
// reduce to the current value and schedules a re-render.
func UseReducer[T, A any](s *Scope, init func() T, reduce func(T, A) T) (T, func(A)) {
	cell := s.useSlot(func() any {
		return &stateCell{value: init()}
	}).(*stateCell)

	cell.mu.Lock()
	value := cell.value.(T)
	cell.mu.Unlock()

	dispatch := func(action A) {
		cell.mu.Lock()
		cell.value = reduce(cell.value.(T), action)
		cell.mu.Unlock()
		s.ScheduleRender()
	}
	return value, dispatch
}

// Ref is a mutable box whose identity is stable across renders. Mutating
// Current does not schedule a re-render.
type Ref[T any] struct {
	Current T
}

// UseRef returns the same *Ref for this call site on every render,
// initialized once with init.
func UseRef[T any](s *Scope, init T) *Ref[T] {
	return s.useSlot(func() any {
		return &Ref[T]{Current: init}
	}).(*Ref[T])
}
