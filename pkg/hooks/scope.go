package hooks

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Phase tracks where a scope is in its render life cycle.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseWillRender
	PhaseRendering
	PhaseDidRender
	PhaseUnmounted
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseWillRender:
		return "WillRender"
	case PhaseRendering:
		return "Rendering"
	case PhaseDidRender:
		return "DidRender"
	case PhaseUnmounted:
		return "Unmounted"
	default:
		return "Unknown"
	}
}

// Scope owns all persistent state for one component instance across its
// repeated renders: the ordered hook state slots, the effects the instance
// has scheduled, and the context providers visible to it.
//
// Hook functions (UseState, UseEffect, ...) take the Scope explicitly; there
// is no ambient "current scope". The layout passes each component its own
// Scope when it renders it.
//
// Contract: a component must call the same hooks in the same order on every
// render. Violations are not detected; they silently associate a call with
// the wrong slot.
type Scope struct {
	id string

	// renderMu serializes renders of this instance. A second concurrent
	// render attempt blocks here instead of racing the slot cursor.
	renderMu sync.Mutex

	// schedule enqueues a re-render of this instance with the owning layout.
	schedule func()

	logger *slog.Logger

	// component is the latest component value rendered at this position.
	component any

	// Ordered hook state, one entry per hook call site.
	slots  []any
	cursor int

	// Effect slots, parallel ordering to their UseEffect call sites.
	effects      []*effectSlot
	effectCursor int

	// providers maps context keys to provided values. Copied from the
	// parent scope at creation, then overwritten by this scope's providers.
	providers map[any]any

	phase    Phase
	rendered bool // true once the first render completed

	unmounted atomic.Bool
}

// NewScope creates the scope for a newly mounted component instance.
// The parent's context providers are copied, not shared: a child may
// overwrite entries without affecting the parent. schedule is invoked by
// ScheduleRender to request a re-render; it may be nil for detached scopes.
func NewScope(parent *Scope, schedule func(), logger *slog.Logger) *Scope {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scope{
		id:       uuid.NewString(),
		schedule: schedule,
		logger:   logger,
	}
	if parent != nil && len(parent.providers) > 0 {
		s.providers = make(map[any]any, len(parent.providers))
		for k, v := range parent.providers {
			s.providers[k] = v
		}
	}
	return s
}

// ID returns the opaque token identifying this component instance. It is
// stable across re-renders and is what the layout's render queue carries.
func (s *Scope) ID() string {
	return s.id
}

// Rendered reports whether the scope has completed at least one render.
func (s *Scope) Rendered() bool {
	return s.rendered
}

// Component returns the latest component value rendered in this scope.
func (s *Scope) Component() any {
	return s.component
}

// Logger returns the scope's logger.
func (s *Scope) Logger() *slog.Logger {
	return s.logger
}

// ComponentWillRender acquires the render mutex, records the component and
// resets the hook cursors. Every call must be paired with
// ComponentDidRender.
func (s *Scope) ComponentWillRender(component any) {
	s.renderMu.Lock()
	s.phase = PhaseWillRender
	s.component = component
	s.cursor = 0
	s.effectCursor = 0
	s.phase = PhaseRendering
}

// ComponentDidRender releases the render mutex and marks the scope as
// having rendered at least once. Effects queued during the render are not
// started here; they start in LayoutDidRender once the whole layout pass
// is finished.
func (s *Scope) ComponentDidRender() {
	s.phase = PhaseDidRender
	s.rendered = true
	s.cursor = 0
	s.renderMu.Unlock()
}

// LayoutDidRender starts background tasks for every effect whose
// dependencies changed during the last render. For each slot the previous
// task is stopped and its cleanup awaited before the replacement starts.
// ctx is the layout's base context: cancelling it cancels every effect.
//
// The render mutex is held for the whole pass. Effect slots are only ever
// touched under it, so a concurrent re-render of the same instance or an
// unmount racing this call serializes instead of interleaving, and no effect
// can start once the instance is unmounted.
func (s *Scope) LayoutDidRender(ctx context.Context) {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	if s.unmounted.Load() {
		return
	}
	for _, slot := range s.effects {
		if !slot.restart {
			continue
		}
		slot.restart = false
		slot.stop(ctx, s.logger)
		slot.start(ctx, s.logger)
	}
}

// ComponentWillUnmount signals cancellation to every running effect task and
// awaits their completion so cleanup functions run, then clears the effect
// bookkeeping. The wait is bounded by ctx. Effect errors are logged, never
// returned.
func (s *Scope) ComponentWillUnmount(ctx context.Context) {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	if s.unmounted.Swap(true) {
		return
	}
	s.phase = PhaseUnmounted
	for i := len(s.effects) - 1; i >= 0; i-- {
		s.effects[i].stop(ctx, s.logger)
	}
	s.effects = nil
	s.slots = nil
}

// ScheduleRender requests a re-render of this instance. It is safe to call
// from any goroutine, including state setters invoked by effects and event
// handlers. Scheduling is idempotent within one pending cycle: the layout
// deduplicates repeat requests for the same instance. A panic from the
// scheduling callback is logged and swallowed so a broken scheduler cannot
// crash the tree.
func (s *Scope) ScheduleRender() {
	if s.unmounted.Load() || s.schedule == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("schedule render panicked", "scope_id", s.id, "panic", r)
		}
	}()
	s.schedule()
}

// useSlot returns the state slot for the current hook call site, creating
// it with create on the first render.
func (s *Scope) useSlot(create func() any) any {
	idx := s.cursor
	s.cursor++
	if idx < len(s.slots) {
		return s.slots[idx]
	}
	slot := create()
	s.slots = append(s.slots, slot)
	return slot
}
