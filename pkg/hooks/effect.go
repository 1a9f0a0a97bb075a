package hooks

import (
	"context"
	"log/slog"
	"runtime/debug"
)

// Cleanup undoes whatever an effect set up. It runs after the effect's
// context is cancelled, before any replacement effect for the same slot
// starts.
type Cleanup func()

// Effect is an effect body. The context is cancelled when the effect is
// stopped: because its dependencies changed, its component unmounted, or
// the layout shut down. A returned Cleanup (may be nil) runs after
// cancellation.
type Effect func(ctx context.Context) Cleanup

// effectSlot is the persistent state for one UseEffect call site.
type effectSlot struct {
	fn      Effect
	deps    []any
	hasDeps bool // false = nil deps, rerun every render
	task    *effectTask
	restart bool // set during render when the effect must (re)start
}

// effectTask is one running effect body.
type effectTask struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// UseEffect schedules a side effect for the current render.
//
// Dependency semantics: deps == nil reruns the effect after every render;
// an empty slice runs it exactly once for the life of the instance; a
// non-empty slice reruns only when some entry changed since the previous
// render (scalar values compared by value, everything else by identity).
//
// When a rerun is due, the previous task's cancellation and cleanup always
// complete before the new body starts. The effect itself starts only after
// the whole layout pass finishes, not when this call returns.
func UseEffect(s *Scope, fn Effect, deps []any) {
	idx := s.effectCursor
	s.effectCursor++

	if idx < len(s.effects) {
		slot := s.effects[idx]
		if !slot.hasDeps || !DepsEqual(slot.deps, deps) {
			slot.fn = fn
			slot.deps = deps
			slot.hasDeps = deps != nil
			slot.restart = true
		}
		return
	}

	s.effects = append(s.effects, &effectSlot{
		fn:      fn,
		deps:    deps,
		hasDeps: deps != nil,
		restart: true,
	})
}

// UseAsyncEffect schedules a long-running effect body with no separate
// cleanup function: the body is expected to select on ctx.Done and return
// when cancelled. A returned error is logged.
func UseAsyncEffect(s *Scope, fn func(ctx context.Context) error, deps []any) {
	logger := s.logger
	UseEffect(s, func(ctx context.Context) Cleanup {
		if err := fn(ctx); err != nil && ctx.Err() == nil {
			logger.Error("async effect failed", "error", err)
		}
		return nil
	}, deps)
}

// start launches the effect body as a background task. The task owns its
// own cancellation and signals completion by closing done.
func (slot *effectSlot) start(parent context.Context, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(parent)
	task := &effectTask{cancel: cancel, done: make(chan struct{})}
	slot.task = task
	fn := slot.fn

	go func() {
		defer close(task.done)
		defer func() {
			if r := recover(); r != nil {
				logger.Error("effect panicked", "panic", r, "stack", string(debug.Stack()))
			}
		}()

		cleanup := fn(ctx)
		if cleanup == nil {
			return
		}
		<-ctx.Done()
		cleanup()
	}()
}

// stop cancels the running task, if any, and waits for its cleanup to
// finish. The wait ends early when ctx is done, in which case the task is
// abandoned to finish on its own. Stopping an idle slot is a no-op.
func (slot *effectSlot) stop(ctx context.Context, logger *slog.Logger) {
	task := slot.task
	if task == nil {
		return
	}
	slot.task = nil
	task.cancel()
	select {
	case <-task.done:
	case <-ctx.Done():
		logger.Warn("abandoned wait for effect cleanup", "cause", ctx.Err())
	}
}
