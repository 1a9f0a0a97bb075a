package layout

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/lattice-ui/lattice/pkg/protocol"
	"github.com/lattice-ui/lattice/pkg/vdom"
)

// Layout owns one rendered component tree. It tracks component instances,
// their hook scopes and the event handler table, turns change notifications
// into serialized tree updates, and routes incoming events back to the
// handlers that registered for them.
//
// A Layout is created mounted: the root component is scheduled for its
// first render immediately, so the first Render call produces the initial
// tree. Close unmounts everything and releases all effect goroutines.
type Layout struct {
	id     string
	cfg    *Config
	logger *slog.Logger

	// mu guards the arena, the state and target tables, and all tree
	// mutation. Renders for different instances contend on it; hook state
	// reads do not.
	mu      sync.Mutex
	arena   []*modelState
	free    []int32
	root    int32
	states  map[string]*lifeState
	targets map[string]*vdom.EventHandler

	// pending dedupes scheduled instance ids; queue carries them to Render.
	pmu     sync.Mutex
	pending map[string]struct{}
	queue   chan string

	// results carries finished concurrent renders back to Render callers.
	results  chan renderResult
	inflight sync.WaitGroup

	// baseCtx is the lifetime context handed to effects; cancelled on Close.
	baseCtx context.Context
	cancel  context.CancelFunc
	closed  atomic.Bool
}

// renderResult is one finished concurrent render. A zero result (no update,
// no error) marks a stale schedule that the dispatcher should skip.
type renderResult struct {
	update *protocol.LayoutUpdate
	err    error
}

// NewLayout mounts root as the tree's single root component and schedules
// its first render.
func NewLayout(root vdom.Component, cfg *Config) *Layout {
	cfg = cfg.normalize()
	id := uuid.NewString()
	l := &Layout{
		id:      id,
		cfg:     cfg,
		logger:  cfg.Logger.With(slog.String("layout_id", id)),
		states:  make(map[string]*lifeState),
		targets: make(map[string]*vdom.EventHandler),
		pending: make(map[string]struct{}),
		queue:   make(chan string, cfg.QueueSize),
		results: make(chan renderResult, cfg.QueueSize),
	}
	l.baseCtx, l.cancel = context.WithCancel(context.Background())

	l.mu.Lock()
	rs := l.newModelState(noHandle, "")
	rs.patchPath = ""
	l.root = rs.handle
	rs.life = l.newLifeState(root, rs, nil)
	rootID := rs.life.id
	l.mu.Unlock()

	l.scheduleLife(rootID)
	return l
}

// ID returns the layout's unique identifier, as carried in its log records.
func (l *Layout) ID() string {
	return l.id
}

// scheduleLife enqueues an instance for re-rendering. Requests for an
// instance already in the pending set are coalesced.
func (l *Layout) scheduleLife(id string) {
	if l.closed.Load() {
		return
	}
	l.pmu.Lock()
	if _, dup := l.pending[id]; dup {
		l.pmu.Unlock()
		return
	}
	l.pending[id] = struct{}{}
	l.pmu.Unlock()

	select {
	case l.queue <- id:
	default:
		l.pmu.Lock()
		delete(l.pending, id)
		l.pmu.Unlock()
		l.logger.Warn("render queue full, dropping schedule", slog.String("life_id", id))
	}
}

// clearPending removes id from the dedupe set so state changes during its
// render schedule a fresh pass.
func (l *Layout) clearPending(id string) {
	l.pmu.Lock()
	delete(l.pending, id)
	l.pmu.Unlock()
}

// Render blocks until a scheduled instance has been re-rendered and returns
// the resulting update. In serial mode instances are rendered one at a time
// on the caller's goroutine in queue order. In concurrent mode each queued
// instance renders on its own goroutine and the first to finish wins; the
// rest are returned by subsequent calls.
//
// A StructuralError aborts the render that found it and is returned to the
// caller. ctx cancellation returns ctx.Err.
func (l *Layout) Render(ctx context.Context) (*protocol.LayoutUpdate, error) {
	if l.closed.Load() {
		return nil, ErrLayoutClosed
	}
	if l.cfg.Mode == ModeConcurrent {
		return l.renderConcurrent(ctx)
	}
	return l.renderSerial(ctx)
}

func (l *Layout) renderSerial(ctx context.Context) (*protocol.LayoutUpdate, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case id := <-l.queue:
			l.clearPending(id)
			update, err := l.renderLife(ctx, id)
			if err == errStale {
				continue
			}
			return update, err
		}
	}
}

func (l *Layout) renderConcurrent(ctx context.Context) (*protocol.LayoutUpdate, error) {
	for {
		// Finished work from earlier calls takes priority over dispatch.
		select {
		case r := <-l.results:
			if r.update == nil && r.err == nil {
				continue
			}
			return r.update, r.err
		default:
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case r := <-l.results:
			if r.update == nil && r.err == nil {
				continue
			}
			return r.update, r.err
		case id := <-l.queue:
			l.clearPending(id)
			l.inflight.Add(1)
			go func(id string) {
				defer l.inflight.Done()
				update, err := l.renderLife(l.baseCtx, id)
				if err == errStale {
					update, err = nil, nil
				}
				select {
				case l.results <- renderResult{update: update, err: err}:
				case <-l.baseCtx.Done():
				}
			}(id)
		}
	}
}

// Deliver routes an incoming event to the handler registered under its
// target. Unknown targets are logged and dropped: the client raced an
// unmount and the event is simply late. Handler errors and panics are
// logged, never returned; one bad handler must not break the connection.
func (l *Layout) Deliver(ctx context.Context, event *protocol.LayoutEvent) error {
	if l.closed.Load() {
		return ErrLayoutClosed
	}
	l.mu.Lock()
	handler, ok := l.targets[event.Target]
	l.mu.Unlock()
	if !ok {
		l.logger.Warn("event for unknown target, dropping",
			slog.String("target", event.Target))
		return nil
	}
	l.invoke(ctx, handler, event)
	return nil
}

func (l *Layout) invoke(ctx context.Context, h *vdom.EventHandler, event *protocol.LayoutEvent) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("event handler panicked",
				slog.String("target", event.Target),
				slog.Any("panic", r))
		}
	}()
	if err := h.Func(ctx, event.Data); err != nil {
		l.logger.Error("event handler failed",
			slog.String("target", event.Target),
			slog.String("error", err.Error()))
	}
}

// Close cancels all effect contexts, waits for in-flight concurrent renders,
// and unmounts the whole tree from the root. Safe to call more than once.
func (l *Layout) Close(ctx context.Context) error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	l.cancel()
	l.inflight.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	if rs := l.arena[l.root]; rs != nil {
		l.unmount(ctx, []*modelState{rs})
	}
	return nil
}

// Stats reports table sizes for observability.
type Stats struct {
	Instances int
	Targets   int
	Pending   int
}

// Stats returns a snapshot of the layout's table sizes.
func (l *Layout) Stats() Stats {
	l.mu.Lock()
	instances, targets := len(l.states), len(l.targets)
	l.mu.Unlock()
	l.pmu.Lock()
	pending := len(l.pending)
	l.pmu.Unlock()
	return Stats{Instances: instances, Targets: targets, Pending: pending}
}
