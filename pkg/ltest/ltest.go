// Package ltest provides a test harness for rendered layouts: mount a
// component, pump renders with a deadline, deliver events by target, and
// assert on the serialized model.
package ltest

import (
	"context"
	"testing"
	"time"

	"github.com/lattice-ui/lattice/pkg/layout"
	"github.com/lattice-ui/lattice/pkg/protocol"
	"github.com/lattice-ui/lattice/pkg/vdom"
)

// DefaultTimeout bounds how long a harness waits for a render to arrive.
const DefaultTimeout = 2 * time.Second

// Harness wraps a serial Layout for tests. The layout is closed
// automatically when the test finishes.
type Harness struct {
	t      *testing.T
	Layout *layout.Layout

	// Last holds the model from the most recent root-path update.
	Last *protocol.VNodeJSON
}

// Mount creates a serial layout around root and registers cleanup.
//
// Example:
//
//	h := ltest.Mount(t, Counter())
//	model := h.RenderNext()
func Mount(t *testing.T, root vdom.Component, cfg *layout.Config) *Harness {
	t.Helper()
	if cfg == nil {
		cfg = layout.DefaultConfig()
	}
	l := layout.NewLayout(root, cfg)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
		defer cancel()
		_ = l.Close(ctx)
	})
	return &Harness{t: t, Layout: l}
}

// RenderNext waits for the next update and returns its model, failing the
// test on timeout or error.
func (h *Harness) RenderNext() *protocol.VNodeJSON {
	h.t.Helper()
	update, err := h.RenderNextErr()
	if err != nil {
		h.t.Fatalf("render failed: %v", err)
	}
	return update.Model
}

// RenderNextErr waits for the next update and returns it along with any
// render error. Timeouts still fail the test.
func (h *Harness) RenderNextErr() (*protocol.LayoutUpdate, error) {
	h.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()
	update, err := h.Layout.Render(ctx)
	if err == context.DeadlineExceeded {
		h.t.Fatal("timed out waiting for a render")
	}
	if update != nil && update.Path == "" {
		h.Last = update.Model
	}
	return update, err
}

// NoRender asserts that nothing renders within the given window.
func (h *Harness) NoRender(window time.Duration) {
	h.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), window)
	defer cancel()
	update, err := h.Layout.Render(ctx)
	if err == nil {
		h.t.Fatalf("unexpected render at path %q", update.Path)
	}
}

// Deliver sends an event to the layout by target id.
func (h *Harness) Deliver(target string, data ...any) {
	h.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()
	ev := protocol.NewLayoutEvent(target, data...)
	if err := h.Layout.Deliver(ctx, ev); err != nil {
		h.t.Fatalf("deliver %q failed: %v", target, err)
	}
}

// Click delivers an empty-payload event to the first handler bound for
// "onClick" under the last rendered model.
func (h *Harness) Click() {
	h.t.Helper()
	target := FindTarget(h.Last, "onClick")
	if target == "" {
		h.t.Fatal("no onClick handler in the rendered model")
	}
	h.Deliver(target)
}

// FindTag returns the first node with the given tag in depth-first order,
// or nil.
func FindTag(model *protocol.VNodeJSON, tag string) *protocol.VNodeJSON {
	var found *protocol.VNodeJSON
	Walk(model, func(n *protocol.VNodeJSON) bool {
		if n.TagName == tag {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindTarget returns the target id of the first handler bound for the given
// event name, or "".
func FindTarget(model *protocol.VNodeJSON, event string) string {
	var target string
	Walk(model, func(n *protocol.VNodeJSON) bool {
		if h, ok := n.EventHandlers[event]; ok {
			target = h.Target
			return false
		}
		return true
	})
	return target
}

// Targets returns every target id bound anywhere in the model.
func Targets(model *protocol.VNodeJSON) []string {
	var out []string
	Walk(model, func(n *protocol.VNodeJSON) bool {
		for _, h := range n.EventHandlers {
			out = append(out, h.Target)
		}
		return true
	})
	return out
}

// CollectText concatenates every text child in depth-first order.
func CollectText(model *protocol.VNodeJSON) string {
	var out string
	Walk(model, func(n *protocol.VNodeJSON) bool {
		for _, c := range n.Children {
			if s, ok := c.(string); ok {
				out += s
			}
		}
		return true
	})
	return out
}

// Walk visits model nodes depth-first. fn returning false stops the walk.
func Walk(model *protocol.VNodeJSON, fn func(*protocol.VNodeJSON) bool) {
	walk(model, fn)
}

func walk(n *protocol.VNodeJSON, fn func(*protocol.VNodeJSON) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if child, ok := c.(*protocol.VNodeJSON); ok {
			if !walk(child, fn) {
				return false
			}
		}
	}
	return true
}
