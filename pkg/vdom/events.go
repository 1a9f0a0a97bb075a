package vdom

import "context"

// HandlerFunc is the user callback bound to a UI event. The data slice is
// the decoded payload of the layout-event message that triggered it.
// Returned errors are logged by the layout and never propagated further.
type HandlerFunc func(ctx context.Context, data []any) error

// EventHandler binds a callback to an event name on an element.
type EventHandler struct {
	// Func is the callback invoked when the event is delivered.
	Func HandlerFunc

	// Target is an optional stable identifier for this handler. When empty,
	// the reconciler derives one from the node's patch path and event name.
	Target string

	// PreventDefault asks the client to suppress the event's default action.
	PreventDefault bool

	// StopPropagation asks the client to stop event bubbling.
	StopPropagation bool
}

// Binding pairs an event name with its handler for use in El argument lists.
type Binding struct {
	Event   string
	Handler *EventHandler
}

// On binds a handler to an event name.
func On(event string, fn HandlerFunc) Binding {
	return Binding{Event: event, Handler: &EventHandler{Func: fn}}
}

// OnWith binds a fully configured handler to an event name.
func OnWith(event string, h *EventHandler) Binding {
	return Binding{Event: event, Handler: h}
}

// OnClick binds a click handler.
func OnClick(fn HandlerFunc) Binding {
	return On("onClick", fn)
}

// OnInput binds an input handler.
func OnInput(fn HandlerFunc) Binding {
	return On("onInput", fn)
}

// OnChange binds a change handler.
func OnChange(fn HandlerFunc) Binding {
	return On("onChange", fn)
}

// OnSubmit binds a submit handler with the default action suppressed, which
// is almost always what a server-driven form wants.
func OnSubmit(fn HandlerFunc) Binding {
	return Binding{Event: "onSubmit", Handler: &EventHandler{Func: fn, PreventDefault: true}}
}
