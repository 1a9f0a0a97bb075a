// Package vdom defines the virtual DOM node model: the closed set of node
// kinds (element, text, fragment, component), the Component capability that
// user code implements, event handler bindings, and the helpers for building
// node trees in Go.
//
// Nodes here are plain descriptions. Reconciling a tree of them against the
// previously rendered state is the job of package layout.
package vdom
