// Package lattice renders component trees on the server and streams
// serialized updates to clients over WebSocket.
//
// Components are plain values implementing vdom.Component. They hold state
// through hooks (pkg/hooks), render into virtual nodes (pkg/vdom), and the
// layout (pkg/layout) reconciles each render against the previous one,
// emitting updates scoped to the instance that changed. pkg/server binds a
// layout to each WebSocket session.
//
// The root package re-exports the handful of names an application touches
// constantly; everything else lives in its own package.
package lattice

import (
	"github.com/lattice-ui/lattice/pkg/hooks"
	"github.com/lattice-ui/lattice/pkg/layout"
	"github.com/lattice-ui/lattice/pkg/server"
	"github.com/lattice-ui/lattice/pkg/vdom"
)

// Core type aliases.
type (
	Component = vdom.Component
	VNode     = vdom.VNode
	Scope     = hooks.Scope
	Layout    = layout.Layout
	Server    = server.Server
)

// Component and element constructors.
var (
	Func     = vdom.Func
	El       = vdom.El
	Fragment = vdom.Fragment
	Text     = vdom.Text
	Textf    = vdom.Textf
	C        = vdom.C
	A        = vdom.A
	On       = vdom.On
	OnClick  = vdom.OnClick
)

// NewLayout mounts root in a standalone layout, outside any server. Useful
// for embedding or driving renders from custom transports.
func NewLayout(root Component, cfg *layout.Config) *Layout {
	return layout.NewLayout(root, cfg)
}

// NewServer creates a WebSocket server that mounts a fresh root component
// per session.
func NewServer(root func() Component, cfg *server.ServerConfig) *Server {
	return server.New(root, nil, cfg)
}
