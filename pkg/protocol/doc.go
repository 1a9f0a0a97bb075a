// Package protocol defines the wire-level message shapes exchanged between
// the reconciler and a transport driver: layout-update messages carrying a
// patch path and rendered model, layout-event messages carrying a target and
// payload, and the VNodeJSON model schema itself.
//
// The package is transport-agnostic: package server moves these messages
// over WebSocket, but any driver with send/recv can carry them.
package protocol
