// Package server exposes layouts over WebSocket. Each connecting client
// gets its own session: a fresh root component, a dedicated layout, and a
// pair of loops shuttling events in and serialized updates out. The server
// also serves health, Prometheus metrics, and named module endpoints.
package server
