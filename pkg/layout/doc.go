// Package layout owns the retained render tree. A Layout mounts a root
// component, reconciles component output against the previous render with a
// keyed diff, and emits serialized updates scoped to the instance that
// changed. It also keeps the event target table that routes client events
// back to the handlers that registered them.
//
// Renders are driven by a queue: hook state changes schedule the owning
// instance, and Render pops the next request and reconciles it. Serial mode
// runs renders on the caller's goroutine; concurrent mode runs each on its
// own goroutine with per-instance locking.
package layout
