package layout

import (
	"errors"
	"fmt"
)

// Sentinel errors for layout operations.
var (
	// ErrLayoutClosed is returned when rendering or delivering on a closed layout.
	ErrLayoutClosed = errors.New("layout: closed")

	// errStale signals that a queued instance was unmounted before its
	// render ran. The render loop skips it and takes the next entry.
	errStale = errors.New("layout: stale schedule")
)

// StructuralError is a fatal tree-construction error: duplicate sibling
// keys, a malformed node, or a fragment carrying attributes. It aborts the
// render that discovered it and crosses the Layout boundary; the caller
// decides whether to crash or retry the whole tree.
type StructuralError struct {
	Path   string // patch path of the offending node
	Reason string
}

// Error returns the error message with the offending path.
func (e *StructuralError) Error() string {
	return fmt.Sprintf("layout: structural error at %q: %s", e.Path, e.Reason)
}

// newStructuralError creates a StructuralError at the given path.
func newStructuralError(path, format string, args ...any) *StructuralError {
	return &StructuralError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
