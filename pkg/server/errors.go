package server

import "errors"

// Sentinel errors for server operations.
var (
	// ErrTooManySessions is returned when the session limit is reached.
	ErrTooManySessions = errors.New("server: session limit reached")

	// ErrSessionClosed is returned when operating on a closed session.
	ErrSessionClosed = errors.New("server: session closed")
)
