package layout

import (
	"io"
	"log/slog"
)

// Mode selects the render scheduling discipline for a Layout.
type Mode int

const (
	// ModeSerial renders one instance at a time on the caller's goroutine:
	// each Render call pops one request and reconciles it to completion.
	ModeSerial Mode = iota

	// ModeConcurrent dispatches each queued instance to its own goroutine
	// and lets Render return whichever finishes first. Intra-instance
	// serialization is still guaranteed by the per-instance render lock.
	ModeConcurrent
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeSerial:
		return "serial"
	case ModeConcurrent:
		return "concurrent"
	default:
		return "unknown"
	}
}

// Config controls a Layout.
type Config struct {
	// Mode selects serial or concurrent render scheduling.
	Mode Mode

	// Debug, when true, includes render failure messages in the error
	// placeholder shipped to the client. When false the placeholder is blank.
	Debug bool

	// QueueSize bounds the pending render queue.
	QueueSize int

	// Logger receives structured layout events. Defaults to a discard logger.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Mode:      ModeSerial,
		Debug:     false,
		QueueSize: 256,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Clone returns a copy of the config.
func (c *Config) Clone() *Config {
	out := *c
	return &out
}

// WithMode sets the scheduling mode.
func (c *Config) WithMode(m Mode) *Config {
	c.Mode = m
	return c
}

// WithDebug toggles error detail in placeholders.
func (c *Config) WithDebug(debug bool) *Config {
	c.Debug = debug
	return c
}

// WithQueueSize sets the pending queue bound.
func (c *Config) WithQueueSize(n int) *Config {
	if n > 0 {
		c.QueueSize = n
	}
	return c
}

// WithLogger sets the structured logger.
func (c *Config) WithLogger(l *slog.Logger) *Config {
	if l != nil {
		c.Logger = l
	}
	return c
}

// normalize fills zero values with defaults.
func (c *Config) normalize() *Config {
	def := DefaultConfig()
	if c == nil {
		return def
	}
	out := c.Clone()
	if out.QueueSize <= 0 {
		out.QueueSize = def.QueueSize
	}
	if out.Logger == nil {
		out.Logger = def.Logger
	}
	return out
}
