package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lattice-ui/lattice/pkg/layout"
)

// SessionConfig holds configuration for individual sessions.
type SessionConfig struct {
	// ReadTimeout is the maximum time to wait for a message from the client.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HeartbeatInterval is the time between heartbeat pings.
	// Default: 30 seconds.
	HeartbeatInterval time.Duration

	// MaxMessageSize is the maximum size of an incoming WebSocket message.
	// Default: 64KB.
	MaxMessageSize int64

	// Layout configures each session's layout. Default: layout.DefaultConfig().
	Layout *layout.Config
}

// DefaultSessionConfig returns a SessionConfig with sensible defaults.
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		MaxMessageSize:    64 * 1024, // 64KB
		Layout:            layout.DefaultConfig(),
	}
}

// Clone returns a copy of the SessionConfig.
func (c *SessionConfig) Clone() *SessionConfig {
	if c == nil {
		return nil
	}
	clone := *c
	if c.Layout != nil {
		clone.Layout = c.Layout.Clone()
	}
	return &clone
}

// ServerConfig holds configuration for the HTTP/WebSocket server.
type ServerConfig struct {
	// Address is the address to listen on (e.g., ":8080" or "localhost:3000").
	// Default: ":8080".
	Address string

	// ReadBufferSize is the WebSocket read buffer size.
	// Default: 4096.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	// Default: 4096.
	WriteBufferSize int

	// CheckOrigin is called to validate the request origin.
	// Default: SameOriginCheck.
	CheckOrigin func(r *http.Request) bool

	// SessionConfig is the configuration for individual sessions.
	// Default: DefaultSessionConfig().
	SessionConfig *SessionConfig

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 30 seconds.
	ShutdownTimeout time.Duration

	// MaxSessions is the maximum number of concurrent sessions.
	// 0 means no limit. Default: 0.
	MaxSessions int

	// MetricsNamespace is the Prometheus namespace. Default: "lattice".
	MetricsNamespace string

	// MetricsRegistry is the Prometheus registry to register with.
	// Default: prometheus.DefaultRegisterer.
	MetricsRegistry prometheus.Registerer

	// Logger receives structured server events. Defaults to a discard logger.
	Logger *slog.Logger
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
// CheckOrigin enforces same-origin by default to prevent cross-site
// WebSocket hijacking.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:          ":8080",
		ReadBufferSize:   4096,
		WriteBufferSize:  4096,
		CheckOrigin:      SameOriginCheck,
		SessionConfig:    DefaultSessionConfig(),
		ShutdownTimeout:  30 * time.Second,
		MaxSessions:      0,
		MetricsNamespace: "lattice",
		MetricsRegistry:  prometheus.DefaultRegisterer,
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SameOriginCheck validates that the WebSocket request origin matches the
// host. This is the secure default for CheckOrigin.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// No Origin header (e.g., same-origin request or curl)
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	host := r.Host
	if host == "" {
		return false
	}

	// Compare the host portion (includes port if present)
	return originURL.Host == host
}

// Clone returns a copy of the ServerConfig.
func (c *ServerConfig) Clone() *ServerConfig {
	if c == nil {
		return nil
	}
	clone := *c
	if c.SessionConfig != nil {
		clone.SessionConfig = c.SessionConfig.Clone()
	}
	return &clone
}

// WithAddress sets the server address and returns the config for chaining.
func (c *ServerConfig) WithAddress(addr string) *ServerConfig {
	c.Address = addr
	return c
}

// WithSessionConfig sets the session configuration and returns the config for chaining.
func (c *ServerConfig) WithSessionConfig(sc *SessionConfig) *ServerConfig {
	c.SessionConfig = sc
	return c
}

// WithMaxSessions sets the maximum sessions and returns the config for chaining.
func (c *ServerConfig) WithMaxSessions(max int) *ServerConfig {
	c.MaxSessions = max
	return c
}

// WithLogger sets the logger and returns the config for chaining.
func (c *ServerConfig) WithLogger(l *slog.Logger) *ServerConfig {
	if l != nil {
		c.Logger = l
	}
	return c
}

// normalize fills zero values with defaults.
func (c *ServerConfig) normalize() *ServerConfig {
	def := DefaultServerConfig()
	if c == nil {
		return def
	}
	out := c.Clone()
	if out.Address == "" {
		out.Address = def.Address
	}
	if out.ReadBufferSize <= 0 {
		out.ReadBufferSize = def.ReadBufferSize
	}
	if out.WriteBufferSize <= 0 {
		out.WriteBufferSize = def.WriteBufferSize
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = def.CheckOrigin
	}
	if out.SessionConfig == nil {
		out.SessionConfig = def.SessionConfig
	}
	if out.SessionConfig.Layout == nil {
		out.SessionConfig.Layout = layout.DefaultConfig()
	}
	if out.ShutdownTimeout <= 0 {
		out.ShutdownTimeout = def.ShutdownTimeout
	}
	if out.MetricsNamespace == "" {
		out.MetricsNamespace = def.MetricsNamespace
	}
	if out.MetricsRegistry == nil {
		out.MetricsRegistry = def.MetricsRegistry
	}
	if out.Logger == nil {
		out.Logger = def.Logger
	}
	return out
}
