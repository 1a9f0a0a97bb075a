package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lattice-ui/lattice/pkg/modules"
	"github.com/lattice-ui/lattice/pkg/vdom"
)

// Server serves component sessions over WebSocket. Each connection gets its
// own layout mounted from a fresh root component.
type Server struct {
	cfg      *ServerConfig
	logger   *slog.Logger
	root     func() vdom.Component
	registry modules.Registry

	upgrader websocket.Upgrader
	m        *metrics

	mu       sync.Mutex
	sessions map[string]*Session

	httpServer *http.Server
}

// New creates a Server. root is invoked once per connecting session so
// instances never share hook state. registry may be nil when no named
// modules are served.
func New(root func() vdom.Component, registry modules.Registry, cfg *ServerConfig) *Server {
	cfg = cfg.normalize()
	s := &Server{
		cfg:      cfg,
		logger:   cfg.Logger.With(slog.String("component", "server")),
		root:     root,
		registry: registry,
		m:        newMetrics(cfg.MetricsNamespace, cfg.MetricsRegistry),
		sessions: make(map[string]*Session),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     cfg.CheckOrigin,
	}
	s.httpServer = &http.Server{
		Addr:    cfg.Address,
		Handler: s.routes(),
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/ws", s.handleWS)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	if s.registry != nil {
		r.Get("/modules/{name}", modules.Handler(s.registry))
	}
	return r
}

// Handler returns the server's HTTP handler for mounting under an existing
// router.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if s.cfg.MaxSessions > 0 {
		s.mu.Lock()
		full := len(s.sessions) >= s.cfg.MaxSessions
		s.mu.Unlock()
		if full {
			s.logger.Warn("rejecting connection, session limit reached")
			http.Error(w, ErrTooManySessions.Error(), http.StatusServiceUnavailable)
			return
		}
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		s.m.wsErrors.WithLabelValues("upgrade").Inc()
		return
	}

	session := newSession(conn, s.root(), s.cfg.SessionConfig, s.cfg.Logger, s.m, s.removeSession)
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()
	s.m.sessionsTotal.Inc()
	s.m.sessionsActive.Inc()

	s.logger.Info("session started",
		slog.String("session_id", session.ID()),
		slog.String("remote", r.RemoteAddr))
	session.Start()
}

func (s *Server) removeSession(id string) {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if ok {
		s.m.sessionsActive.Dec()
	}
}

// SessionCount returns the number of connected sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ListenAndServe starts the HTTP server. It blocks until Shutdown is called
// or the listener fails.
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", slog.String("address", s.cfg.Address))
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server: the listener closes first, then
// every session unmounts.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)

	s.mu.Lock()
	open := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		open = append(open, session)
	}
	s.mu.Unlock()
	for _, session := range open {
		session.Close()
	}

	s.logger.Info("server stopped", slog.Int("sessions_closed", len(open)))
	return err
}
