package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lattice-ui/lattice/pkg/layout"
	"github.com/lattice-ui/lattice/pkg/protocol"
	"github.com/lattice-ui/lattice/pkg/vdom"
)

// Session binds one WebSocket connection to one layout. The read loop
// decodes client events and delivers them to the layout; the render loop
// pulls finished updates and writes them to the client.
type Session struct {
	id     string
	conn   *websocket.Conn
	cfg    *SessionConfig
	logger *slog.Logger
	m      *metrics

	layout *layout.Layout

	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool

	// writeMu serializes frames on the connection.
	writeMu sync.Mutex

	// onClose is invoked once when the session shuts down.
	onClose func(id string)
}

func newSession(conn *websocket.Conn, root vdom.Component, cfg *SessionConfig, logger *slog.Logger, m *metrics, onClose func(id string)) *Session {
	id := uuid.NewString()
	s := &Session{
		id:      id,
		conn:    conn,
		cfg:     cfg,
		logger:  logger.With(slog.String("session_id", id)),
		m:       m,
		onClose: onClose,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.layout = layout.NewLayout(root, cfg.Layout)
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Start launches the session loops. Call once after the upgrade.
func (s *Session) Start() {
	go s.readLoop()
	go s.renderLoop()
	go s.heartbeatLoop()
}

// readLoop continuously reads client events from the WebSocket connection
// and delivers them to the layout. It blocks until the connection is closed
// or an error occurs.
func (s *Session) readLoop() {
	defer s.Close()

	s.conn.SetReadLimit(s.cfg.MaxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		return nil
	})

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", slog.String("error", err.Error()))
				s.m.wsErrors.WithLabelValues("read").Inc()
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))

		event, err := protocol.DecodeEvent(msg)
		if err != nil {
			s.logger.Error("event decode error", slog.String("error", err.Error()))
			s.m.eventsTotal.WithLabelValues("invalid").Inc()
			continue
		}
		s.deliver(event)
	}
}

func (s *Session) deliver(event *protocol.LayoutEvent) {
	ctx, span := startEventSpan(s.ctx, s.id, event.Target)
	err := s.layout.Deliver(ctx, event)
	endSpan(span, err)

	if err != nil {
		s.logger.Error("event delivery failed",
			slog.String("target", event.Target),
			slog.String("error", err.Error()))
		s.m.eventsTotal.WithLabelValues("error").Inc()
		return
	}
	s.m.eventsTotal.WithLabelValues("ok").Inc()
}

// renderLoop pulls layout updates and ships them to the client. A
// structural error is fatal for the session: the tree cannot be trusted
// after it, so the connection is closed and the client reconnects fresh.
func (s *Session) renderLoop() {
	defer s.Close()

	for {
		ctx, span := startRenderSpan(s.ctx, s.id)
		start := time.Now()
		update, err := s.layout.Render(ctx)
		s.m.renderDuration.Observe(time.Since(start).Seconds())
		endSpan(span, err)

		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, layout.ErrLayoutClosed) {
				return
			}
			var serr *layout.StructuralError
			if errors.As(err, &serr) {
				s.logger.Error("structural error, closing session",
					slog.String("path", serr.Path),
					slog.String("reason", serr.Reason))
				return
			}
			s.logger.Error("render failed", slog.String("error", err.Error()))
			return
		}
		if err := s.sendUpdate(update); err != nil {
			return
		}
	}
}

func (s *Session) sendUpdate(update *protocol.LayoutUpdate) error {
	data, err := update.Encode()
	if err != nil {
		s.logger.Error("update encode error", slog.String("error", err.Error()))
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closed.Load() {
		return ErrSessionClosed
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.logger.Error("write error", slog.String("error", err.Error()))
		s.m.wsErrors.WithLabelValues("write").Inc()
		return err
	}
	s.m.updatesSent.Inc()
	s.m.updateBytes.Add(float64(len(data)))
	return nil
}

// heartbeatLoop sends periodic pings until the session closes.
func (s *Session) heartbeatLoop() {
	ticker := time.NewTicker(s.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.sendPing(); err != nil {
				return
			}
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Session) sendPing() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closed.Load() {
		return ErrSessionClosed
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	return s.conn.WriteMessage(websocket.PingMessage, nil)
}

// Close tears down the session: the layout unmounts, effect goroutines are
// released, and the connection is closed. Safe to call more than once.
func (s *Session) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
	defer cancel()
	if err := s.layout.Close(ctx); err != nil {
		s.logger.Error("layout close error", slog.String("error", err.Error()))
	}
	s.conn.Close()

	if s.onClose != nil {
		s.onClose(s.id)
	}
	s.logger.Info("session closed")
}
