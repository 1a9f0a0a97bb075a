package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lattice-ui/lattice/pkg/hooks"
	"github.com/lattice-ui/lattice/pkg/protocol"
	"github.com/lattice-ui/lattice/pkg/vdom"
)

func testConfig() *ServerConfig {
	cfg := DefaultServerConfig()
	cfg.CheckOrigin = func(r *http.Request) bool { return true }
	// A throwaway registry keeps metric registration collision-free per test.
	cfg.MetricsRegistry = prometheus.NewRegistry()
	return cfg
}

func counterRoot() vdom.Component {
	return vdom.Func("Counter", func(s *hooks.Scope) any {
		n, setN := hooks.UseState(s, func() int { return 0 })
		return vdom.Div(
			vdom.Textf("count:%d", n),
			vdom.Button(vdom.OnClick(func(ctx context.Context, data []any) error {
				setN(n + 1)
				return nil
			})),
		)
	})
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readUpdate(t *testing.T, conn *websocket.Conn) *protocol.LayoutUpdate {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read update: %v", err)
	}
	var update protocol.LayoutUpdate
	if err := json.Unmarshal(msg, &update); err != nil {
		t.Fatalf("decode update: %v", err)
	}
	if update.Type != protocol.TypeLayoutUpdate {
		t.Fatalf("message type = %q", update.Type)
	}
	return &update
}

// findTarget digs the first target id out of a decoded update model.
func findTarget(t *testing.T, model *protocol.VNodeJSON) string {
	t.Helper()
	raw, err := json.Marshal(model)
	if err != nil {
		t.Fatalf("re-encode model: %v", err)
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("decode model: %v", err)
	}
	var target string
	var visit func(node map[string]any)
	visit = func(node map[string]any) {
		if handlers, ok := node["eventHandlers"].(map[string]any); ok {
			for _, h := range handlers {
				if hm, ok := h.(map[string]any); ok {
					if tgt, ok := hm["target"].(string); ok {
						target = tgt
						return
					}
				}
			}
		}
		children, _ := node["children"].([]any)
		for _, c := range children {
			if cm, ok := c.(map[string]any); ok && target == "" {
				visit(cm)
			}
		}
	}
	visit(generic)
	if target == "" {
		t.Fatal("no event target in update model")
	}
	return target
}

func TestSessionEndToEnd(t *testing.T) {
	srv := New(counterRoot, nil, testConfig())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn := dial(t, ts)

	initial := readUpdate(t, conn)
	if initial.Path != "" {
		t.Errorf("initial update path = %q, want root", initial.Path)
	}
	if initial.Model == nil || initial.Model.TagName != "" {
		t.Fatalf("initial model = %+v, want component wrapper", initial.Model)
	}

	target := findTarget(t, initial.Model)
	event := protocol.NewLayoutEvent(target)
	if err := conn.WriteJSON(event); err != nil {
		t.Fatalf("send event: %v", err)
	}

	next := readUpdate(t, conn)
	raw, _ := json.Marshal(next.Model)
	if !strings.Contains(string(raw), "count:1") {
		t.Errorf("post-click model = %s, want count:1", raw)
	}
}

func TestSessionCountTracksConnections(t *testing.T) {
	srv := New(counterRoot, nil, testConfig())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn := dial(t, ts)
	readUpdate(t, conn)

	if got := srv.SessionCount(); got != 1 {
		t.Fatalf("session count = %d, want 1", got)
	}

	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for srv.SessionCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("session count = %d after disconnect", srv.SessionCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := New(counterRoot, nil, testConfig())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}
}

func TestSameOriginCheck(t *testing.T) {
	tests := []struct {
		name   string
		origin string
		host   string
		want   bool
	}{
		{"no origin", "", "example.com", true},
		{"same origin", "http://example.com", "example.com", true},
		{"same origin with port", "http://example.com:8080", "example.com:8080", true},
		{"cross origin", "http://evil.com", "example.com", false},
		{"port mismatch", "http://example.com:9999", "example.com:8080", false},
		{"malformed origin", "://bad", "example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			r.Host = tt.host
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := SameOriginCheck(r); got != tt.want {
				t.Errorf("SameOriginCheck(origin=%q, host=%q) = %v, want %v", tt.origin, tt.host, got, tt.want)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := DefaultServerConfig()
	clone := cfg.Clone()
	clone.Address = ":9999"
	clone.SessionConfig.ReadTimeout = time.Second

	if cfg.Address == clone.Address {
		t.Error("clone shares Address with original")
	}
	if cfg.SessionConfig.ReadTimeout == clone.SessionConfig.ReadTimeout {
		t.Error("clone shares SessionConfig with original")
	}
}
