package modules

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestStaticResolve(t *testing.T) {
	reg := NewStatic(map[string][]byte{
		"chart": []byte("export default {};"),
	})

	src, err := reg.Resolve(context.Background(), "chart")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if string(src) != "export default {};" {
		t.Errorf("source = %q", src)
	}

	if _, err := reg.Resolve(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing module error = %v, want ErrNotFound", err)
	}
}

// countingRegistry counts Resolve calls to observe cache behavior.
type countingRegistry struct {
	inner Registry
	calls int
}

func (c *countingRegistry) Resolve(ctx context.Context, name string) ([]byte, error) {
	c.calls++
	return c.inner.Resolve(ctx, name)
}

func TestCachedResolve(t *testing.T) {
	counting := &countingRegistry{inner: NewStatic(map[string][]byte{
		"chart": []byte("chart-src"),
	})}
	cached, err := NewCached(counting, 8)
	if err != nil {
		t.Fatalf("NewCached: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := cached.Resolve(context.Background(), "chart"); err != nil {
			t.Fatalf("resolve %d failed: %v", i, err)
		}
	}
	if counting.calls != 1 {
		t.Errorf("inner calls = %d, want 1", counting.calls)
	}

	// Misses pass through every time.
	for i := 0; i < 2; i++ {
		if _, err := cached.Resolve(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("miss %d error = %v", i, err)
		}
	}
	if counting.calls != 3 {
		t.Errorf("inner calls after misses = %d, want 3", counting.calls)
	}

	cached.Invalidate("chart")
	if _, err := cached.Resolve(context.Background(), "chart"); err != nil {
		t.Fatalf("resolve after invalidate: %v", err)
	}
	if counting.calls != 4 {
		t.Errorf("inner calls after invalidate = %d, want 4", counting.calls)
	}
}

func TestHandler(t *testing.T) {
	reg := NewStatic(map[string][]byte{
		"chart": []byte("chart-src"),
	})
	r := chi.NewRouter()
	r.Get("/modules/{name}", Handler(reg))

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/modules/chart", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if got := rec.Header().Get("Content-Type"); got != "application/javascript; charset=utf-8" {
			t.Errorf("content type = %q", got)
		}
		if rec.Body.String() != "chart-src" {
			t.Errorf("body = %q", rec.Body.String())
		}
	})

	t.Run("missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/modules/nope", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}
