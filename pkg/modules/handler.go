package modules

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler serves module sources over HTTP. Mount it under a chi route with
// a {name} parameter:
//
//	r.Get("/modules/{name}", modules.Handler(registry))
func Handler(registry Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if name == "" {
			http.Error(w, "module name required", http.StatusBadRequest)
			return
		}
		src, err := registry.Resolve(r.Context(), name)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, "module resolution failed", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=300")
		_, _ = w.Write(src)
	}
}
