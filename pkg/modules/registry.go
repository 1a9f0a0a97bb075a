// Package modules resolves externally hosted component modules by name.
// Nodes that declare an import source with sourceType NAME are served the
// module's JavaScript through a registry; URL sources bypass it entirely.
package modules

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNotFound is returned when a registry has no module under the
// requested name.
var ErrNotFound = errors.New("modules: not found")

// Registry resolves a module name to its JavaScript source.
type Registry interface {
	// Resolve returns the module source for name, or ErrNotFound.
	Resolve(ctx context.Context, name string) ([]byte, error)
}

// Static is an in-memory Registry backed by a fixed map. It is safe for
// concurrent use.
type Static struct {
	mu      sync.RWMutex
	sources map[string][]byte
}

// NewStatic creates a registry from the given name -> source map.
func NewStatic(sources map[string][]byte) *Static {
	s := &Static{sources: make(map[string][]byte, len(sources))}
	for name, src := range sources {
		s.sources[name] = src
	}
	return s
}

// Register adds or replaces a module.
func (s *Static) Register(name string, src []byte) {
	s.mu.Lock()
	s.sources[name] = src
	s.mu.Unlock()
}

// Resolve implements Registry.
func (s *Static) Resolve(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	src, ok := s.sources[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return src, nil
}

// Names lists registered module names, sorted.
func (s *Static) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.sources))
	for name := range s.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
