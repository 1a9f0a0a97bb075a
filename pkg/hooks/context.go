package hooks

// ContextKey identifies one typed context channel between a provider
// component and its descendants. Create keys once at package level with
// NewContextKey and share them between providers and consumers.
type ContextKey[T any] struct {
	name string
}

// NewContextKey creates a context key. The name is for diagnostics only.
func NewContextKey[T any](name string) ContextKey[T] {
	return ContextKey[T]{name: name}
}

// String returns the key's diagnostic name.
func (k ContextKey[T]) String() string {
	return k.name
}

// ProvideContext registers a value for a key in this scope. Descendant
// scopes created after this render observe it; ancestors and siblings do
// not, because each child receives a copy of its parent's provider map at
// creation.
func ProvideContext[T any](s *Scope, key ContextKey[T], value T) {
	if s.providers == nil {
		s.providers = make(map[any]any)
	}
	s.providers[key] = value
}

// UseContext returns the nearest provided value for a key, or the zero
// value and false when no ancestor provided one.
func UseContext[T any](s *Scope, key ContextKey[T]) (T, bool) {
	if v, ok := s.providers[key]; ok {
		return v.(T), true
	}
	var zero T
	return zero, false
}
