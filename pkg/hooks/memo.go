package hooks

// memoCell holds one UseMemo slot.
type memoCell struct {
	value    any
	deps     []any
	hasValue bool
}

// UseMemo returns a memoized computation.
//
// deps == nil recomputes every render; an empty slice computes once;
// otherwise the cached value is reused until some dependency changes
// (scalars by value, everything else by identity).
func UseMemo[T any](s *Scope, compute func() T, deps []any) T {
	cell := s.useSlot(func() any { return &memoCell{} }).(*memoCell)

	if cell.hasValue && DepsEqual(cell.deps, deps) {
		return cell.value.(T)
	}

	value := compute()
	cell.value = value
	cell.deps = deps
	cell.hasValue = true
	return value
}

// UseCallback memoizes a function value: the same function is returned
// until deps change, so it can safely be used as an identity-compared
// dependency elsewhere.
func UseCallback[F any](s *Scope, fn F, deps []any) F {
	return UseMemo(s, func() F { return fn }, deps)
}
