// Package hooks implements per-component-instance state: the Scope that
// persists across renders, and the hook functions (UseState, UseEffect,
// UseMemo, UseCallback, UseRef, UseContext) that read and mutate it.
//
// There is no ambient "currently rendering component". The layout hands a
// component its Scope when it renders it, and every hook call names the
// Scope explicitly. This keeps hook resolution correct under concurrent
// rendering without goroutine-local state.
package hooks
