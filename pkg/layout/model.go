package layout

import (
	"sort"

	"github.com/lattice-ui/lattice/pkg/hooks"
	"github.com/lattice-ui/lattice/pkg/protocol"
	"github.com/lattice-ui/lattice/pkg/vdom"
)

// noHandle marks the absence of a parent in the model arena.
const noHandle int32 = -1

// modelState is one node of the retained tree. States live in the layout's
// arena and refer to each other by handle, never by pointer, so a freed
// subtree leaves no cycles behind.
type modelState struct {
	handle int32
	parent int32 // noHandle for the root

	// key is the effective key at this position: the explicit key when one
	// was given, otherwise the stringified sibling index.
	key string

	// index is the position among rendered siblings, including text leaves.
	index int

	// patchPath addresses this node's submodel in the serialized tree.
	// Empty for the root; "/children/i/..." below it.
	patchPath string

	// model is the most recently produced submodel for this position.
	model *protocol.VNodeJSON

	// childrenByKey maps effective keys of stateful children (elements and
	// components, not text leaves) to their handles.
	childrenByKey map[string]int32

	// targetsByEvent maps event names bound at this node to their target ids.
	targetsByEvent map[string]string

	// life is set when this position holds a component instance.
	life *lifeState
}

// lifeState pairs a component instance with its hook scope. It is indexed
// by scope id in the layout's state table so event handlers and re-render
// requests can find the instance without walking the tree.
type lifeState struct {
	id        string
	scope     *hooks.Scope
	component vdom.Component
	handle    int32
}

// newModelState allocates a state in the arena, reusing a freed slot when
// one is available.
func (l *Layout) newModelState(parent int32, key string) *modelState {
	st := &modelState{parent: parent, key: key}
	if n := len(l.free); n > 0 {
		h := l.free[n-1]
		l.free = l.free[:n-1]
		st.handle = h
		l.arena[h] = st
	} else {
		st.handle = int32(len(l.arena))
		l.arena = append(l.arena, st)
	}
	return st
}

// freeState releases a state's arena slot for reuse.
func (l *Layout) freeState(st *modelState) {
	l.arena[st.handle] = nil
	l.free = append(l.free, st.handle)
	st.model = nil
	st.childrenByKey = nil
	st.targetsByEvent = nil
	st.life = nil
	st.parent = noHandle
}

// newLifeState creates a component instance with a fresh hook scope. The
// scope inherits context providers from the nearest ancestor component and
// schedules re-renders through the layout queue.
func (l *Layout) newLifeState(comp vdom.Component, st *modelState, parent *hooks.Scope) *lifeState {
	ls := &lifeState{component: comp, handle: st.handle}
	ls.scope = hooks.NewScope(parent, func() { l.scheduleLife(ls.id) }, l.logger)
	ls.id = ls.scope.ID()
	l.states[ls.id] = ls
	return ls
}

// nearestScope walks the parent chain from st (inclusive) to the closest
// component instance and returns its scope, or nil above the root.
func (l *Layout) nearestScope(st *modelState) *hooks.Scope {
	for h := st.handle; h != noHandle; {
		s := l.arena[h]
		if s == nil {
			return nil
		}
		if s.life != nil {
			return s.life.scope
		}
		h = s.parent
	}
	return nil
}

// childrenInRenderOrder returns st's stateful children sorted by their
// sibling index, i.e. the order they were rendered in.
func (l *Layout) childrenInRenderOrder(st *modelState) []*modelState {
	if len(st.childrenByKey) == 0 {
		return nil
	}
	kids := make([]*modelState, 0, len(st.childrenByKey))
	for _, h := range st.childrenByKey {
		if c := l.arena[h]; c != nil {
			kids = append(kids, c)
		}
	}
	sort.Slice(kids, func(i, j int) bool { return kids[i].index < kids[j].index })
	return kids
}
