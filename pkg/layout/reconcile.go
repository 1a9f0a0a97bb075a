package layout

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"log/slog"
	"runtime/debug"
	"strconv"

	"github.com/lattice-ui/lattice/pkg/hooks"
	"github.com/lattice-ui/lattice/pkg/protocol"
	"github.com/lattice-ui/lattice/pkg/vdom"
)

// renderPass accumulates the scopes touched by one render so their effects
// can run, in render order, after the whole submodel is built.
type renderPass struct {
	scopes []*hooks.Scope
}

// renderLife re-renders one component instance and returns the update for
// its position in the tree. Instances that were unmounted after being
// scheduled return errStale.
func (l *Layout) renderLife(ctx context.Context, id string) (*protocol.LayoutUpdate, error) {
	l.mu.Lock()
	ls, ok := l.states[id]
	if !ok || l.closed.Load() {
		l.mu.Unlock()
		return nil, errStale
	}
	st := l.arena[ls.handle]
	pass := &renderPass{}
	model, err := l.renderComponent(ctx, ls, pass)
	if err != nil {
		l.mu.Unlock()
		return nil, err
	}
	path := st.patchPath
	l.mu.Unlock()

	// Effects only fire once the layout holds the finished tree, so an
	// effect that schedules a render never races its own mount.
	for _, scope := range pass.scopes {
		scope.LayoutDidRender(l.baseCtx)
	}
	return protocol.NewLayoutUpdate(path, model), nil
}

// renderComponent runs one component instance through its render phase and
// reconciles its output against the retained children at this position.
// The output is wrapped in an implicit fragment: the component's submodel
// always has an empty tagName with the rendered nodes as children, so a
// component swapping between a single node and several is an ordinary
// children diff, not a structural change.
func (l *Layout) renderComponent(ctx context.Context, ls *lifeState, pass *renderPass) (*protocol.VNodeJSON, error) {
	st := l.arena[ls.handle]
	scope := ls.scope

	scope.ComponentWillRender(ls.component)
	raw, rerr := safeRender(ls.component, scope)
	scope.ComponentDidRender()
	pass.scopes = append(pass.scopes, scope)

	if rerr != nil {
		l.logger.Error("component render failed",
			slog.String("life_id", ls.id),
			slog.String("path", st.patchPath),
			slog.String("error", rerr.Error()))
		// The placeholder replaces the whole submodel, so everything the
		// previous render mounted below this point goes away with it.
		l.unmountChildren(ctx, st)
		model := &protocol.VNodeJSON{TagName: ""}
		if l.cfg.Debug {
			model.Error = rerr.Error()
		}
		st.model = model
		return model, nil
	}

	node, err := vdom.ToNode(raw)
	if err != nil {
		return nil, newStructuralError(st.patchPath, "%s", err.Error())
	}

	var children []*vdom.VNode
	if node != nil {
		if node.Kind == vdom.KindFragment {
			if len(node.Attrs) > 0 || len(node.Events) > 0 {
				return nil, newStructuralError(st.patchPath, "fragment carries attributes or events")
			}
			children = node.Children
		} else {
			children = []*vdom.VNode{node}
		}
	}

	model := &protocol.VNodeJSON{TagName: ""}
	model.Key = vdom.KeyOf(ls.component)
	kids, err := l.renderChildren(ctx, st, children, pass)
	if err != nil {
		return nil, err
	}
	model.Children = kids
	st.model = model
	return model, nil
}

// renderElement reconciles one element node: attributes are copied into the
// submodel wholesale, events are bound to targets, children are diffed.
func (l *Layout) renderElement(ctx context.Context, st *modelState, node *vdom.VNode, pass *renderPass) (*protocol.VNodeJSON, error) {
	if node.Tag == "" {
		return nil, newStructuralError(st.patchPath, "element without a tag name")
	}
	model := &protocol.VNodeJSON{TagName: node.Tag, Key: node.Key}

	if len(node.Attrs) > 0 {
		attrs := make(map[string]any, len(node.Attrs))
		for k, v := range node.Attrs {
			attrs[k] = v
		}
		model.Attributes = attrs
	}

	model.EventHandlers = l.bindEvents(st, node)

	if node.Import != nil {
		model.ImportSource = &protocol.ImportSourceJSON{
			Source:              node.Import.Source,
			SourceType:          node.Import.SourceType,
			Fallback:            staticFallback(node.Import.Fallback),
			UnmountBeforeUpdate: node.Import.UnmountBeforeUpdate,
		}
	}

	kids, err := l.renderChildren(ctx, st, node.Children, pass)
	if err != nil {
		return nil, err
	}
	model.Children = kids
	st.model = model
	return model, nil
}

// renderFragment reconciles a fragment appearing among an element's
// children. It becomes an empty-tag submodel node that only groups its
// children, so a keyed diff below it is scoped to the fragment. Attributes
// or events on it are malformed.
func (l *Layout) renderFragment(ctx context.Context, st *modelState, node *vdom.VNode, pass *renderPass) (*protocol.VNodeJSON, error) {
	if len(node.Attrs) > 0 || len(node.Events) > 0 {
		return nil, newStructuralError(st.patchPath, "fragment carries attributes or events")
	}
	// A state reclaimed from an element sheds its targets.
	for _, target := range st.targetsByEvent {
		delete(l.targets, target)
	}
	st.targetsByEvent = nil

	model := &protocol.VNodeJSON{TagName: "", Key: node.Key}
	kids, err := l.renderChildren(ctx, st, node.Children, pass)
	if err != nil {
		return nil, err
	}
	model.Children = kids
	st.model = model
	return model, nil
}

// renderChildren is the keyed diff. Old children are matched to new ones by
// effective key: the explicit key when one was given, otherwise the child's
// position among its rendered siblings. Positional keys make unkeyed
// reordering indistinguishable from in-place mutation, which is why dynamic
// lists want explicit keys.
func (l *Layout) renderChildren(ctx context.Context, parent *modelState, children []*vdom.VNode, pass *renderPass) ([]any, error) {
	old := parent.childrenByKey
	var newByKey map[string]int32
	var out []any
	idx := 0

	for _, child := range children {
		if child == nil {
			continue
		}
		if child.Kind == vdom.KindText {
			out = append(out, child.Text)
			idx++
			continue
		}
		key := effectiveKey(child, idx)
		if newByKey == nil {
			newByKey = make(map[string]int32)
		}
		if _, dup := newByKey[key]; dup {
			return nil, newStructuralError(parent.patchPath,
				"duplicate key %q among children", key)
		}

		st := l.claimChild(ctx, old, parent, child, key)
		st.index = idx
		st.key = key
		st.patchPath = childPath(parent.patchPath, idx)
		newByKey[key] = st.handle

		var (
			model *protocol.VNodeJSON
			err   error
		)
		switch child.Kind {
		case vdom.KindComponent:
			if st.life == nil {
				st.life = l.newLifeState(child.Comp, st, l.nearestScope(parent))
			} else {
				st.life.component = child.Comp
			}
			model, err = l.renderComponent(ctx, st.life, pass)
		case vdom.KindFragment:
			model, err = l.renderFragment(ctx, st, child, pass)
		default:
			model, err = l.renderElement(ctx, st, child, pass)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, model)
		idx++
	}

	// Keys that existed before but were not claimed this pass are gone:
	// unmount them in reverse rendering order.
	var gone []*modelState
	for key, h := range old {
		if _, kept := newByKey[key]; kept {
			continue
		}
		if st := l.arena[h]; st != nil {
			gone = append(gone, st)
		}
	}
	if len(gone) > 0 {
		sortByIndex(gone)
		l.unmount(ctx, gone)
	}

	parent.childrenByKey = newByKey
	return out, nil
}

// claimChild finds the retained state for a child position. A matching key
// with a compatible node reuses the old state and its hooks; an incompatible
// node unmounts the old subtree first and starts fresh.
func (l *Layout) claimChild(ctx context.Context, old map[string]int32, parent *modelState, child *vdom.VNode, key string) *modelState {
	if h, ok := old[key]; ok {
		if st := l.arena[h]; st != nil {
			if compatible(st, child) {
				return st
			}
			l.unmount(ctx, []*modelState{st})
		}
	}
	return l.newModelState(parent.handle, key)
}

// compatible reports whether an old state can host the new node without
// losing identity: elements reuse element states, and a component reuses a
// state only when its type matches.
func compatible(st *modelState, child *vdom.VNode) bool {
	if child.Kind == vdom.KindComponent {
		return st.life != nil && vdom.TypeOf(st.life.component) == vdom.TypeOf(child.Comp)
	}
	return st.life == nil
}

// bindEvents registers the node's handlers in the target table. A handler
// for an event name that was bound here before keeps its old target id, so
// an in-flight client event still lands after a re-render. Stale targets
// are dropped from the table.
func (l *Layout) bindEvents(st *modelState, node *vdom.VNode) map[string]protocol.EventHandlerJSON {
	old := st.targetsByEvent
	if len(node.Events) == 0 {
		for _, target := range old {
			delete(l.targets, target)
		}
		st.targetsByEvent = nil
		return nil
	}

	bound := make(map[string]string, len(node.Events))
	out := make(map[string]protocol.EventHandlerJSON, len(node.Events))
	for event, handler := range node.Events {
		target := old[event]
		if target == "" {
			target = handler.Target
		}
		if target == "" {
			target = mintTarget(st.patchPath, event)
		}
		l.targets[target] = handler
		bound[event] = target
		out[event] = protocol.EventHandlerJSON{
			Target:          target,
			PreventDefault:  handler.PreventDefault,
			StopPropagation: handler.StopPropagation,
		}
	}
	for event, target := range old {
		if _, kept := bound[event]; !kept {
			delete(l.targets, target)
		}
	}
	st.targetsByEvent = bound
	return out
}

// unmount tears down the given states in reverse order: for each, targets
// are unregistered, the instance (if any) leaves the state table and its
// effects are stopped, then the cascade recurses into its children, also
// reverse rendering order, and only then is the arena slot freed.
func (l *Layout) unmount(ctx context.Context, states []*modelState) {
	for i := len(states) - 1; i >= 0; i-- {
		st := states[i]
		for _, target := range st.targetsByEvent {
			delete(l.targets, target)
		}
		st.targetsByEvent = nil
		if st.life != nil {
			delete(l.states, st.life.id)
			st.life.scope.ComponentWillUnmount(ctx)
			st.life = nil
		}
		l.unmountChildren(ctx, st)
		l.freeState(st)
	}
}

// unmountChildren cascades an unmount into st's retained children without
// touching st itself.
func (l *Layout) unmountChildren(ctx context.Context, st *modelState) {
	if kids := l.childrenInRenderOrder(st); len(kids) > 0 {
		l.unmount(ctx, kids)
	}
	st.childrenByKey = nil
}

// effectiveKey returns the child's explicit key, or its sibling position
// when none was given.
func effectiveKey(child *vdom.VNode, idx int) string {
	key := child.Key
	if key == "" && child.Kind == vdom.KindComponent {
		key = vdom.KeyOf(child.Comp)
	}
	if key == "" {
		key = strconv.Itoa(idx)
	}
	return key
}

// childPath extends a patch path down into a child slot.
func childPath(parent string, idx int) string {
	return parent + "/children/" + strconv.Itoa(idx)
}

// mintTarget derives a stable target id from the node's path and event name.
func mintTarget(path, event string) string {
	h := fnv.New64a()
	h.Write([]byte(path))
	h.Write([]byte{':'})
	h.Write([]byte(event))
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], h.Sum64())
	return hex.EncodeToString(buf[:])
}

// staticFallback renders an import-source fallback without mounting state:
// strings pass through, nodes become plain submodels with no handlers.
func staticFallback(v any) any {
	switch f := v.(type) {
	case nil:
		return nil
	case string:
		return f
	case *vdom.VNode:
		return staticModel(f)
	default:
		return f
	}
}

func staticModel(n *vdom.VNode) any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case vdom.KindText:
		return n.Text
	default:
		model := &protocol.VNodeJSON{TagName: n.Tag, Key: n.Key}
		if len(n.Attrs) > 0 {
			attrs := make(map[string]any, len(n.Attrs))
			for k, v := range n.Attrs {
				attrs[k] = v
			}
			model.Attributes = attrs
		}
		for _, c := range n.Children {
			if c == nil {
				continue
			}
			model.Children = append(model.Children, staticModel(c))
		}
		return model
	}
}

// sortByIndex orders states by their sibling index, i.e. render order.
func sortByIndex(states []*modelState) {
	for i := 1; i < len(states); i++ {
		for j := i; j > 0 && states[j-1].index > states[j].index; j-- {
			states[j-1], states[j] = states[j], states[j-1]
		}
	}
}

// safeRender runs a component's render function, converting a panic into
// an error so one broken component cannot take down the layout.
func safeRender(c vdom.Component, s *hooks.Scope) (raw any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panic: %v\n%s", r, debug.Stack())
		}
	}()
	return c.Render(s), nil
}
