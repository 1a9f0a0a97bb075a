package vdom

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/lattice-ui/lattice/pkg/hooks"
)

// VKind is the node type discriminator. Children are classified into one of
// these kinds exactly once, when they are normalized via ToNode.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text leaf
	KindFragment               // Grouping without a node of its own
	KindComponent              // Nested component
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// VNode is the virtual DOM node.
//
// A fragment (Kind == KindFragment) only groups children: it must not carry
// attributes or event handlers. The reconciler rejects fragments that do.
type VNode struct {
	Kind     VKind                    // Node type
	Tag      string                   // Element tag name (e.g. "div"); empty for fragments
	Key      string                   // Reconciliation key, unique among siblings
	Attrs    Attrs                    // Plain attributes, copied verbatim into the model
	Events   map[string]*EventHandler // Event name -> handler binding
	Children []*VNode                 // Child nodes
	Text     string                   // For KindText
	Comp     Component                // For KindComponent
	Import   *ImportSource            // Optional external-module descriptor
}

// Attrs holds plain (non-event) attributes.
type Attrs map[string]any

// ImportSource describes an externally resolved module for a node.
// The reconciler passes it through to the model unmodified.
type ImportSource struct {
	Source              string // Module source (URL or registered name)
	SourceType          string // "URL" or "NAME"
	Fallback            any    // Shown while the module loads: *VNode or string
	UnmountBeforeUpdate bool
}

// Component is anything that can render to a view. Render receives the
// component instance's hook scope and returns one of *VNode, Component,
// string, or nil.
type Component interface {
	Render(s *hooks.Scope) any
}

// Keyed is implemented by components that carry an explicit sibling key.
type Keyed interface {
	Key() string
}

// Typed is implemented by components that declare their own identity token.
// Two components with equal type tokens are treated as the same definition
// (state survives); unequal tokens force a remount.
type Typed interface {
	TypeID() string
}

// FuncComponent wraps a render function together with a stable type name.
type FuncComponent struct {
	name   string
	key    string
	render func(s *hooks.Scope) any
}

// Func creates a component from a render function. The name is the
// component's identity token for reconciliation; two Func components with
// the same name reconcile as the same definition.
func Func(name string, render func(s *hooks.Scope) any) *FuncComponent {
	return &FuncComponent{name: name, render: render}
}

// WithKey returns a copy of the component carrying an explicit sibling key.
func (f *FuncComponent) WithKey(key string) *FuncComponent {
	clone := *f
	clone.key = key
	return &clone
}

// Render implements Component.
func (f *FuncComponent) Render(s *hooks.Scope) any {
	return f.render(s)
}

// TypeID implements Typed.
func (f *FuncComponent) TypeID() string {
	return f.name
}

// Key implements Keyed. Empty means no explicit key.
func (f *FuncComponent) Key() string {
	return f.key
}

// TypeOf returns the identity token for a component: its declared TypeID
// when it implements Typed, otherwise its concrete Go type path.
func TypeOf(c Component) string {
	if t, ok := c.(Typed); ok {
		return t.TypeID()
	}
	return reflect.TypeOf(c).String()
}

// KeyOf returns the explicit key of a component, or "" if it has none.
func KeyOf(c Component) string {
	if k, ok := c.(Keyed); ok {
		return k.Key()
	}
	return ""
}

// IntKey formats an integer key to its canonical string form.
func IntKey(i int) string {
	return strconv.Itoa(i)
}

// ToNode normalizes a raw render output or child value into a VNode.
// Accepted inputs: nil (dropped, returns nil), *VNode, Component, string,
// and integer/float leaves. Anything else is a malformed node.
func ToNode(v any) (*VNode, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case *VNode:
		if val == nil {
			return nil, nil
		}
		return val, nil
	case Component:
		return &VNode{Kind: KindComponent, Comp: val, Key: KeyOf(val)}, nil
	case string:
		return &VNode{Kind: KindText, Text: val}, nil
	case int:
		return &VNode{Kind: KindText, Text: strconv.Itoa(val)}, nil
	case int64:
		return &VNode{Kind: KindText, Text: strconv.FormatInt(val, 10)}, nil
	case float64:
		return &VNode{Kind: KindText, Text: strconv.FormatFloat(val, 'f', -1, 64)}, nil
	default:
		return nil, fmt.Errorf("vdom: cannot use %T as a node", v)
	}
}
