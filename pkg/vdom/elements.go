package vdom

import "fmt"

// Attr represents a single plain attribute for use in El argument lists.
type Attr struct {
	Name  string
	Value any
}

// A sets a single attribute.
func A(name string, value any) Attr {
	return Attr{Name: name, Value: value}
}

// Class sets the class attribute.
func Class(class string) Attr {
	return Attr{Name: "class", Value: class}
}

// Key marks the element's reconciliation key in El argument lists.
type Key string

// El builds an element node. Arguments are classified by type:
// child values (*VNode, Component, string, int, nil), Attr/Attrs for
// attributes, Binding for event handlers, Key for the sibling key, and
// *ImportSource for module descriptors. Unknown argument types panic,
// since they are always a programming error at the call site.
func El(tag string, args ...any) *VNode {
	n := &VNode{Kind: KindElement, Tag: tag}
	apply(n, args)
	return n
}

// Fragment builds a grouping node with no element of its own.
// Only child values and a Key are meaningful on a fragment.
func Fragment(args ...any) *VNode {
	n := &VNode{Kind: KindFragment}
	apply(n, args)
	return n
}

// Text builds a plain text leaf.
func Text(s string) *VNode {
	return &VNode{Kind: KindText, Text: s}
}

// Textf builds a formatted text leaf.
func Textf(format string, a ...any) *VNode {
	return Text(fmt.Sprintf(format, a...))
}

// C wraps a component as a child node.
func C(comp Component) *VNode {
	return &VNode{Kind: KindComponent, Comp: comp, Key: KeyOf(comp)}
}

func apply(n *VNode, args []any) {
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Dropped, same as a nil child in render output.
		case Attr:
			if n.Attrs == nil {
				n.Attrs = make(Attrs)
			}
			n.Attrs[v.Name] = v.Value
		case Attrs:
			if n.Attrs == nil {
				n.Attrs = make(Attrs, len(v))
			}
			for k, val := range v {
				n.Attrs[k] = val
			}
		case Binding:
			if n.Events == nil {
				n.Events = make(map[string]*EventHandler)
			}
			n.Events[v.Event] = v.Handler
		case Key:
			n.Key = string(v)
		case *ImportSource:
			n.Import = v
		default:
			child, err := ToNode(arg)
			if err != nil {
				panic(fmt.Sprintf("vdom: invalid argument to %q element: %v", n.Tag, err))
			}
			if child != nil {
				n.Children = append(n.Children, child)
			}
		}
	}
}

// Common element shorthands, in the style of an HTML helper package.

func Div(args ...any) *VNode    { return El("div", args...) }
func Span(args ...any) *VNode   { return El("span", args...) }
func P(args ...any) *VNode      { return El("p", args...) }
func H1(args ...any) *VNode     { return El("h1", args...) }
func H2(args ...any) *VNode     { return El("h2", args...) }
func Ul(args ...any) *VNode     { return El("ul", args...) }
func Li(args ...any) *VNode     { return El("li", args...) }
func Button(args ...any) *VNode { return El("button", args...) }
func Input(args ...any) *VNode  { return El("input", args...) }
func Form(args ...any) *VNode   { return El("form", args...) }
func Label(args ...any) *VNode  { return El("label", args...) }
