package vdom

import (
	"context"
	"strings"
	"testing"

	"github.com/lattice-ui/lattice/pkg/hooks"
)

func TestToNode(t *testing.T) {
	tests := []struct {
		name     string
		in       any
		wantKind VKind
		wantText string
		wantNil  bool
		wantErr  bool
	}{
		{"nil drops", nil, 0, "", true, false},
		{"typed nil node drops", (*VNode)(nil), 0, "", true, false},
		{"string becomes text", "hello", KindText, "hello", false, false},
		{"int becomes text", 42, KindText, "42", false, false},
		{"int64 becomes text", int64(-7), KindText, "-7", false, false},
		{"float becomes text", 1.5, KindText, "1.5", false, false},
		{"node passes through", Div(), KindElement, "", false, false},
		{"struct is malformed", struct{}{}, 0, "", false, true},
		{"map is malformed", map[string]int{}, 0, "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := ToNode(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if node != nil {
					t.Fatalf("node = %+v, want nil", node)
				}
				return
			}
			if node.Kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", node.Kind, tt.wantKind)
			}
			if node.Text != tt.wantText {
				t.Errorf("text = %q, want %q", node.Text, tt.wantText)
			}
		})
	}
}

func TestToNodeWrapsComponent(t *testing.T) {
	comp := Func("X", func(s *hooks.Scope) any { return nil }).WithKey("k1")
	node, err := ToNode(comp)
	if err != nil {
		t.Fatalf("ToNode: %v", err)
	}
	if node.Kind != KindComponent {
		t.Errorf("kind = %v, want KindComponent", node.Kind)
	}
	if node.Key != "k1" {
		t.Errorf("key = %q, want %q", node.Key, "k1")
	}
}

func TestElClassifiesArguments(t *testing.T) {
	n := El("div",
		A("id", "main"),
		Class("box"),
		Key("top"),
		Attrs{"data-x": 1},
		On("onClick", func(ctx context.Context, data []any) error { return nil }),
		Text("hi"),
		nil,
		Span(),
	)

	if n.Tag != "div" || n.Kind != KindElement {
		t.Fatalf("node = %+v", n)
	}
	if n.Attrs["id"] != "main" || n.Attrs["class"] != "box" || n.Attrs["data-x"] != 1 {
		t.Errorf("attrs = %v", n.Attrs)
	}
	if n.Key != "top" {
		t.Errorf("key = %q", n.Key)
	}
	if _, ok := n.Events["onClick"]; !ok {
		t.Error("onClick handler missing")
	}
	if len(n.Children) != 2 {
		t.Fatalf("children = %d, want 2 (nil dropped)", len(n.Children))
	}
	if n.Children[0].Text != "hi" || n.Children[1].Tag != "span" {
		t.Errorf("children = %+v", n.Children)
	}
}

func TestElPanicsOnInvalidArgument(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic for an invalid child")
		}
		if !strings.Contains(r.(string), "invalid argument") {
			t.Errorf("panic message = %v", r)
		}
	}()
	El("div", struct{ x int }{})
}

func TestTypeOfUsesTypeID(t *testing.T) {
	a := Func("Widget", func(s *hooks.Scope) any { return nil })
	b := Func("Widget", func(s *hooks.Scope) any { return Div() })
	c := Func("Other", func(s *hooks.Scope) any { return nil })

	if TypeOf(a) != TypeOf(b) {
		t.Error("same-name components have different types")
	}
	if TypeOf(a) == TypeOf(c) {
		t.Error("different-name components share a type")
	}
}

func TestFragmentGroupsChildren(t *testing.T) {
	f := Fragment(Div(), Text("x"), Span())
	if f.Kind != KindFragment {
		t.Fatalf("kind = %v", f.Kind)
	}
	if len(f.Children) != 3 {
		t.Errorf("children = %d, want 3", len(f.Children))
	}
	if f.Tag != "" {
		t.Errorf("fragment tag = %q, want empty", f.Tag)
	}
}

func TestIntKey(t *testing.T) {
	if IntKey(7) != "7" || IntKey(-3) != "-3" {
		t.Error("IntKey formatting wrong")
	}
}
