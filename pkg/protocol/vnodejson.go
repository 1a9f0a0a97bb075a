package protocol

import (
	"fmt"
	"reflect"
)

// ImportSource kinds.
const (
	SourceTypeURL  = "URL"
	SourceTypeName = "NAME"
)

// VNodeJSON is the JSON-shaped model for one rendered node.
//
// TagName is always emitted; an empty TagName is a fragment (or, when Error
// is set, a render-failure placeholder). Error and a non-empty TagName are
// mutually exclusive. Children entries are *VNodeJSON or string.
type VNodeJSON struct {
	TagName       string                      `json:"tagName"`
	Key           string                      `json:"key,omitempty"`
	Error         string                      `json:"error,omitempty"`
	Children      []any                       `json:"children,omitempty"`
	Attributes    map[string]any              `json:"attributes,omitempty"`
	EventHandlers map[string]EventHandlerJSON `json:"eventHandlers,omitempty"`
	ImportSource  *ImportSourceJSON           `json:"importSource,omitempty"`
}

// EventHandlerJSON is the wire description of one bound event handler.
type EventHandlerJSON struct {
	Target          string `json:"target"`
	PreventDefault  bool   `json:"preventDefault"`
	StopPropagation bool   `json:"stopPropagation"`
}

// ImportSourceJSON is the wire description of an externally resolved module.
type ImportSourceJSON struct {
	Source              string `json:"source"`
	SourceType          string `json:"sourceType"`
	Fallback            any    `json:"fallback,omitempty"`
	UnmountBeforeUpdate bool   `json:"unmountBeforeUpdate,omitempty"`
}

// Validate checks the structural invariants of a model subtree: an element
// must have a tag name unless it is a fragment or error placeholder, Error
// excludes a tag name, and children must be nodes or strings.
func (n *VNodeJSON) Validate() error {
	return n.validate("")
}

func (n *VNodeJSON) validate(path string) error {
	if n == nil {
		return fmt.Errorf("protocol: nil model node at %q", path)
	}
	if n.Error != "" && n.TagName != "" {
		return fmt.Errorf("protocol: node at %q has both error and tagName", path)
	}
	if n.TagName == "" && n.Error == "" && (len(n.Attributes) > 0 || len(n.EventHandlers) > 0) {
		return fmt.Errorf("protocol: fragment at %q carries attributes or event handlers", path)
	}
	for i, child := range n.Children {
		switch c := child.(type) {
		case string:
		case *VNodeJSON:
			if err := c.validate(fmt.Sprintf("%s/children/%d", path, i)); err != nil {
				return err
			}
		default:
			return fmt.Errorf("protocol: invalid child %T at %s/children/%d", child, path, i)
		}
	}
	return nil
}

// Equal reports whether two model subtrees are identical. Used to decide
// that a re-render produced no new content.
func Equal(a, b *VNodeJSON) bool {
	return reflect.DeepEqual(a, b)
}
