package protocol

import (
	"encoding/json"
	"fmt"
)

// Message type discriminators for the transport-agnostic wire format.
const (
	TypeLayoutUpdate = "layout-update"
	TypeLayoutEvent  = "layout-event"
)

// LayoutUpdate is one patch produced by a render pass: the model subtree
// that changed and the path locating it within the overall tree.
type LayoutUpdate struct {
	Type  string     `json:"type"`
	Path  string     `json:"path"`
	Model *VNodeJSON `json:"model"`
}

// NewLayoutUpdate creates a layout-update message.
func NewLayoutUpdate(path string, model *VNodeJSON) *LayoutUpdate {
	return &LayoutUpdate{Type: TypeLayoutUpdate, Path: path, Model: model}
}

// LayoutEvent is a UI event relayed from the client to the handler that
// produced the current view.
type LayoutEvent struct {
	Type   string `json:"type"`
	Target string `json:"target"`
	Data   []any  `json:"data"`
}

// NewLayoutEvent creates a layout-event message.
func NewLayoutEvent(target string, data ...any) *LayoutEvent {
	return &LayoutEvent{Type: TypeLayoutEvent, Target: target, Data: data}
}

// DecodeEvent parses and validates a layout-event message.
func DecodeEvent(raw []byte) (*LayoutEvent, error) {
	var ev LayoutEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("protocol: decode event: %w", err)
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return &ev, nil
}

// Validate checks the event's type tag and target.
func (ev *LayoutEvent) Validate() error {
	if ev.Type != TypeLayoutEvent {
		return fmt.Errorf("protocol: unexpected message type %q", ev.Type)
	}
	if ev.Target == "" {
		return fmt.Errorf("protocol: event has no target")
	}
	return nil
}

// Encode serializes the update to JSON.
func (u *LayoutUpdate) Encode() ([]byte, error) {
	return json.Marshal(u)
}
