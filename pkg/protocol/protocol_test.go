package protocol

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestLayoutUpdateEncode(t *testing.T) {
	update := NewLayoutUpdate("/children/2", &VNodeJSON{
		TagName: "div",
		Attributes: map[string]any{
			"class": "box",
		},
		Children: []any{"hello"},
	})

	data, err := update.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if decoded["type"] != TypeLayoutUpdate {
		t.Errorf("type = %v", decoded["type"])
	}
	if decoded["path"] != "/children/2" {
		t.Errorf("path = %v", decoded["path"])
	}
	model, _ := decoded["model"].(map[string]any)
	if model["tagName"] != "div" {
		t.Errorf("model tagName = %v", model["tagName"])
	}
}

func TestTagNameAlwaysSerialized(t *testing.T) {
	// Fragment wrappers have an empty tagName; the field must still be
	// present so the client sees a well-formed node.
	data, err := json.Marshal(&VNodeJSON{TagName: ""})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"tagName":""`) {
		t.Errorf("empty tagName omitted: %s", data)
	}
}

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"type":"layout-event","target":"abc","data":[1,"x"]}`, false},
		{"empty data", `{"type":"layout-event","target":"abc"}`, false},
		{"missing target", `{"type":"layout-event","data":[]}`, true},
		{"wrong type", `{"type":"layout-update","target":"abc"}`, true},
		{"not json", `{{`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := DecodeEvent([]byte(tt.raw))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ev.Target != "abc" {
				t.Errorf("target = %q", ev.Target)
			}
		})
	}
}

func TestValidateRejectsErrorWithTagName(t *testing.T) {
	n := &VNodeJSON{TagName: "div", Error: "boom"}
	if err := n.Validate(); err == nil {
		t.Error("expected validation failure for error+tagName")
	}

	placeholder := &VNodeJSON{Error: "boom"}
	if err := placeholder.Validate(); err != nil {
		t.Errorf("bare error placeholder rejected: %v", err)
	}
}

func TestValidateRejectsFragmentWithAttributes(t *testing.T) {
	n := &VNodeJSON{
		Attributes: map[string]any{"class": "x"},
	}
	if err := n.Validate(); err == nil {
		t.Error("expected validation failure for fragment attributes")
	}
}

func TestValidateWalksChildren(t *testing.T) {
	n := &VNodeJSON{
		TagName: "div",
		Children: []any{
			"text is fine",
			&VNodeJSON{TagName: "p", Error: "boom"},
		},
	}
	err := n.Validate()
	if err == nil {
		t.Fatal("expected nested validation failure")
	}
	if !strings.Contains(err.Error(), "/children/1") {
		t.Errorf("error %q does not name the offending path", err)
	}
}

func TestEqual(t *testing.T) {
	a := &VNodeJSON{TagName: "div", Children: []any{"x"}}
	b := &VNodeJSON{TagName: "div", Children: []any{"x"}}
	c := &VNodeJSON{TagName: "div", Children: []any{"y"}}

	if !Equal(a, b) {
		t.Error("identical trees compare unequal")
	}
	if Equal(a, c) {
		t.Error("different trees compare equal")
	}
}
