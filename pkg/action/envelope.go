package action

import (
	"encoding/json"
	"slices"

	"github.com/mitchellh/mapstructure"

	"github.com/ha1tch/diagram-toolkit/pkg/errors"
)

// Envelope is the {type, payload} wire record.
type Envelope struct {
	Type    Type `json:"type" yaml:"type"`
	Payload any  `json:"payload,omitempty" yaml:"payload,omitempty"`
}

var registry = map[Type]func() Action{
	TypeNodeCreate:             func() Action { return &NodeCreate{} },
	TypeNodeDelete:             func() Action { return &NodeDelete{} },
	TypeNodeDragStart:          func() Action { return &NodeDragStart{} },
	TypeNodeDrag:               func() Action { return &NodeDrag{} },
	TypeNodeDragEnd:            func() Action { return &NodeDragEnd{} },
	TypeNodeSelect:             func() Action { return &NodeSelect{} },
	TypeEdgeCreate:             func() Action { return &EdgeCreate{} },
	TypeEdgeDelete:             func() Action { return &EdgeDelete{} },
	TypeEdgeSelect:             func() Action { return &EdgeSelect{} },
	TypeEdgeDragStart:          func() Action { return &EdgeDragStart{} },
	TypeEdgeDrag:               func() Action { return &EdgeDrag{} },
	TypeEdgeDragEnd:            func() Action { return &EdgeDragEnd{} },
	TypePotentialNodeDragStart: func() Action { return &PotentialNodeDragStart{} },
	TypePotentialNodeDrag:      func() Action { return &PotentialNodeDrag{} },
	TypePotentialNodeDragEnd:   func() Action { return &PotentialNodeDragEnd{} },
	TypePanelDragStart:         func() Action { return &PanelDragStart{} },
	TypePanelDrag:              func() Action { return &PanelDrag{} },
	TypePanelDragEnd:           func() Action { return &PanelDragEnd{} },
	TypeWorkspaceDrag:          func() Action { return &WorkspaceDrag{} },
	TypeWorkspaceZoom:          func() Action { return &WorkspaceZoom{} },
	TypeWorkspaceResize:        func() Action { return &WorkspaceResize{} },
	TypeWorkspaceResetZoom:     func() Action { return &WorkspaceResetZoom{} },
	TypeWorkspaceDeselect:      func() Action { return &WorkspaceDeselect{} },
	TypeFocusNode:              func() Action { return &FocusNode{} },
	TypeFocusSelected:          func() Action { return &FocusSelected{} },
	TypeFit:                    func() Action { return &Fit{} },
	TypeSetEditorMode:          func() Action { return &SetEditorMode{} },
	TypeShowContextMenu:        func() Action { return &ShowContextMenu{} },
	TypeHideContextMenu:        func() Action { return &HideContextMenu{} },
	TypeUpdateSelectionMarquee: func() Action { return &UpdateSelectionMarquee{} },
	TypeHideSelectionMarquee:   func() Action { return &HideSelectionMarquee{} },
	TypeSelectAll:              func() Action { return &SelectAll{} },
	TypeCreateItems:            func() Action { return &CreateItems{} },
	TypeDeleteItems:            func() Action { return &DeleteItems{} },
	TypeUndo:                   func() Action { return &Undo{} },
	TypeRedo:                   func() Action { return &Redo{} },
	TypeLayout:                 func() Action { return &Layout{} },
}

// Types returns every known action type, sorted.
func Types() []Type {
	out := make([]Type, 0, len(registry))
	for t := range registry {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// New returns a zero action of type t.
func New(t Type) (Action, error) {
	mk, ok := registry[t]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidAction, "unknown action type %q", t)
	}
	return mk(), nil
}

// Wrap puts a in an Envelope.
func Wrap(a Action) Envelope {
	return Envelope{Type: a.Type(), Payload: a}
}

// Marshal encodes a as a JSON envelope.
func Marshal(a Action) ([]byte, error) {
	return json.Marshal(Wrap(a))
}

// Unmarshal decodes a JSON envelope.
func Unmarshal(data []byte) (Action, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidAction, err, "decode action envelope")
	}
	return FromMap(m)
}

// FromMap decodes a generic {type, payload} map, as produced by JSON or
// YAML decoders, into a typed action. Numeric payload fields accept any
// numeric or numeric-string representation.
func FromMap(m map[string]any) (Action, error) {
	raw, ok := m["type"]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidAction, "action has no type")
	}
	name, ok := raw.(string)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidAction, "action type must be a string, got %T", raw)
	}
	a, err := New(Type(name))
	if err != nil {
		return nil, err
	}

	payload, ok := m["payload"]
	if !ok || payload == nil {
		return a, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           a,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidAction, err, "build decoder")
	}
	if err := dec.Decode(payload); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidAction, err, "decode %s payload", name)
	}
	return a, nil
}
