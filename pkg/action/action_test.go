package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
	"github.com/ha1tch/diagram-toolkit/pkg/errors"
	"github.com/ha1tch/diagram-toolkit/pkg/geom"
)

func TestRegistryCoversEveryType(t *testing.T) {
	for _, typ := range Types() {
		a, err := New(typ)
		require.NoError(t, err)
		assert.Equal(t, typ, a.Type())
	}
	assert.Len(t, Types(), 37)
}

func TestEnvelopeJSON(t *testing.T) {
	in := &NodeCreate{
		ID:           "n1",
		TypeID:       "task",
		Position:     geom.Point{X: 200, Y: 150},
		Size:         geom.Size{Width: 100, Height: 50},
		ConsumerData: map[string]any{"label": "Start"},
	}
	data, err := Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"NODE_CREATE"`)

	out, err := Unmarshal(data)
	require.NoError(t, err)
	got, ok := out.(*NodeCreate)
	require.True(t, ok)
	assert.Equal(t, in.Position, got.Position)
	assert.Equal(t, in.Size, got.Size)
	assert.Equal(t, "Start", got.ConsumerData.(map[string]any)["label"])
}

func TestFromMapNestedPayload(t *testing.T) {
	a, err := FromMap(map[string]any{
		"type": "CREATE_ITEMS",
		"payload": map[string]any{
			"nodes": []any{
				map[string]any{"id": "a", "position": map[string]any{"x": 1, "y": "2"}},
			},
			"edges": []any{
				map[string]any{"id": "e", "src": "a", "dest": "b"},
			},
		},
	})
	require.NoError(t, err)
	ci := a.(*CreateItems)
	require.Len(t, ci.Nodes, 1)
	assert.Equal(t, geom.Point{X: 1, Y: 2}, ci.Nodes[0].Position)
	assert.Equal(t, diagram.Edge{ID: "e", Src: "a", Dest: "b"}, ci.Edges[0])
}

func TestFromMapWithoutPayload(t *testing.T) {
	a, err := FromMap(map[string]any{"type": "UNDO"})
	require.NoError(t, err)
	assert.IsType(t, &Undo{}, a)
}

func TestFromMapErrors(t *testing.T) {
	tests := []map[string]any{
		{},
		{"type": 3},
		{"type": "NOPE"},
		{"type": "NODE_DELETE", "payload": "not a map"},
	}
	for _, m := range tests {
		_, err := FromMap(m)
		require.Error(t, err, m)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidAction), m)
	}
}

func TestUndoable(t *testing.T) {
	assert.True(t, Undoable(&NodeCreate{}))
	assert.True(t, Undoable(&DeleteItems{}))
	assert.False(t, Undoable(&NodeDrag{}))
	assert.False(t, Undoable(&WorkspaceDrag{}))
	assert.False(t, Undoable(&NodeSelect{}))
	assert.False(t, Undoable(&Layout{}))
}

func TestStructural(t *testing.T) {
	assert.True(t, Structural(&NodeDrag{}))
	assert.False(t, Structural(&WorkspaceZoom{}))
	assert.False(t, Structural(&EdgeDragEnd{}))
	assert.False(t, Structural(&SetEditorMode{}))
}
