package store

import (
	"testing"

	"github.com/ha1tch/diagram-toolkit/pkg/action"
)

// FuzzDispatch runs arbitrary action sequences through the full pipeline.
// Entities must always be stored under their own id.
// Run with: go test -fuzz=FuzzDispatch -fuzztime=30s ./pkg/store/
func FuzzDispatch(f *testing.F) {
	f.Add([]byte(`{"type":"NODE_CREATE","payload":{"position":{"x":10,"y":10},"size":{"width":10,"height":10}}}`),
		[]byte(`{"type":"UNDO"}`))
	f.Add([]byte(`{"type":"DELETE_ITEMS","payload":{"nodeIds":["n1"]}}`), []byte(`{"type":"REDO"}`))
	f.Add([]byte(`{"type":"EDGE_CREATE","payload":{"src":"n2","dest":"n1"}}`), []byte(`{"type":"NODE_DELETE","payload":{"id":"n2"}}`))
	f.Add([]byte(`{"type":"WORKSPACE_ZOOM","payload":{"zoom":-1e9}}`), []byte(`{"type":"FIT"}`))
	f.Add([]byte(`{"type":"SET_EDITOR_MODE","payload":{"mode":"READ_ONLY"}}`), []byte(`{"type":"NODE_DELETE","payload":{"id":"n1"}}`))

	f.Fuzz(func(t *testing.T, first, second []byte) {
		st := New(fixture())
		for _, data := range [][]byte{first, second, []byte(`{"type":"UNDO"}`), []byte(`{"type":"REDO"}`)} {
			a, err := action.Unmarshal(data)
			if err != nil {
				continue
			}
			st.Dispatch(a)
		}

		s := st.State()
		for id, n := range s.Nodes {
			if n.ID != id {
				t.Fatalf("node key %q holds %q", id, n.ID)
			}
		}
		for id, e := range s.Edges {
			if e.ID != id {
				t.Fatalf("edge key %q holds %q", id, e.ID)
			}
		}
	})
}
