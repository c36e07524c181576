package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/diagram-toolkit/pkg/action"
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
	"github.com/ha1tch/diagram-toolkit/pkg/store"
)

func TestHooksRecordPipeline(t *testing.T) {
	reg := prometheus.NewRegistry()
	h, err := New(reg)
	require.NoError(t, err)

	st := store.New(diagram.New(), store.WithHooks(h))
	st.Dispatch(&action.NodeCreate{ID: "a"})
	st.Dispatch(&action.NodeCreate{ID: "b"})
	st.Dispatch(&action.Undo{})
	st.Dispatch(&action.SetEditorMode{Mode: diagram.ModeReadOnly})
	st.Dispatch(&action.NodeDelete{ID: "a"})

	assert.Equal(t, 2.0, testutil.ToFloat64(h.committed.WithLabelValues(string(action.TypeNodeCreate))))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.dropped.WithLabelValues(string(action.TypeNodeDelete))))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.undoDepth))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.redoDepth))
}

func TestDoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}
