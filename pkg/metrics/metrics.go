// Package metrics exports store pipeline events as Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ha1tch/diagram-toolkit/pkg/action"
	"github.com/ha1tch/diagram-toolkit/pkg/store"
)

// Hooks implements store.Hooks on top of Prometheus collectors.
type Hooks struct {
	committed *prometheus.CounterVec
	dropped   *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	undoDepth prometheus.Gauge
	redoDepth prometheus.Gauge
}

var _ store.Hooks = (*Hooks)(nil)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Hooks, error) {
	h := &Hooks{
		committed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "diagram_actions_committed_total",
				Help: "Total number of actions applied to the state",
			},
			[]string{"type"},
		),
		dropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "diagram_actions_dropped_total",
				Help: "Total number of actions discarded by a pipeline stage",
			},
			[]string{"type"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "diagram_action_duration_seconds",
				Help:    "Time spent reducing an action",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
			[]string{"type"},
		),
		undoDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "diagram_undo_depth",
			Help: "Entries on the undo stack",
		}),
		redoDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "diagram_redo_depth",
			Help: "Entries on the redo stack",
		}),
	}

	for _, c := range []prometheus.Collector{h.committed, h.dropped, h.duration, h.undoDepth, h.redoDepth} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (h *Hooks) OnCommit(t action.Type, took time.Duration) {
	h.committed.WithLabelValues(string(t)).Inc()
	h.duration.WithLabelValues(string(t)).Observe(took.Seconds())
}

func (h *Hooks) OnDrop(t action.Type) {
	h.dropped.WithLabelValues(string(t)).Inc()
}

func (h *Hooks) OnHistory(undo, redo int) {
	h.undoDepth.Set(float64(undo))
	h.redoDepth.Set(float64(redo))
}
