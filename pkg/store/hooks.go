package store

import (
	"time"

	"github.com/ha1tch/diagram-toolkit/pkg/action"
)

// Hooks receives pipeline events for instrumentation.
type Hooks interface {
	// OnCommit is called after an action has been applied.
	OnCommit(t action.Type, took time.Duration)

	// OnDrop is called when a stage discards an action.
	OnDrop(t action.Type)

	// OnHistory reports the undo/redo depth after each commit.
	OnHistory(undo, redo int)
}

// NoopHooks ignores every event.
type NoopHooks struct{}

func (NoopHooks) OnCommit(action.Type, time.Duration) {}
func (NoopHooks) OnDrop(action.Type)                  {}
func (NoopHooks) OnHistory(int, int)                  {}
