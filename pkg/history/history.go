// Package history records reverting descriptors for structural edits and
// replays them on undo.
//
// Only graph edits are recorded (see action.Undoable): node and edge
// create/delete and their bulk forms. Moves, pans, zooms and selection are
// never historied.
package history

import (
	"slices"

	"github.com/ha1tch/diagram-toolkit/pkg/action"
)

// MaxLevels is the default number of undo entries kept.
const MaxLevels = 50

// Entry pairs an applied action with the action that reverts it.
type Entry struct {
	Action  action.Action
	Inverse action.Action
}

// History is a bounded pair of undo/redo stacks. It is not safe for
// concurrent use; the store serializes access.
type History struct {
	undo  []Entry
	redo  []Entry
	limit int
}

// New creates a History keeping at most limit undo entries.
func New(limit int) *History {
	if limit <= 0 {
		limit = MaxLevels
	}
	return &History{limit: limit}
}

// Record pushes a new entry and clears the redo stack.
func (h *History) Record(e Entry) {
	h.push(e)
	h.redo = nil
}

func (h *History) push(e Entry) {
	h.undo = append(h.undo, e)
	if len(h.undo) > h.limit {
		h.undo = slices.Delete(h.undo, 0, len(h.undo)-h.limit)
	}
}

// Undo pops the newest entry and moves it onto the redo stack.
func (h *History) Undo() (Entry, bool) {
	if len(h.undo) == 0 {
		return Entry{}, false
	}
	e := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, e)
	return e, true
}

// Redo pops the newest redo entry. The caller re-applies e.Action and
// hands the fresh entry back through Restore.
func (h *History) Redo() (Entry, bool) {
	if len(h.redo) == 0 {
		return Entry{}, false
	}
	e := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	return e, true
}

// Restore pushes a redone entry without clearing the redo stack.
func (h *History) Restore(e Entry) {
	h.push(e)
}

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Depth returns the sizes of the undo and redo stacks.
func (h *History) Depth() (undo, redo int) { return len(h.undo), len(h.redo) }

// Clear drops every entry.
func (h *History) Clear() {
	h.undo, h.redo = nil, nil
}
