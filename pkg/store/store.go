// Package store owns the editor state and runs the dispatch pipeline:
//
//	interceptor -> stages -> reducers -> history -> listeners
//
// The consumer interceptor sees every dispatched action first and decides
// whether (and in what form) it reaches the rest of the pipeline. Stages
// are an ordered list of action-or-nothing transforms. Reducers and history
// bookkeeping run under a single lock, so one action is fully applied before
// the next is accepted even when dispatches arrive from several goroutines.
package store

import (
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ha1tch/diagram-toolkit/pkg/action"
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
	"github.com/ha1tch/diagram-toolkit/pkg/history"
	"github.com/ha1tch/diagram-toolkit/pkg/reducer"
)

// Next forwards an action to the pipeline behind the interceptor.
type Next func(a action.Action)

// GetState returns the latest committed state.
type GetState func() diagram.State

// Interceptor is the consumer hook in front of the pipeline. It may call
// next with the action (possibly after mutating its payload), call next
// with a different action, call it several times, or not at all. It may
// also keep next and call it later from another goroutine.
type Interceptor func(a action.Action, next Next, getState GetState)

// Listener is notified after every committed action.
type Listener func(prev, next diagram.State, a action.Action)

// Store is an explicitly owned state container.
type Store struct {
	mu          sync.Mutex
	state       diagram.State
	reducer     *reducer.Reducer
	history     *history.History
	stages      []Stage
	interceptor Interceptor
	listeners   map[int]Listener
	nextID      int
	closed      bool

	logger *log.Logger
	hooks  Hooks
}

// Option configures a Store.
type Option func(*Store)

// WithInterceptor installs the consumer interceptor.
func WithInterceptor(i Interceptor) Option {
	return func(s *Store) { s.interceptor = i }
}

// WithReducer replaces the default reducer.
func WithReducer(r *reducer.Reducer) Option {
	return func(s *Store) { s.reducer = r }
}

// WithHistoryLimit bounds the undo stack.
func WithHistoryLimit(n int) Option {
	return func(s *Store) { s.history = history.New(n) }
}

// WithStages appends stages after the built-in ones.
func WithStages(stages ...Stage) Option {
	return func(s *Store) { s.stages = append(s.stages, stages...) }
}

// WithIDGenerator replaces the uuid generator used for new nodes and edges.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.stages[idStage] = AssignIDs(gen) }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithHooks installs instrumentation hooks.
func WithHooks(h Hooks) Option {
	return func(s *Store) { s.hooks = h }
}

// Index of the id stage within the built-in stage list.
const idStage = 1

// New creates a store holding initial.
func New(initial diagram.State, opts ...Option) *Store {
	s := &Store{
		state:     diagram.Normalize(initial),
		reducer:   reducer.New(reducer.DefaultOptions()),
		history:   history.New(history.MaxLevels),
		stages:    []Stage{ReadOnlyGuard, AssignIDs(NewID)},
		listeners: make(map[int]Listener),
		logger:    log.New(io.Discard),
		hooks:     NoopHooks{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the latest committed state.
func (s *Store) State() diagram.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch sends a through the interceptor and, if forwarded, commits it.
func (s *Store) Dispatch(a action.Action) {
	if a == nil {
		return
	}
	if s.interceptor == nil {
		s.commit(a)
		return
	}
	s.interceptor(a, s.commit, s.State)
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// HistoryDepth returns the number of undo and redo entries.
func (s *Store) HistoryDepth() (undo, redo int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Depth()
}

// Close drops all listeners and ignores further dispatches.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	clear(s.listeners)
}

// commit runs the stages, reducers and history bookkeeping for a single
// action and then notifies listeners outside the lock, so listeners and
// interceptors may dispatch again.
func (s *Store) commit(a action.Action) {
	if a == nil {
		return
	}
	start := time.Now()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	prev := s.state
	typ := a.Type()
	for i, stage := range s.stages {
		if a = stage(a, prev); a == nil {
			s.mu.Unlock()
			s.logger.Debug("action dropped", "type", typ, "stage", i)
			s.hooks.OnDrop(typ)
			return
		}
	}

	var next diagram.State
	switch a.(type) {
	case *action.Undo:
		next = s.undo(prev)
	case *action.Redo:
		next = s.redo(prev)
	default:
		next = s.reducer.Reduce(prev, a)
		if inv, ok := history.Invert(prev, next, a); ok {
			s.history.Record(history.Entry{Action: a, Inverse: inv})
		}
	}
	s.state = next
	undo, redo := s.history.Depth()
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	took := time.Since(start)
	s.logger.Debug("action committed", "type", a.Type(), "took", took)
	s.hooks.OnCommit(a.Type(), took)
	s.hooks.OnHistory(undo, redo)

	for _, l := range listeners {
		l(prev, next, a)
	}
}

// undo applies the newest reverting descriptor directly to the reducers.
// Must be called with mu held.
func (s *Store) undo(prev diagram.State) diagram.State {
	e, ok := s.history.Undo()
	if !ok {
		s.logger.Debug("nothing to undo")
		return prev
	}
	return s.reducer.Reduce(prev, e.Inverse)
}

// redo re-applies the newest undone action and records a fresh inverse
// computed against the current state. Must be called with mu held.
func (s *Store) redo(prev diagram.State) diagram.State {
	e, ok := s.history.Redo()
	if !ok {
		s.logger.Debug("nothing to redo")
		return prev
	}
	next := s.reducer.Reduce(prev, e.Action)
	if inv, ok := history.Invert(prev, next, e.Action); ok {
		s.history.Restore(history.Entry{Action: e.Action, Inverse: inv})
	}
	return next
}

func (s *Store) snapshotListeners() []Listener {
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]Listener, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.listeners[id])
	}
	return out
}
