// Package diagrammaker is the public entry point of the editor core.
//
// A DiagramMaker owns one store, mounted into a host Container. Host input
// enters through HandleEvent, is normalized and interpreted into actions,
// and every committed state is reconciled against the configured Renderer.
// The API type exposes the imperative operations (zoom, fit, undo, layout
// and so on) as dispatches of the same action vocabulary.
package diagrammaker

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ha1tch/diagram-toolkit/pkg/action"
	"github.com/ha1tch/diagram-toolkit/pkg/config"
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
	"github.com/ha1tch/diagram-toolkit/pkg/errors"
	"github.com/ha1tch/diagram-toolkit/pkg/event"
	"github.com/ha1tch/diagram-toolkit/pkg/geom"
	"github.com/ha1tch/diagram-toolkit/pkg/interact"
	"github.com/ha1tch/diagram-toolkit/pkg/reducer"
	"github.com/ha1tch/diagram-toolkit/pkg/store"
)

// Container is the host surface a diagram is mounted into.
type Container interface {
	// Size returns the current viewport size.
	Size() geom.Size
}

// Document resolves containers by id.
type Document interface {
	Container(id string) (Container, bool)
}

type options struct {
	initial   *diagram.State
	logger    *log.Logger
	storeOpts []store.Option
	origin    geom.Point
}

// Option configures a DiagramMaker.
type Option func(*options)

// WithInitialData starts from s instead of an empty diagram.
func WithInitialData(s diagram.State) Option {
	return func(o *options) { o.initial = &s }
}

// WithLogger sets the logger used by the facade and its store.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithHooks installs store instrumentation, such as metrics.Hooks.
func WithHooks(h store.Hooks) Option {
	return func(o *options) { o.storeOpts = append(o.storeOpts, store.WithHooks(h)) }
}

// WithIDGenerator replaces the uuid generator for new nodes and edges.
func WithIDGenerator(gen func() string) Option {
	return func(o *options) { o.storeOpts = append(o.storeOpts, store.WithIDGenerator(gen)) }
}

// WithStages adds pipeline stages after the built-in ones.
func WithStages(stages ...store.Stage) Option {
	return func(o *options) { o.storeOpts = append(o.storeOpts, store.WithStages(stages...)) }
}

// WithOrigin sets the container's top-left corner in the client space raw
// events are reported in.
func WithOrigin(p geom.Point) Option {
	return func(o *options) { o.origin = p }
}

// DiagramMaker is a mounted diagram editor.
type DiagramMaker struct {
	container Container
	cfg       config.Config
	store     *store.Store
	interp    *interact.Interpreter
	render    *reconciler
	logger    *log.Logger
	api       *API

	inputMu    sync.Mutex
	normalizer event.Normalizer
	tracker    event.Tracker

	unsubscribe func()
	destroyOnce sync.Once
	destroyed   chan struct{}
}

// NewByID resolves id in doc and mounts a diagram into it.
func NewByID(doc Document, id string, cfg config.Config, opts ...Option) (*DiagramMaker, error) {
	c, ok := doc.Container(id)
	if !ok || c == nil {
		return nil, &errors.ContainerNotFoundError{ID: id}
	}
	return New(c, cfg, opts...)
}

// New mounts a diagram into container.
func New(container Container, cfg config.Config, opts ...Option) (*DiagramMaker, error) {
	if container == nil {
		return nil, &errors.ContainerNotFoundError{}
	}
	if cfg.NodeTypes == nil {
		cfg.NodeTypes = map[string]config.NodeType{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}

	initial := diagram.New()
	if o.initial != nil {
		initial = diagram.Normalize(*o.initial)
		if err := initial.Validate(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "initial data")
		}
	}
	initial.Workspace.ViewContainerSize = container.Size()

	storeOpts := []store.Option{
		store.WithReducer(reducer.New(cfg.ReducerOptions())),
		store.WithLogger(o.logger),
	}
	if cfg.Interceptor != nil {
		storeOpts = append(storeOpts, store.WithInterceptor(cfg.Interceptor))
	}
	storeOpts = append(storeOpts, o.storeOpts...)

	d := &DiagramMaker{
		container:  container,
		cfg:        cfg,
		store:      store.New(initial, storeOpts...),
		interp:     interact.New(o.logger),
		render:     newReconciler(cfg),
		logger:     o.logger,
		normalizer: event.Normalizer{Origin: o.origin},
		destroyed:  make(chan struct{}),
	}
	d.api = &API{d: d}
	d.unsubscribe = d.store.Subscribe(d.onCommit)

	// Clamp the initial view against the real container and place docked
	// panels; this also performs the first render.
	d.UpdateContainer()
	d.render.sync(d.store.State())
	d.logger.Debug("diagram mounted", "nodes", len(initial.Nodes), "edges", len(initial.Edges))
	return d, nil
}

func (d *DiagramMaker) onCommit(_, _ diagram.State, a action.Action) {
	if m, ok := a.(*action.SetEditorMode); ok && m.Mode == diagram.ModeReadOnly {
		d.inputMu.Lock()
		d.tracker.Reset()
		d.inputMu.Unlock()
	}
	// Listeners may run concurrently; always draw the newest state.
	d.render.sync(d.store.State())
}

// API returns the imperative interface.
func (d *DiagramMaker) API() *API { return d.api }

// State returns the current state.
func (d *DiagramMaker) State() diagram.State { return d.store.State() }

// Subscribe registers l for every committed action.
func (d *DiagramMaker) Subscribe(l store.Listener) func() { return d.store.Subscribe(l) }

// Config returns the configuration the diagram was created with.
func (d *DiagramMaker) Config() config.Config { return d.cfg }

// UpdateContainer re-reads the container size, repositions docked panels
// and re-clamps zoom and pan.
func (d *DiagramMaker) UpdateContainer() {
	d.store.Dispatch(&action.WorkspaceResize{ContainerSize: d.container.Size()})
}

// HandleEvent feeds one raw host event through normalization, gesture
// tracking and interpretation, dispatching the resulting actions.
func (d *DiagramMaker) HandleEvent(raw event.Raw) {
	if d.isDestroyed() {
		return
	}
	s := d.store.State()

	d.inputMu.Lock()
	e, ok := d.normalizer.Normalize(raw, s.Workspace)
	var events []event.Event
	if ok {
		events = d.tracker.Track(e)
	}
	d.inputMu.Unlock()

	for _, e := range events {
		if d.cfg.EventListener != nil {
			d.cfg.EventListener(e)
		}
		for _, a := range d.interp.Interpret(e, d.store.State()) {
			d.store.Dispatch(a)
		}
	}
}

// SetOrigin moves the container within client space.
func (d *DiagramMaker) SetOrigin(p geom.Point) {
	d.inputMu.Lock()
	d.normalizer.Origin = p
	d.inputMu.Unlock()
}

// Destroy detaches from the store, destroys everything rendered and
// closes the channel returned by Destroyed.
func (d *DiagramMaker) Destroy() {
	d.destroyOnce.Do(func() {
		d.unsubscribe()
		d.store.Close()
		d.render.clear()
		close(d.destroyed)
		d.logger.Debug("diagram destroyed")
	})
}

// Destroyed is closed once Destroy has run.
func (d *DiagramMaker) Destroyed() <-chan struct{} { return d.destroyed }

func (d *DiagramMaker) isDestroyed() bool {
	select {
	case <-d.destroyed:
		return true
	default:
		return false
	}
}
