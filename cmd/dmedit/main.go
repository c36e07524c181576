// Command dmedit is a terminal diagram editor.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/diagram-toolkit/pkg/action"
	"github.com/ha1tch/diagram-toolkit/pkg/config"
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
	"github.com/ha1tch/diagram-toolkit/pkg/diagrammaker"
	"github.com/ha1tch/diagram-toolkit/pkg/geom"
	"github.com/ha1tch/diagram-toolkit/pkg/layout"
	"github.com/ha1tch/diagram-toolkit/pkg/snapshot"
	"github.com/ha1tch/diagram-toolkit/pkg/termhost"
)

// MessageType controls how status messages are displayed
type MessageType int

const (
	MsgInfo    MessageType = iota // Neutral information, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // Saves and exports, flash
	MsgWarning                    // Warnings, flash
)

// defaultLibrary is offered when the configuration defines no node types.
var defaultLibrary = []string{"task", "decision", "end"}

// panStep is how far the arrow keys pan, in container units.
const panStep = 40.0

// Editor holds all editor state
type Editor struct {
	screen tcell.Screen
	host   *termhost.Host
	dm     *diagrammaker.DiagramMaker
	cfg    config.Config
	logger *log.Logger

	filename          string
	modified          bool
	message           string
	messageType       MessageType
	messageFlashStart int64
	quitArmed         bool
}

func main() {
	var path string
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	screen.Clear()

	ed, err := newEditor(screen, cfg, path, editorLogger())
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", path, err)
		os.Exit(1)
	}

	ed.run()
	ed.dm.Destroy()
	screen.Fini()
}

// editorLogger writes to $DMEDIT_LOG when set; the terminal belongs to
// the editor.
func editorLogger() *log.Logger {
	path := os.Getenv("DMEDIT_LOG")
	if path == "" {
		return log.New(io.Discard)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return log.New(io.Discard)
	}
	return log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           log.DebugLevel,
	})
}

func newEditor(screen tcell.Screen, cfg config.Config, path string, logger *log.Logger) (*Editor, error) {
	s := diagram.New()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if s, err = diagram.Decode(data, diagram.FormatFromPath(path)); err != nil {
				return nil, err
			}
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	host := termhost.New(screen, geom.Size{})
	host.FooterRows = 2
	host.Library = libraryTypes(cfg)
	cfg.Renderer = host

	ed := &Editor{
		screen:   screen,
		host:     host,
		cfg:      cfg,
		logger:   logger,
		filename: path,
	}
	d, err := diagrammaker.New(host, cfg,
		diagrammaker.WithInitialData(withLibrary(s, len(host.Library))),
		diagrammaker.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	d.Subscribe(func(_, _ diagram.State, a action.Action) {
		if changesDocument(a) {
			ed.modified = true
		}
	})
	ed.dm = d
	return ed, nil
}

// changesDocument reports whether a committed action edits what Save
// writes. Drag previews and pan/zoom do not count.
func changesDocument(a action.Action) bool {
	switch a.(type) {
	case *action.NodeDragEnd, *action.Undo, *action.Redo, *action.Layout:
		return true
	}
	return action.Undoable(a)
}

// libraryTypes lists the configured node types, sorted.
func libraryTypes(cfg config.Config) []string {
	if len(cfg.NodeTypes) == 0 {
		return defaultLibrary
	}
	types := make([]string, 0, len(cfg.NodeTypes))
	for id := range cfg.NodeTypes {
		types = append(types, id)
	}
	slices.Sort(types)
	return types
}

// withLibrary docks the library panel top right unless the file already
// places it.
func withLibrary(s diagram.State, items int) diagram.State {
	if _, ok := s.Panels[termhost.LibraryPanelID]; ok {
		return s
	}
	cell := termhost.DefaultCellSize
	panels := make(map[string]diagram.Panel, len(s.Panels)+1)
	for id, p := range s.Panels {
		panels[id] = p
	}
	panels[termhost.LibraryPanelID] = diagram.Panel{
		ID:             termhost.LibraryPanelID,
		Size:           geom.Size{Width: 18 * cell.Width, Height: float64(items+2) * cell.Height},
		PositionAnchor: diagram.AnchorTopRight,
		Offset:         geom.Point{X: cell.Width, Y: cell.Height},
	}
	s.Panels = panels
	return s
}

func (ed *Editor) run() {
	// Refresh while a message is flashing
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ed.dm.Destroyed():
				return
			case <-ticker.C:
				if ed.flashing(time.Now().UnixMilli()) {
					ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
				}
			}
		}
	}()

	for {
		ed.draw()
		ed.screen.Show()

		switch ev := ed.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			ed.screen.Sync()
			ed.dm.UpdateContainer()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			ed.forward(ev)
		case *tcell.EventInterrupt:
			// Redraw only
		}
	}
}

func (ed *Editor) forward(ev tcell.Event) {
	for _, raw := range ed.host.Translate(ev) {
		ed.dm.HandleEvent(raw)
	}
}

// handleKey runs editor commands and forwards everything else to the
// diagram. It returns true to quit.
func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	api := ed.dm.API()
	quit := ev.Key() == tcell.KeyCtrlQ || (ev.Key() == tcell.KeyRune && ev.Rune() == 'q')
	if !quit {
		ed.quitArmed = false
	}

	switch ev.Key() {
	case tcell.KeyCtrlQ:
		return ed.quit()
	case tcell.KeyCtrlS:
		ed.save()
		return false
	case tcell.KeyUp:
		api.Dispatch(&action.WorkspaceDrag{Delta: geom.Point{Y: panStep}})
		return false
	case tcell.KeyDown:
		api.Dispatch(&action.WorkspaceDrag{Delta: geom.Point{Y: -panStep}})
		return false
	case tcell.KeyLeft:
		api.Dispatch(&action.WorkspaceDrag{Delta: geom.Point{X: panStep}})
		return false
	case tcell.KeyRight:
		api.Dispatch(&action.WorkspaceDrag{Delta: geom.Point{X: -panStep}})
		return false
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModCtrl|tcell.ModMeta|tcell.ModAlt) != 0 {
			break
		}
		switch ev.Rune() {
		case 'q':
			return ed.quit()
		case 'm':
			api.SetEditorMode(nextMode(ed.dm.State().Editor.Mode))
			return false
		case 'f':
			api.Fit()
			return false
		case 'c':
			api.FocusSelected()
			return false
		case '+', '=':
			api.ZoomIn()
			return false
		case '-':
			api.ZoomOut()
			return false
		case '0':
			api.ResetZoom()
			return false
		case 'l':
			ed.layout(layout.Workflow)
			return false
		case 'L':
			ed.layout(layout.Hierarchical)
			return false
		case 'o':
			ed.layout(layout.Force)
			return false
		case 'p':
			ed.exportPNG()
			return false
		}
	}
	ed.forward(ev)
	return false
}

// quit asks once for confirmation when there are unsaved changes.
func (ed *Editor) quit() bool {
	if !ed.modified || ed.quitArmed {
		return true
	}
	ed.quitArmed = true
	ed.showMessage("Unsaved changes: press q again to quit", MsgWarning)
	return false
}

func nextMode(m diagram.Mode) diagram.Mode {
	switch m {
	case diagram.ModeDrag:
		return diagram.ModeSelect
	case diagram.ModeSelect:
		return diagram.ModeReadOnly
	default:
		return diagram.ModeDrag
	}
}

func (ed *Editor) layout(alg layout.Algorithm) {
	opts := ed.cfg.Layout
	opts.Algorithm = alg
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ed.dm.API().Layout(ctx, opts); err != nil {
		ed.showMessage(fmt.Sprintf("Layout failed: %v", err), MsgError)
		return
	}
	ed.showMessage(fmt.Sprintf("Layout: %s", strings.ToLower(string(alg))), MsgInfo)
}

func (ed *Editor) targetPath() string {
	if ed.filename != "" {
		return ed.filename
	}
	return "diagram.json"
}

// persisted is the state as written to disk: the library panel belongs to
// the editor, not the document.
func (ed *Editor) persisted() diagram.State {
	s := diagram.Persistable(ed.dm.State())
	panels := make(map[string]diagram.Panel, len(s.Panels))
	for id, p := range s.Panels {
		if id != termhost.LibraryPanelID {
			panels[id] = p
		}
	}
	s.Panels = panels
	return s
}

func (ed *Editor) save() {
	path := ed.targetPath()
	data, err := diagram.Encode(ed.persisted(), diagram.FormatFromPath(path), true)
	if err == nil {
		err = os.WriteFile(path, data, 0o644)
	}
	if err != nil {
		ed.showMessage(fmt.Sprintf("Save failed: %v", err), MsgError)
		return
	}
	ed.filename = path
	ed.modified = false
	ed.showMessage("Saved "+filepath.Base(path), MsgSuccess)
}

func (ed *Editor) exportPNG() {
	path := strings.TrimSuffix(ed.targetPath(), filepath.Ext(ed.targetPath())) + ".png"
	f, err := os.Create(path)
	if err != nil {
		ed.showMessage(fmt.Sprintf("Export failed: %v", err), MsgError)
		return
	}
	defer f.Close()
	if err := snapshot.Render(f, ed.persisted(), ed.cfg, snapshot.DefaultOptions()); err != nil {
		ed.showMessage(fmt.Sprintf("Export failed: %v", err), MsgError)
		return
	}
	ed.showMessage("Exported "+filepath.Base(path), MsgSuccess)
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
	ed.messageFlashStart = time.Now().UnixMilli()
	ed.logger.Debug("message", "text", msg)
}
