// Package termhost mounts a diagram editor in a terminal.
//
// A Host is at once the editor's Container (its size is the screen in
// client units), its Renderer (drawn elements become cell boxes on a tcell
// screen) and the hit-test surface that tells the event normalizer which
// element lies under the mouse.
package termhost

import (
	"math"
	"sort"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/diagram-toolkit/pkg/config"
	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
	"github.com/ha1tch/diagram-toolkit/pkg/event"
	"github.com/ha1tch/diagram-toolkit/pkg/geom"
)

// DefaultCellSize is the client-space size of one terminal cell.
var DefaultCellSize = geom.Size{Width: 8, Height: 16}

// LibraryPanelID is the panel that lists draggable node types.
const LibraryPanelID = "library"

// Styles
var (
	styleNode        = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleNodeSel     = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	styleNodeDrag    = tcell.StyleDefault.Background(tcell.ColorPurple).Foreground(tcell.ColorWhite)
	styleConnector   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleEdge        = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleEdgeSel     = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleEdgeDrag    = tcell.StyleDefault.Foreground(tcell.NewRGBColor(200, 162, 200))
	stylePanel       = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	stylePanelHandle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleMenu        = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	stylePotential   = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Draw order, bottom to top. Items below layerEdge are never hit.
const (
	layerPreview = iota
	layerEdge
	layerNode
	layerPanel
	layerMenu
)

type cell struct{ x, y int }

// item is one rendered element and the Handle returned for it.
type item struct {
	layer int
	seq   int
	kind  diagram.ElementType
	id    string
	box   [2]cell // inclusive corners
	label string
	style tcell.Style
	path  []cell
	arrow rune
	el    *element
	rows  []*element // per-row children, panels only
	conn  *element   // output connector, nodes only
}

// Host renders into a tcell screen.
type Host struct {
	screen tcell.Screen
	cell   geom.Size

	// Library lists the node types offered by the library panel.
	Library []string
	// FooterRows are kept free at the bottom of the screen.
	FooterRows int

	mu      sync.Mutex
	items   map[*item]struct{}
	seq     int
	root    *element
	adapter *event.TcellAdapter
}

// New returns a host drawing into screen. A zero cellSize uses
// DefaultCellSize.
func New(screen tcell.Screen, cellSize geom.Size) *Host {
	if cellSize.Width <= 0 || cellSize.Height <= 0 {
		cellSize = DefaultCellSize
	}
	h := &Host{
		screen: screen,
		cell:   cellSize,
		items:  make(map[*item]struct{}),
		root: newElement(nil, diagram.ElementWorkspace, "",
			event.AttrEventTarget, event.AttrDraggable, event.AttrDropZone),
	}
	h.adapter = &event.TcellAdapter{CellSize: cellSize, Hit: h.Hit}
	return h
}

// Size is the screen size in client units.
func (h *Host) Size() geom.Size {
	w, ht := h.screen.Size()
	ht = max(ht-h.FooterRows, 1)
	return geom.Size{Width: float64(w) * h.cell.Width, Height: float64(ht) * h.cell.Height}
}

// Translate converts a tcell event into raw editor input.
func (h *Host) Translate(ev tcell.Event) []event.Raw {
	return h.adapter.Translate(ev)
}

// Hit returns the topmost element under a client point, falling back to
// the workspace.
func (h *Host) Hit(p geom.Point) event.Element {
	c := h.toCell(p)

	h.mu.Lock()
	defer h.mu.Unlock()
	items := h.sorted()
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		if it.layer < layerEdge {
			continue
		}
		if el := it.hit(c); el != nil {
			return el
		}
	}
	return h.root
}

func (it *item) hit(c cell) *element {
	if it.kind == diagram.ElementEdge {
		for _, pc := range it.path {
			if pc == c {
				return it.el
			}
		}
		return nil
	}
	lo, hi := it.box[0], it.box[1]
	if c.x < lo.x || c.x > hi.x || c.y < lo.y || c.y > hi.y {
		return nil
	}
	if row := c.y - lo.y; row < len(it.rows) && it.rows[row] != nil {
		return it.rows[row]
	}
	if it.conn != nil && c.x == hi.x && hi.x > lo.x {
		// The rightmost column is the output connector.
		return it.conn
	}
	return it.el
}

// Node implements config.Renderer.
func (h *Host) Node(n diagram.Node, slot config.Slot) config.Handle {
	el := newElement(h.root, diagram.ElementNode, n.ID,
		event.AttrEventTarget, event.AttrDraggable, event.AttrDropZone)
	connector := newElement(el, diagram.ElementConnector, n.ID,
		event.AttrEventTarget, event.AttrDraggable, event.AttrDropZone)

	style := styleNode
	switch {
	case n.Dragging:
		style = styleNodeDrag
	case n.Selected:
		style = styleNodeSel
	}
	return h.add(&item{
		layer: layerNode,
		kind:  diagram.ElementNode,
		id:    n.ID,
		box:   h.cellBox(slot.Box),
		label: nodeLabel(n),
		style: style,
		el:    el,
		conn:  connector,
	})
}

// Panel implements config.Renderer. The top row is the drag handle; the
// library panel lists one draggable row per node type below it.
func (h *Host) Panel(p diagram.Panel, slot config.Slot) config.Handle {
	el := newElement(h.root, diagram.ElementPanel, p.ID, event.AttrEventTarget)
	it := &item{
		layer: layerPanel,
		kind:  diagram.ElementPanel,
		id:    p.ID,
		box:   h.cellBox(slot.Box),
		label: p.ID,
		style: stylePanel,
		el:    el,
	}
	it.rows = []*element{newElement(el, diagram.ElementPanelDragHandle, p.ID,
		event.AttrEventTarget, event.AttrDraggable)}
	if p.ID == LibraryPanelID {
		for _, typeID := range h.Library {
			it.rows = append(it.rows, newElement(el, diagram.ElementLibraryItem, typeID,
				event.AttrEventTarget, event.AttrDraggable))
		}
	}
	return h.add(it)
}

// Edge implements config.EdgeRenderer. The edge without an id is the
// potential edge following the mouse; it is drawn but never hit.
func (h *Host) Edge(e diagram.Edge, path config.EdgePath, slot config.Slot) config.Handle {
	it := &item{
		layer: layerEdge,
		kind:  diagram.ElementEdge,
		id:    e.ID,
		style: styleEdge,
		el:    newElement(h.root, diagram.ElementEdge, e.ID, event.AttrEventTarget),
	}
	switch {
	case e.ID == "":
		it.layer, it.style = layerPreview, styleEdgeDrag
	case e.Selected:
		it.style = styleEdgeSel
	}

	seen := make(map[cell]bool)
	for _, p := range geom.Flatten(path.Src, path.C1, path.C2, path.Dest, 64) {
		c := h.toCell(p)
		if !seen[c] {
			seen[c] = true
			it.path = append(it.path, c)
		}
	}
	if path.Arrow != nil {
		it.arrow = arrowRune(geom.CubicTangent(path.Src, path.C1, path.C2, path.Dest, 1))
	}
	return h.add(it)
}

// PotentialNode implements config.PotentialNodeRenderer.
func (h *Host) PotentialNode(p diagram.PotentialNode, slot config.Slot) config.Handle {
	return h.add(&item{
		layer: layerPreview,
		kind:  diagram.ElementPotentialNode,
		box:   h.cellBox(slot.Box),
		label: p.TypeID,
		style: stylePotential,
	})
}

// ContextMenu implements config.ContextMenuRenderer.
func (h *Host) ContextMenu(m diagram.ContextMenu, slot config.Slot) config.Handle {
	label := shortType(m.TargetType)
	if m.TargetID != "" {
		label += " " + m.TargetID
	}
	at := h.toCell(geom.Point{X: slot.Box.X, Y: slot.Box.Y})
	return h.add(&item{
		layer: layerMenu,
		kind:  diagram.ElementContextMenu,
		id:    m.TargetID,
		box:   [2]cell{at, {at.x + len([]rune(label)) + 1, at.y}},
		label: label,
		style: styleMenu,
		el:    newElement(h.root, diagram.ElementContextMenu, m.TargetID, event.AttrEventTarget),
	})
}

// Destroy implements config.Renderer.
func (h *Host) Destroy(handle config.Handle) {
	it, ok := handle.(*item)
	if !ok {
		return
	}
	h.mu.Lock()
	delete(h.items, it)
	h.mu.Unlock()
}

func (h *Host) add(it *item) config.Handle {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq++
	it.seq = h.seq
	h.items[it] = struct{}{}
	return it
}

// sorted returns the items in draw order. Callers hold mu.
func (h *Host) sorted() []*item {
	items := make([]*item, 0, len(h.items))
	for it := range h.items {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].layer != items[j].layer {
			return items[i].layer < items[j].layer
		}
		return items[i].seq < items[j].seq
	})
	return items
}

// Len returns the number of live rendered elements.
func (h *Host) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.items)
}

func (h *Host) toCell(p geom.Point) cell {
	return cell{int(math.Floor(p.X / h.cell.Width)), int(math.Floor(p.Y / h.cell.Height))}
}

// cellBox covers every cell r touches, at least one.
func (h *Host) cellBox(r geom.Rect) [2]cell {
	lo := h.toCell(geom.Point{X: r.X, Y: r.Y})
	hi := cell{
		int(math.Ceil(r.Right()/h.cell.Width)) - 1,
		int(math.Ceil(r.Bottom()/h.cell.Height)) - 1,
	}
	hi.x = max(hi.x, lo.x)
	hi.y = max(hi.y, lo.y)
	return [2]cell{lo, hi}
}

func nodeLabel(n diagram.Node) string {
	if s, ok := n.ConsumerData.(string); ok && s != "" {
		return s
	}
	return n.ID
}

func shortType(t diagram.ElementType) string {
	s := string(t)
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return s[i+1:]
		}
	}
	return s
}

func arrowRune(dir geom.Point) rune {
	if math.Abs(dir.X) >= math.Abs(dir.Y) {
		if dir.X < 0 {
			return '◀'
		}
		return '▶'
	}
	if dir.Y < 0 {
		return '▲'
	}
	return '▼'
}
