package termhost

import (
	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/diagram-toolkit/pkg/diagram"
)

// Draw repaints every rendered element into the screen's back buffer.
// The renderer methods only record what to draw; callers Draw after each
// commit, add their own chrome and Show the screen.
func (h *Host) Draw() {
	h.mu.Lock()
	items := h.sorted()
	library := h.Library
	h.mu.Unlock()

	h.screen.Clear()
	for _, it := range items {
		switch it.kind {
		case diagram.ElementEdge:
			h.drawEdge(it)
		case diagram.ElementNode:
			h.drawBox(it.box, it.label, it.style)
			if it.box[1].x > it.box[0].x {
				mid := (it.box[0].y + it.box[1].y) / 2
				h.screen.SetContent(it.box[1].x, mid, '●', nil, styleConnector)
			}
		case diagram.ElementPanel:
			h.drawBox(it.box, "", it.style)
			h.drawString(it.box[0].x+1, it.box[0].y, "≡ "+it.label, stylePanelHandle, it.box[1].x)
			if it.id == LibraryPanelID {
				for i, typeID := range library {
					y := it.box[0].y + 1 + i
					if y >= it.box[1].y {
						break
					}
					h.drawString(it.box[0].x+2, y, typeID, it.style, it.box[1].x)
				}
			}
		case diagram.ElementPotentialNode:
			h.drawBox(it.box, it.label, it.style)
		case diagram.ElementContextMenu:
			h.fill(it.box, it.style)
			h.drawString(it.box[0].x+1, it.box[0].y, it.label, it.style, it.box[1].x)
		}
	}
}

func (h *Host) drawEdge(it *item) {
	for _, c := range it.path {
		h.screen.SetContent(c.x, c.y, '·', nil, it.style)
	}
	if it.arrow != 0 && len(it.path) > 0 {
		end := it.path[len(it.path)-1]
		h.screen.SetContent(end.x, end.y, it.arrow, nil, it.style)
	}
}

// drawBox draws a bordered box with an optional centred label.
func (h *Host) drawBox(box [2]cell, label string, style tcell.Style) {
	x0, y0, x1, y1 := box[0].x, box[0].y, box[1].x, box[1].y
	if x0 == x1 || y0 == y1 {
		h.fill(box, style)
		h.drawString(x0, y0, label, style, x1)
		return
	}

	h.screen.SetContent(x0, y0, '┌', nil, style)
	h.screen.SetContent(x1, y0, '┐', nil, style)
	h.screen.SetContent(x0, y1, '└', nil, style)
	h.screen.SetContent(x1, y1, '┘', nil, style)
	for x := x0 + 1; x < x1; x++ {
		h.screen.SetContent(x, y0, '─', nil, style)
		h.screen.SetContent(x, y1, '─', nil, style)
	}
	for y := y0 + 1; y < y1; y++ {
		h.screen.SetContent(x0, y, '│', nil, style)
		h.screen.SetContent(x1, y, '│', nil, style)
		for x := x0 + 1; x < x1; x++ {
			h.screen.SetContent(x, y, ' ', nil, style)
		}
	}

	if label != "" {
		inner := x1 - x0 - 1
		runes := []rune(label)
		if len(runes) > inner {
			runes = runes[:max(inner, 0)]
		}
		x := x0 + 1 + (inner-len(runes))/2
		h.drawString(x, (y0+y1)/2, string(runes), style, x1-1)
	}
}

func (h *Host) fill(box [2]cell, style tcell.Style) {
	for y := box[0].y; y <= box[1].y; y++ {
		for x := box[0].x; x <= box[1].x; x++ {
			h.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

// drawString writes s from x, clipped at column limit inclusive.
func (h *Host) drawString(x, y int, s string, style tcell.Style, limit int) {
	for _, r := range s {
		if x > limit {
			return
		}
		h.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
