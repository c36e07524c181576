package event

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/diagram-toolkit/pkg/geom"
)

// WheelStep is the deltaY reported for one terminal wheel notch.
const WheelStep = 50.0

// TcellAdapter converts tcell input into raw events. tcell reports the
// current button mask on every mouse event, so the adapter remembers the
// previous mask to recover press and release transitions.
type TcellAdapter struct {
	// CellSize is the client-space size of one terminal cell.
	CellSize geom.Size
	// Hit returns the element at a client point; may be nil.
	Hit func(p geom.Point) Element

	buttons tcell.ButtonMask
}

// Translate returns the raw events implied by ev, in order.
func (a *TcellAdapter) Translate(ev tcell.Event) []Raw {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		return a.mouse(ev)
	case *tcell.EventKey:
		if r, ok := key(ev); ok {
			return []Raw{r}
		}
	}
	return nil
}

func (a *TcellAdapter) mouse(ev *tcell.EventMouse) []Raw {
	x, y := ev.Position()
	cw, ch := a.CellSize.Width, a.CellSize.Height
	if cw <= 0 {
		cw = 1
	}
	if ch <= 0 {
		ch = 1
	}
	p := geom.Point{X: float64(x) * cw, Y: float64(y) * ch}
	var target Element
	if a.Hit != nil {
		target = a.Hit(p)
	}
	base := Raw{Client: p, Mods: mods(ev.Modifiers()), Target: target}

	btns := ev.Buttons()
	var out []Raw
	switch {
	case btns&tcell.WheelUp != 0:
		r := base
		r.Kind, r.DeltaY = RawWheel, -WheelStep
		return []Raw{r}
	case btns&tcell.WheelDown != 0:
		r := base
		r.Kind, r.DeltaY = RawWheel, WheelStep
		return []Raw{r}
	}

	pressed := btns &^ a.buttons
	released := a.buttons &^ btns
	a.buttons = btns & (tcell.Button1 | tcell.Button2 | tcell.Button3)

	for _, b := range []struct {
		mask tcell.ButtonMask
		btn  Button
	}{
		{tcell.Button1, ButtonLeft},
		{tcell.Button3, ButtonMiddle},
		{tcell.Button2, ButtonRight},
	} {
		if released&b.mask != 0 {
			r := base
			r.Kind, r.Button = RawMouseUp, b.btn
			out = append(out, r)
		}
		if pressed&b.mask != 0 {
			r := base
			r.Kind, r.Button = RawMouseDown, b.btn
			out = append(out, r)
			if b.btn == ButtonRight {
				cm := base
				cm.Kind, cm.Button = RawContextMenu, ButtonRight
				out = append(out, cm)
			}
		}
	}
	if len(out) == 0 {
		r := base
		r.Kind = RawMouseMove
		out = append(out, r)
	}
	return out
}

func key(ev *tcell.EventKey) (Raw, bool) {
	r := Raw{Kind: RawKeyDown, Mods: mods(ev.Modifiers())}
	switch ev.Key() {
	case tcell.KeyDelete:
		r.Key = "Delete"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		r.Key = "Backspace"
	case tcell.KeyEscape:
		r.Key = "Escape"
	case tcell.KeyEnter:
		r.Key = "Enter"
	case tcell.KeyUp:
		r.Key = "ArrowUp"
	case tcell.KeyDown:
		r.Key = "ArrowDown"
	case tcell.KeyLeft:
		r.Key = "ArrowLeft"
	case tcell.KeyRight:
		r.Key = "ArrowRight"
	case tcell.KeyRune:
		r.Key = string(ev.Rune())
	default:
		// Control letters arrive as their own key codes.
		if k := ev.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
			r.Key = strings.ToLower(string(rune('A' + k - tcell.KeyCtrlA)))
			r.Mods.Ctrl = true
			return r, true
		}
		return Raw{}, false
	}
	return r, true
}

func mods(m tcell.ModMask) Modifiers {
	return Modifiers{
		Shift: m&tcell.ModShift != 0,
		Ctrl:  m&tcell.ModCtrl != 0,
		Alt:   m&tcell.ModAlt != 0,
		Meta:  m&tcell.ModMeta != 0,
	}
}
