package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgWarning = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// flashPeriod is how long a new message alternates between normal and
// inverted, in 125ms phases.
const flashPeriod = 500

const helpText = "m:mode  f:fit  c:focus  +/-/0:zoom  l/L/o:layout  p:png  ^Z:undo  ^S:save  q:quit"

func (ed *Editor) draw() {
	ed.host.Draw()
	w, h := ed.screen.Size()
	ed.drawStatusBar(w, h, time.Now().UnixMilli())
}

func (ed *Editor) drawStatusBar(w, h int, now int64) {
	y := h - 1
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	fileInfo := "[New]"
	if ed.filename != "" {
		fileInfo = ed.filename
		if len(fileInfo) > 30 {
			fileInfo = filepath.Base(fileInfo)
		}
	}
	if ed.modified {
		fileInfo += " *"
	}
	ed.drawString(1, y, fileInfo, styleStatus)

	status := ed.statusString()
	ed.drawString(w/2-len(status)/2, y, status, styleStatus)

	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		case MsgWarning:
			style = styleMsgWarning
		}
		if shouldFlash(ed.messageType) && inverted(now-ed.messageFlashStart) {
			style = style.Reverse(true)
		}
		ed.drawString(w-len([]rune(ed.message))-2, y, ed.message, style)
	}

	y = h - 2
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	ed.drawString(1, y, helpText, styleHelp)
}

func (ed *Editor) statusString() string {
	s := ed.dm.State()
	return fmt.Sprintf("%s  %d nodes  %d edges  %.0f%%",
		s.Editor.Mode, len(s.Nodes), len(s.Edges), s.Workspace.Scale*100)
}

func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		ed.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// flashing reports whether a message is mid-flash at now.
func (ed *Editor) flashing(now int64) bool {
	if ed.message == "" || !shouldFlash(ed.messageType) {
		return false
	}
	elapsed := now - ed.messageFlashStart
	return elapsed >= 0 && elapsed < flashPeriod+200
}

// inverted gives the flash pattern: normal, inverted, normal, inverted,
// then normal for good.
func inverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= flashPeriod {
		return false
	}
	phase := elapsed / 125
	return phase == 1 || phase == 3
}

func shouldFlash(t MessageType) bool {
	switch t {
	case MsgError, MsgSuccess, MsgWarning:
		return true
	}
	return false
}
