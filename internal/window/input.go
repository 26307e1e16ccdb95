package window

import (
	"image"
	"unicode"

	"golang.org/x/image/math/f64"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/photocanvas/internal/scene"
	"github.com/example/photocanvas/internal/tool"
)

// pointerTracker turns shiny mouse events into artboard gesture events.
// Only the left button drives gestures.
type pointerTracker struct {
	down bool
	last f64.Vec2
}

// translate converts e, in window pixels, to a pointer event relative to
// the viewport origin. ok is false for events that carry no gesture.
func (t *pointerTracker) translate(e mouse.Event, origin image.Point) (scene.Pointer, bool) {
	pos := f64.Vec2{float64(e.X) - float64(origin.X), float64(e.Y) - float64(origin.Y)}
	shift := e.Modifiers&key.ModShift != 0
	switch {
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
		t.down = true
		t.last = pos
		return scene.Pointer{Phase: scene.PointerDown, Pos: pos, Shift: shift}, true
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
		if !t.down {
			return scene.Pointer{}, false
		}
		t.down = false
		return scene.Pointer{Phase: scene.PointerUp, Pos: pos, Shift: shift}, true
	case e.Direction == mouse.DirNone && t.down:
		mv := f64.Vec2{pos[0] - t.last[0], pos[1] - t.last[1]}
		t.last = pos
		return scene.Pointer{Phase: scene.PointerMove, Pos: pos, Movement: mv, Shift: shift}, true
	}
	return scene.Pointer{}, false
}

// wheelDelta is the zoom change for a wheel event, zero for anything else.
func wheelDelta(e mouse.Event) float64 {
	switch e.Button {
	case mouse.ButtonWheelUp:
		return 0.1
	case mouse.ButtonWheelDown:
		return -0.1
	}
	return 0
}

type action int

const (
	actionNone action = iota
	actionTool
	actionCopy
	actionPaste
	actionUndo
	actionSave
	actionReset
	actionZoomIn
	actionZoomOut
	actionFit
	actionQuit
)

// shortcut binds a key to an action. tool is set for actionTool.
type shortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
	action    action
	tool      tool.Kind
}

var shortcuts = []shortcut{
	{Rune: 'h', action: actionTool, tool: tool.Pan},
	{Rune: 'z', action: actionTool, tool: tool.Zoom},
	{Rune: 'v', action: actionTool, tool: tool.Transform},
	{Rune: 'b', action: actionTool, tool: tool.Draw},
	{Rune: 't', action: actionTool, tool: tool.Text},
	{Rune: 'r', action: actionTool, tool: tool.Crop},
	{Rune: 'z', Modifiers: key.ModControl, action: actionUndo},
	{Rune: 's', Modifiers: key.ModControl, action: actionSave},
	{Rune: 'c', Modifiers: key.ModControl, action: actionCopy},
	{Rune: 'v', Modifiers: key.ModControl, action: actionPaste},
	{Rune: 'q', Modifiers: key.ModControl, action: actionQuit},
	{Rune: '+', action: actionZoomIn},
	{Rune: '=', action: actionZoomIn},
	{Rune: '-', action: actionZoomOut},
	{Rune: '0', action: actionFit},
	{Code: key.CodeEscape, action: actionReset},
}

// shortcutFor returns the key hint shown on a tool button.
func shortcutFor(k tool.Kind) (rune, bool) {
	for _, sc := range shortcuts {
		if sc.action == actionTool && sc.tool == k {
			return sc.Rune, true
		}
	}
	return 0, false
}

// lookupShortcut matches a key press against the shortcut table. Shift is
// ignored so '+' works on layouts that need it.
func lookupShortcut(e key.Event) (shortcut, bool) {
	mods := e.Modifiers &^ key.ModShift
	r := unicode.ToLower(e.Rune)
	for _, sc := range shortcuts {
		if sc.Modifiers != mods {
			continue
		}
		if sc.Code != key.CodeUnknown && sc.Code == e.Code {
			return sc, true
		}
		if sc.Rune != 0 && sc.Rune == r {
			return sc, true
		}
	}
	return shortcut{}, false
}
