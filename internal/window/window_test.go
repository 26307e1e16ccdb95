package window

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"golang.org/x/image/math/f64"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/photocanvas/internal/config"
	"github.com/example/photocanvas/internal/editor"
	"github.com/example/photocanvas/internal/scene"
	"github.com/example/photocanvas/internal/theme"
	"github.com/example/photocanvas/internal/tool"
)

func TestTrackerSessions(t *testing.T) {
	var tr pointerTracker
	origin := image.Pt(50, 0)
	if _, ok := tr.translate(mouse.Event{X: 60, Y: 10}, origin); ok {
		t.Fatalf("move without press must be ignored")
	}
	ev, ok := tr.translate(mouse.Event{X: 60, Y: 10, Button: mouse.ButtonLeft, Direction: mouse.DirPress}, origin)
	if !ok || ev.Phase != scene.PointerDown || ev.Pos != (f64.Vec2{10, 10}) {
		t.Fatalf("press = %+v, %v", ev, ok)
	}
	ev, _ = tr.translate(mouse.Event{X: 65, Y: 7, Modifiers: key.ModShift}, origin)
	if ev.Phase != scene.PointerMove || ev.Movement != (f64.Vec2{5, -3}) || !ev.Shift {
		t.Fatalf("move = %+v", ev)
	}
	ev, _ = tr.translate(mouse.Event{X: 66, Y: 7, Button: mouse.ButtonLeft, Direction: mouse.DirRelease}, origin)
	if ev.Phase != scene.PointerUp {
		t.Fatalf("release = %+v", ev)
	}
	if _, ok := tr.translate(mouse.Event{X: 70, Y: 7, Button: mouse.ButtonLeft, Direction: mouse.DirRelease}, origin); ok {
		t.Fatalf("second release must be ignored")
	}
}

func TestLookupShortcut(t *testing.T) {
	cases := []struct {
		ev     key.Event
		action action
		tool   tool.Kind
	}{
		{key.Event{Rune: 'H'}, actionTool, tool.Pan},
		{key.Event{Rune: 'z'}, actionTool, tool.Zoom},
		{key.Event{Rune: 'z', Modifiers: key.ModControl}, actionUndo, tool.None},
		{key.Event{Rune: '+', Modifiers: key.ModShift}, actionZoomIn, tool.None},
		{key.Event{Code: key.CodeEscape}, actionReset, tool.None},
	}
	for _, c := range cases {
		sc, ok := lookupShortcut(c.ev)
		if !ok || sc.action != c.action || sc.tool != c.tool {
			t.Errorf("%+v: got %+v, %v", c.ev, sc, ok)
		}
	}
	if _, ok := lookupShortcut(key.Event{Rune: 'y'}); ok {
		t.Fatalf("unbound key matched")
	}
}

func TestLayoutButtons(t *testing.T) {
	tools := []tool.Kind{tool.Pan, tool.Text, tool.Save}
	size := windowSize(image.Pt(200, 100), tools)
	l := newLayout(size, tools)
	if l.view.Size() != image.Pt(200, 100) {
		t.Fatalf("view = %v", l.view)
	}
	if k, ok := l.buttonAt(image.Pt(2, buttonHeight+buttonHeight+2)); !ok || k != tool.Text {
		t.Fatalf("buttonAt = %v, %v", k, ok)
	}
	if _, ok := l.buttonAt(image.Pt(2, 2)); ok {
		t.Fatalf("title row is not a button")
	}
	if got := l.buttons[0].label; got != "H:Pan" {
		t.Fatalf("label = %q", got)
	}
}

func TestShortViewportShowsEveryButton(t *testing.T) {
	tools := tool.Kinds()
	l := newLayout(windowSize(image.Pt(200, 60), tools), tools)
	if len(l.buttons) != len(tools) {
		t.Fatalf("buttons = %d", len(l.buttons))
	}
	for _, b := range l.buttons {
		if !b.rect.In(l.toolbar) {
			t.Fatalf("%v button %v outside toolbar %v", b.kind, b.rect, l.toolbar)
		}
		if k, ok := l.buttonAt(b.rect.Min.Add(image.Pt(2, 2))); !ok || k != b.kind {
			t.Fatalf("buttonAt(%v) = %v, %v", b.kind, k, ok)
		}
	}
	if l.view.Dx() != 200 || l.view.Dy() < 60 {
		t.Fatalf("view = %v", l.view)
	}
}

func newTestWindow(t *testing.T) (*Window, *editor.Editor, *[][]byte) {
	t.Helper()
	var copies [][]byte
	w := New("main", image.Pt(200, 100), theme.Default(), WithCopy(func(b []byte) error {
		copies = append(copies, b)
		return nil
	}))
	ed, err := editor.New(1, w, config.Defaults(), editor.WithChangeListener(w.Changed))
	if err != nil {
		t.Fatalf("editor.New: %v", err)
	}
	w.Attach(ed)
	t.Cleanup(ed.Destroy)
	return w, ed, &copies
}

func TestWindowDrivesEditor(t *testing.T) {
	w, ed, copies := newTestWindow(t)

	w.handleKey(key.Event{Rune: 'h', Direction: key.DirPress})
	if ed.Active() != tool.Pan || w.Cursor() != tool.CursorGrab {
		t.Fatalf("active %v cursor %v", ed.Active(), w.Cursor())
	}

	var textButton button
	for _, b := range w.layout.buttons {
		if b.kind == tool.Text {
			textButton = b
		}
	}
	c := textButton.rect.Min.Add(image.Pt(2, 2))
	w.handleMouse(mouse.Event{X: float32(c.X), Y: float32(c.Y), Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	if ed.Active() != tool.Text {
		t.Fatalf("toolbar click did not activate text, active %v", ed.Active())
	}

	x := float32(w.layout.view.Min.X + 40)
	w.handleMouse(mouse.Event{X: x, Y: 60, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	w.handleMouse(mouse.Event{X: x, Y: 60, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
	if ed.Focused() == 0 {
		t.Fatalf("click did not place text")
	}
	w.handleKey(key.Event{Rune: 'h', Direction: key.DirPress})
	if ed.Active() != tool.Text {
		t.Fatalf("typing must not trigger shortcuts while text is focused")
	}
	w.handleKey(key.Event{Code: key.CodeEscape, Direction: key.DirPress})
	if ed.Active() != tool.None || ed.Focused() != 0 {
		t.Fatalf("escape did not finish text entry")
	}
	var content string
	for _, o := range ed.Objects() {
		if txt, ok := o.Shape.(*scene.Text); ok {
			content = txt.Content
			if txt.Pos != (f64.Vec2{40, 60}) {
				t.Fatalf("text at %v", txt.Pos)
			}
		}
	}
	if content != "h" {
		t.Fatalf("content = %q", content)
	}

	if got := w.handleKey(key.Event{Rune: 'c', Modifiers: key.ModControl, Direction: key.DirPress}); got != actionCopy {
		t.Fatalf("ctrl+c = %v", got)
	}
	if len(*copies) != 1 {
		t.Fatalf("expected one clipboard write")
	}
	img, err := png.Decode(bytes.NewReader((*copies)[0]))
	if err != nil || img.Bounds() != image.Rect(0, 0, 200, 100) {
		t.Fatalf("copied image: %v, %v", img, err)
	}
}

func TestComposePaintsActiveButton(t *testing.T) {
	w, ed, _ := newTestWindow(t)
	th := theme.Default()
	th.ButtonActive.R = 7
	w.theme = th
	ed.Activate(tool.Zoom)

	dst := image.NewRGBA(image.Rect(0, 0, w.layout.status.Max.X, w.layout.status.Max.Y))
	w.compose(dst)

	var zoomButton button
	for _, b := range w.layout.buttons {
		if b.kind == tool.Zoom {
			zoomButton = b
		}
	}
	inner := zoomButton.rect.Max.Sub(image.Pt(3, 3))
	if c := dst.RGBAAt(inner.X, inner.Y); c != th.ButtonActive {
		t.Fatalf("active button pixel %v, want %v", c, th.ButtonActive)
	}
	mid := w.layout.view.Min.Add(image.Pt(100, 50))
	if c := dst.RGBAAt(mid.X, mid.Y); c != th.Artboard {
		t.Fatalf("viewport pixel %v, want artboard %v", c, th.Artboard)
	}
}
