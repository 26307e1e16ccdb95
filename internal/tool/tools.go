package tool

import (
	"golang.org/x/image/math/f64"

	"github.com/example/photocanvas/internal/scene"
	"github.com/example/photocanvas/internal/viewport"
)

// PlaceholderText is the content of a freshly placed text object.
const PlaceholderText = "Text"

// Host is what tools operate on. Implementations must not lock: tools are
// always invoked from inside the editor's event handling.
type Host interface {
	Graph() scene.Graph
	Engine() *viewport.Engine
	Style() scene.Style
	// Background is the artboard object that tools never make selectable.
	Background() scene.Handle
	SetCursor(c Cursor)
	// FocusText directs key input at h; zero clears the focus.
	FocusText(h scene.Handle)
	Undo()
	Save()
}

// Tool is one state of the activation machine.
type Tool interface {
	Kind() Kind
	Setup(h Host, b *Binder)
	Teardown(h Host)
}

func newTool(k Kind) Tool {
	switch k {
	case Pan:
		return &panTool{}
	case Zoom:
		return &zoomTool{}
	case Transform:
		return &transformTool{}
	case Draw:
		return &drawTool{}
	case Text:
		return &textTool{}
	case Crop:
		return &cropTool{}
	case Undo:
		return &undoTool{}
	case Save:
		return &saveTool{}
	}
	return nil
}

type panTool struct{}

func (*panTool) Kind() Kind { return Pan }

func (*panTool) Setup(h Host, b *Binder) {
	h.SetCursor(CursorGrab)
	b.Bind(&gestureFuncs{
		down: func(scene.Pointer) { h.SetCursor(CursorGrabbing) },
		move: func(ev scene.Pointer) { h.Engine().PanBy(ev.Movement) },
		up:   func(scene.Pointer) { h.SetCursor(CursorGrab) },
	})
}

func (*panTool) Teardown(Host) {}

// ZoomStep converts horizontal pointer movement into a zoom delta.
const ZoomStep = 100.0

type zoomTool struct{}

func (*zoomTool) Kind() Kind { return Zoom }

func (*zoomTool) Setup(h Host, b *Binder) {
	h.SetCursor(CursorZoomIn)
	var anchor f64.Vec2
	b.Bind(&gestureFuncs{
		down: func(scene.Pointer) { anchor = h.Engine().Center() },
		move: func(ev scene.Pointer) { h.Engine().ZoomBy(ev.Movement[0]/ZoomStep, anchor) },
	})
}

func (*zoomTool) Teardown(Host) {}

type transformTool struct{}

func (*transformTool) Kind() Kind { return Transform }

func (*transformTool) Setup(h Host, _ *Binder) {
	g := h.Graph()
	bg := h.Background()
	for _, o := range g.Objects() {
		if o != bg {
			g.SetSelectable(o, true)
		}
	}
	g.SetMultiSelect(true)
}

func (*transformTool) Teardown(Host) {}

type drawTool struct {
	cancel func()
}

func (*drawTool) Kind() Kind { return Draw }

func (t *drawTool) Setup(h Host, _ *Binder) {
	g := h.Graph()
	st := h.Style()
	h.SetCursor(CursorCrosshair)
	g.SetBrush(st.Stroke, st.StrokeWidth)
	g.SetDrawingMode(true)
	t.cancel = g.OnPathCompleted(func(p scene.Handle) {
		g.SetStyle(p, st)
		g.SetSelectable(p, false)
	})
}

func (t *drawTool) Teardown(Host) {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

type textTool struct{}

func (*textTool) Kind() Kind { return Text }

func (*textTool) Setup(h Host, b *Binder) {
	h.SetCursor(CursorText)
	b.Bind(&gestureFuncs{
		up: func(ev scene.Pointer) {
			g := h.Graph()
			st := h.Style()
			pos := h.Engine().Transform().ToArtboard(ev.Pos)
			t := g.Add(scene.NewText(pos, PlaceholderText, scene.DefaultTextSize, st.Stroke))
			g.SetStyle(t, st)
			g.SetSelectable(t, false)
			g.SetEditable(t, true)
			h.FocusText(t)
		},
	})
}

func (*textTool) Teardown(h Host) { h.FocusText(0) }

// cropTool only changes the cursor; cropping itself is not implemented.
type cropTool struct{}

func (*cropTool) Kind() Kind              { return Crop }
func (*cropTool) Setup(h Host, _ *Binder) { h.SetCursor(CursorCrosshair) }
func (*cropTool) Teardown(Host)           {}

type undoTool struct{}

func (*undoTool) Kind() Kind              { return Undo }
func (*undoTool) Setup(h Host, _ *Binder) { h.Undo() }
func (*undoTool) Teardown(Host)           {}

type saveTool struct{}

func (*saveTool) Kind() Kind              { return Save }
func (*saveTool) Setup(h Host, _ *Binder) { h.Save() }
func (*saveTool) Teardown(Host)           {}
