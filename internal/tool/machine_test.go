package tool

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"golang.org/x/image/math/f64"

	"github.com/example/photocanvas/internal/scene"
	"github.com/example/photocanvas/internal/viewport"
)

type fakeHost struct {
	graph   *scene.Raster
	engine  *viewport.Engine
	bg      scene.Handle
	cursor  Cursor
	cursors []Cursor
	focus   scene.Handle
	undos   int
	saves   int
	style   scene.Style
}

func newFakeHost(t *testing.T) *fakeHost {
	t.Helper()
	g := scene.NewRaster(image.Pt(800, 600))
	e, err := viewport.NewEngine(g, viewport.DefaultBounds(), g.Size())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	h := &fakeHost{graph: g, engine: e, style: scene.DefaultStyle()}
	h.bg = g.Add(scene.NewRect(0, 0, 800, 600, color.RGBA{255, 255, 255, 255}))
	g.SetEvented(h.bg, false)
	return h
}

func (h *fakeHost) Graph() scene.Graph       { return h.graph }
func (h *fakeHost) Engine() *viewport.Engine { return h.engine }
func (h *fakeHost) Style() scene.Style       { return h.style }
func (h *fakeHost) Background() scene.Handle { return h.bg }
func (h *fakeHost) FocusText(t scene.Handle) { h.focus = t }
func (h *fakeHost) Undo()                    { h.undos++ }
func (h *fakeHost) Save()                    { h.saves++ }

func (h *fakeHost) SetCursor(c Cursor) {
	h.cursor = c
	h.cursors = append(h.cursors, c)
}

func down(x, y float64) scene.Pointer {
	return scene.Pointer{Phase: scene.PointerDown, Pos: f64.Vec2{x, y}}
}

func move(x, y, dx, dy float64) scene.Pointer {
	return scene.Pointer{Phase: scene.PointerMove, Pos: f64.Vec2{x, y}, Movement: f64.Vec2{dx, dy}}
}

func up(x, y float64) scene.Pointer {
	return scene.Pointer{Phase: scene.PointerUp, Pos: f64.Vec2{x, y}}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(" " + k.String() + " ")
		if err != nil || got != k {
			t.Fatalf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("lasso"); !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
}

func TestActivateDisabledToolIsNoop(t *testing.T) {
	h := newFakeHost(t)
	m := NewMachine(h, []Kind{Pan})
	if err := m.Activate(Pan); err != nil {
		t.Fatalf("Activate(Pan): %v", err)
	}
	before := len(h.cursors)
	if err := m.Activate(Draw); !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
	if m.Active() != Pan {
		t.Fatalf("active = %v, want pan", m.Active())
	}
	if len(h.cursors) != before {
		t.Fatalf("rejected activation touched the host")
	}
	if err := m.ActivateName("bogus"); !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
}

func TestTeardownRunsBeforeSetup(t *testing.T) {
	h := newFakeHost(t)
	m := NewMachine(h, Kinds())
	img := h.graph.Add(scene.NewRect(10, 10, 50, 50, color.RGBA{0, 0, 255, 255}))

	if err := m.Activate(Transform); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if info, _ := h.graph.Lookup(img); !info.Selectable {
		t.Fatalf("transform should make objects selectable")
	}
	if info, _ := h.graph.Lookup(h.bg); info.Selectable {
		t.Fatalf("background must stay unselectable")
	}
	h.graph.Pointer(down(20, 20))
	if len(h.graph.Selection()) != 1 {
		t.Fatalf("expected a selection")
	}

	if err := m.Activate(Pan); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if len(h.graph.Selection()) != 0 {
		t.Fatalf("selection not cleared")
	}
	if info, _ := h.graph.Lookup(img); info.Selectable {
		t.Fatalf("object still selectable after switching tools")
	}
	n := len(h.cursors)
	if h.cursors[n-2] != CursorDefault || h.cursors[n-1] != CursorGrab {
		t.Fatalf("cursor sequence %v, want default then grab", h.cursors[n-2:])
	}
}

func TestOnlyOneGestureBound(t *testing.T) {
	h := newFakeHost(t)
	m := NewMachine(h, Kinds())
	m.Activate(Zoom)
	zoomGesture := m.Binder().Bound()
	m.Binder().Dispatch(down(0, 0))
	m.Activate(Pan)
	if m.Binder().InSession() {
		t.Fatalf("session survived a tool switch")
	}
	m.Dispatch(move(0, 0, 500, 0))
	if h.engine.Zoom() != 1 {
		t.Fatalf("zoom gesture still receiving moves")
	}
	if m.Binder().Bound() == nil || m.Binder().Bound() == zoomGesture {
		t.Fatalf("pan gesture not bound")
	}
}

func TestReactivateRunsFullCycle(t *testing.T) {
	h := newFakeHost(t)
	m := NewMachine(h, Kinds())
	var changes []Kind
	m.OnChange(func(k Kind) { changes = append(changes, k) })
	m.Activate(Pan)
	m.Activate(Pan)
	if len(changes) != 2 {
		t.Fatalf("changes = %v", changes)
	}
	want := []Cursor{CursorDefault, CursorGrab, CursorDefault, CursorGrab}
	if len(h.cursors) != len(want) {
		t.Fatalf("cursors = %v, want %v", h.cursors, want)
	}
	for i := range want {
		if h.cursors[i] != want[i] {
			t.Fatalf("cursors = %v, want %v", h.cursors, want)
		}
	}
}

func TestMomentaryToolsReturnToIdle(t *testing.T) {
	h := newFakeHost(t)
	m := NewMachine(h, Kinds())
	m.Activate(Draw)
	m.Activate(Undo)
	if m.Active() != None || h.undos != 1 {
		t.Fatalf("active = %v, undos = %d", m.Active(), h.undos)
	}
	m.Activate(Save)
	if m.Active() != None || h.saves != 1 {
		t.Fatalf("active = %v, saves = %d", m.Active(), h.saves)
	}
	if h.cursor != CursorDefault {
		t.Fatalf("cursor = %v", h.cursor)
	}
}

func TestPanGesture(t *testing.T) {
	h := newFakeHost(t)
	m := NewMachine(h, Kinds())
	m.Activate(Pan)
	m.Dispatch(move(0, 0, 50, 50))
	if h.engine.Pan() != (f64.Vec2{}) {
		t.Fatalf("move before down must be ignored")
	}
	m.Dispatch(down(10, 10))
	if h.cursor != CursorGrabbing {
		t.Fatalf("cursor = %v, want grabbing", h.cursor)
	}
	m.Dispatch(move(15, 12, 5, 2))
	m.Dispatch(move(18, 10, 3, -2))
	m.Dispatch(up(18, 10))
	m.Dispatch(move(30, 30, 12, 20))
	if h.engine.Pan() != (f64.Vec2{8, 0}) {
		t.Fatalf("pan = %v, want [8 0]", h.engine.Pan())
	}
	if h.cursor != CursorGrab {
		t.Fatalf("cursor = %v, want grab", h.cursor)
	}
}

func TestZoomGestureUsesCentreAndClamps(t *testing.T) {
	h := newFakeHost(t)
	m := NewMachine(h, Kinds())
	m.Activate(Zoom)
	m.Dispatch(down(5, 5))
	m.Dispatch(move(105, 5, 100, 0))
	if math.Abs(h.engine.Zoom()-2) > 1e-9 {
		t.Fatalf("zoom = %g, want 2", h.engine.Zoom())
	}
	centre := h.engine.Center()
	if p := h.engine.Transform().ToArtboard(centre); math.Abs(p[0]-400) > 1e-9 || math.Abs(p[1]-300) > 1e-9 {
		t.Fatalf("centre moved to %v", p)
	}
	m.Dispatch(move(0, 5, -1000, 0))
	if h.engine.Zoom() != h.engine.Bounds().Min {
		t.Fatalf("zoom = %g, want lower bound", h.engine.Zoom())
	}
	if h.engine.Pan() != viewport.CenteredPan(h.engine.Size(), h.engine.Artboard(), h.engine.Bounds().Min) {
		t.Fatalf("pan not recentred: %v", h.engine.Pan())
	}
}

func TestDrawLocksCompletedPaths(t *testing.T) {
	h := newFakeHost(t)
	h.style.Stroke = color.RGBA{0, 128, 0, 255}
	m := NewMachine(h, Kinds())
	m.Activate(Draw)
	h.graph.Pointer(down(10, 10))
	h.graph.Pointer(move(20, 20, 10, 10))
	h.graph.Pointer(up(20, 20))

	objs := h.graph.Objects()
	info, _ := h.graph.Lookup(objs[len(objs)-1])
	p, ok := info.Shape.(*scene.Path)
	if !ok {
		t.Fatalf("expected a path, got %T", info.Shape)
	}
	if info.Selectable || info.Style != h.style || p.Color != h.style.Stroke {
		t.Fatalf("path not styled and locked: %+v", info)
	}

	m.Activate(Pan)
	h.graph.Pointer(down(10, 10))
	h.graph.Pointer(up(20, 20))
	if n := len(h.graph.Objects()); n != len(objs) {
		t.Fatalf("drawing continued after teardown")
	}
}

func TestTextPlacedInArtboardSpace(t *testing.T) {
	h := newFakeHost(t)
	m := NewMachine(h, Kinds())
	h.engine.SetTransform(viewport.Transform{Zoom: 2, Pan: f64.Vec2{10, 20}})
	m.Activate(Text)
	m.Dispatch(down(40, 60))
	m.Dispatch(up(40, 60))

	if h.focus == 0 {
		t.Fatalf("new text not focused")
	}
	info, ok := h.graph.Lookup(h.focus)
	if !ok {
		t.Fatalf("focused text missing")
	}
	txt := info.Shape.(*scene.Text)
	if txt.Pos != (f64.Vec2{15, 20}) {
		t.Fatalf("text at %v, want [15 20]", txt.Pos)
	}
	if txt.Content != PlaceholderText || txt.Size != scene.DefaultTextSize {
		t.Fatalf("unexpected text %+v", txt)
	}
	if info.Selectable || !info.Editable {
		t.Fatalf("text must be editable and not selectable: %+v", info)
	}
	m.Reset()
	if h.focus != 0 {
		t.Fatalf("focus kept after reset")
	}
}

func TestCropIsAccepted(t *testing.T) {
	h := newFakeHost(t)
	m := NewMachine(h, Kinds())
	before := h.engine.Transform()
	if err := m.Activate(Crop); err != nil {
		t.Fatalf("Activate(Crop): %v", err)
	}
	if m.Active() != Crop || h.cursor != CursorCrosshair || h.engine.Transform() != before {
		t.Fatalf("crop changed state: active=%v cursor=%v", m.Active(), h.cursor)
	}
}
