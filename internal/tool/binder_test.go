package tool

import (
	"testing"

	"github.com/example/photocanvas/internal/scene"
)

type recordingGesture struct {
	events []scene.Phase
}

func (g *recordingGesture) Down(ev scene.Pointer) { g.events = append(g.events, ev.Phase) }
func (g *recordingGesture) Move(ev scene.Pointer) { g.events = append(g.events, ev.Phase) }
func (g *recordingGesture) Up(ev scene.Pointer)   { g.events = append(g.events, ev.Phase) }

func TestBinderSessionContract(t *testing.T) {
	var b Binder
	g := &recordingGesture{}
	b.Dispatch(down(0, 0))
	b.Bind(g)
	b.Dispatch(move(1, 1, 1, 1))
	b.Dispatch(up(1, 1))
	b.Dispatch(down(0, 0))
	b.Dispatch(move(1, 1, 1, 1))
	b.Dispatch(move(2, 2, 1, 1))
	b.Dispatch(up(2, 2))
	b.Dispatch(move(3, 3, 1, 1))
	b.Dispatch(up(3, 3))

	want := []scene.Phase{scene.PointerDown, scene.PointerMove, scene.PointerMove, scene.PointerUp}
	if len(g.events) != len(want) {
		t.Fatalf("events = %v, want %v", g.events, want)
	}
	for i := range want {
		if g.events[i] != want[i] {
			t.Fatalf("events = %v, want %v", g.events, want)
		}
	}
}

func TestUnbindEndsSession(t *testing.T) {
	var b Binder
	g := &recordingGesture{}
	b.Bind(g)
	b.Dispatch(down(0, 0))
	b.Unbind()
	if b.InSession() || b.Bound() != nil {
		t.Fatalf("binder still active after Unbind")
	}
	b.Bind(g)
	b.Dispatch(move(1, 1, 1, 1))
	if len(g.events) != 1 {
		t.Fatalf("move after rebind without down delivered: %v", g.events)
	}
}
