package tool

import "github.com/example/photocanvas/internal/scene"

// Gesture receives one pointer session at a time.
type Gesture interface {
	Down(ev scene.Pointer)
	Move(ev scene.Pointer)
	Up(ev scene.Pointer)
}

// Binder holds the single gesture bound for the active tool and enforces
// the down, move*, up session contract. Moves outside a session are
// dropped.
type Binder struct {
	gesture Gesture
	session bool
}

// Bind installs g, replacing any gesture that was bound.
func (b *Binder) Bind(g Gesture) {
	b.gesture = g
	b.session = false
}

// Unbind removes the bound gesture and ends any open session.
func (b *Binder) Unbind() {
	b.gesture = nil
	b.session = false
}

func (b *Binder) Bound() Gesture { return b.gesture }

// InSession reports whether a Down has been seen without its Up.
func (b *Binder) InSession() bool { return b.session }

// Dispatch routes ev to the bound gesture.
func (b *Binder) Dispatch(ev scene.Pointer) {
	if b.gesture == nil {
		return
	}
	switch ev.Phase {
	case scene.PointerDown:
		b.session = true
		b.gesture.Down(ev)
	case scene.PointerMove:
		if b.session {
			b.gesture.Move(ev)
		}
	case scene.PointerUp:
		if !b.session {
			return
		}
		b.session = false
		b.gesture.Up(ev)
	}
}

// gestureFuncs adapts plain functions to Gesture; nil fields are ignored.
type gestureFuncs struct {
	down, move, up func(ev scene.Pointer)
}

func (g gestureFuncs) Down(ev scene.Pointer) {
	if g.down != nil {
		g.down(ev)
	}
}

func (g gestureFuncs) Move(ev scene.Pointer) {
	if g.move != nil {
		g.move(ev)
	}
}

func (g gestureFuncs) Up(ev scene.Pointer) {
	if g.up != nil {
		g.up(ev)
	}
}
