package viewport

import (
	"image"

	"golang.org/x/image/math/f64"
)

// Surface exposes the viewport primitives of a scene graph. SetZoom changes
// the scale only; the pan translation is left as is.
type Surface interface {
	Zoom() float64
	SetZoom(z float64)
	Pan() f64.Vec2
	PanTo(p f64.Vec2)
	PanBy(d f64.Vec2)
}

// State is a plain Surface. Scene graphs embed it to carry their transform.
type State struct {
	zoom float64
	pan  f64.Vec2
}

// NewState returns an identity State.
func NewState() *State { return &State{zoom: 1} }

func (s *State) Zoom() float64 {
	if s.zoom == 0 {
		return 1
	}
	return s.zoom
}

func (s *State) SetZoom(z float64) { s.zoom = z }
func (s *State) Pan() f64.Vec2     { return s.pan }
func (s *State) PanTo(p f64.Vec2)  { s.pan = p }
func (s *State) PanBy(d f64.Vec2)  { s.pan = ApplyPan(s.pan, d) }

// Transform returns the current transform of the state.
func (s *State) Transform() Transform { return Transform{Zoom: s.Zoom(), Pan: s.pan} }

// Engine applies clamped zoom and pan operations to a Surface.
type Engine struct {
	surface  Surface
	bounds   Bounds
	size     image.Point
	artboard image.Point
}

// NewEngine binds an engine to surface. The surface zoom is clamped into
// bounds immediately so the invariant holds from the start. The artboard
// starts out the size of the viewport.
func NewEngine(surface Surface, bounds Bounds, size image.Point) (*Engine, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{surface: surface, bounds: bounds, size: size, artboard: size}
	if z := surface.Zoom(); z != bounds.Clamp(z) {
		surface.SetZoom(bounds.Clamp(z))
	}
	return e, nil
}

func (e *Engine) Bounds() Bounds        { return e.bounds }
func (e *Engine) Size() image.Point     { return e.size }
func (e *Engine) Artboard() image.Point { return e.artboard }
func (e *Engine) Zoom() float64         { return e.surface.Zoom() }
func (e *Engine) Pan() f64.Vec2         { return e.surface.Pan() }
func (e *Engine) Transform() Transform  { return Transform{Zoom: e.Zoom(), Pan: e.Pan()} }

// SetArtboard records the artboard size used when re-centring at the
// lower zoom bound. Empty sizes are ignored.
func (e *Engine) SetArtboard(size image.Point) {
	if size.X > 0 && size.Y > 0 {
		e.artboard = size
	}
}

// Center is the geometric centre of the viewport.
func (e *Engine) Center() f64.Vec2 {
	return f64.Vec2{float64(e.size.X) / 2, float64(e.size.Y) / 2}
}

// ZoomBy adds delta to the zoom. Within bounds the artboard point under
// anchor stays put. Above the upper bound the zoom pins to Max and the pan
// is untouched. Below the lower bound the zoom pins to Min and the artboard
// is re-centred; the return value reports that case.
func (e *Engine) ZoomBy(delta float64, anchor f64.Vec2) bool {
	current := e.surface.Zoom()
	z, recenter := ApplyZoomDelta(current, delta, e.bounds)
	switch {
	case recenter:
		e.surface.SetZoom(z)
		e.surface.PanTo(CenteredPan(e.size, e.artboard, z))
	case z == e.bounds.Max && current+delta > e.bounds.Max:
		e.surface.SetZoom(z)
	default:
		e.zoomToPoint(anchor, z)
	}
	return recenter
}

func (e *Engine) zoomToPoint(anchor f64.Vec2, z float64) {
	p := e.Transform().ToArtboard(anchor)
	e.surface.SetZoom(z)
	e.surface.PanTo(f64.Vec2{anchor[0] - p[0]*z, anchor[1] - p[1]*z})
}

// PanBy moves the viewport by delta pixels.
func (e *Engine) PanBy(delta f64.Vec2) { e.surface.PanBy(delta) }

// SetTransform replaces the transform, clamping the zoom.
func (e *Engine) SetTransform(t Transform) {
	e.surface.SetZoom(e.bounds.Clamp(t.Zoom))
	e.surface.PanTo(t.Pan)
}

// Resize records a new viewport size. Calling it repeatedly with the same
// size has no further effect.
func (e *Engine) Resize(size image.Point) {
	if size.X <= 0 || size.Y <= 0 {
		return
	}
	e.size = size
}

// SaveRoundTrip runs fn with the surface at zoom 1 and zero pan and then
// restores the previous transform exactly, whether fn fails or panics.
// The identity transform ignores the zoom bounds: exports are always
// rendered at 1x.
func (e *Engine) SaveRoundTrip(fn func() error) error {
	zoom, pan := e.surface.Zoom(), e.surface.Pan()
	defer func() {
		e.surface.SetZoom(zoom)
		e.surface.PanTo(pan)
	}()
	e.surface.SetZoom(1)
	e.surface.PanTo(f64.Vec2{})
	return fn()
}
