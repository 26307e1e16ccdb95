// Package viewport holds the numeric side of the editor: zoom clamping,
// pan arithmetic and the mapping between viewport pixels and artboard space.
package viewport

import (
	"errors"
	"fmt"
	"image"
	"math"

	"golang.org/x/image/math/f64"
)

// ErrInvalidBounds is returned when zoom bounds are not positive and ordered.
var ErrInvalidBounds = errors.New("invalid zoom bounds")

// Bounds limits the zoom factor of a viewport.
type Bounds struct {
	Min float64
	Max float64
}

// DefaultBounds returns the zoom range used when none is configured.
func DefaultBounds() Bounds { return Bounds{Min: 0.1, Max: 100} }

// Validate reports whether b is usable: 0 < Min < Max.
func (b Bounds) Validate() error {
	if math.IsNaN(b.Min) || math.IsNaN(b.Max) || b.Min <= 0 || b.Max <= 0 || b.Min >= b.Max {
		return fmt.Errorf("%w: min=%g max=%g", ErrInvalidBounds, b.Min, b.Max)
	}
	return nil
}

// Clamp returns z limited to [Min, Max].
func (b Bounds) Clamp(z float64) float64 {
	return math.Max(b.Min, math.Min(b.Max, z))
}

// ApplyZoomDelta adds delta to current and clamps the result. recenter is
// true only when the lower bound was crossed: at minimum zoom the artboard
// no longer fills the viewport and has to be centred again.
func ApplyZoomDelta(current, delta float64, b Bounds) (zoom float64, recenter bool) {
	if math.IsNaN(delta) {
		delta = 0
	}
	raw := current + delta
	switch {
	case raw > b.Max:
		return b.Max, false
	case raw < b.Min:
		return b.Min, true
	}
	return raw, false
}

// ApplyPan translates offset by delta. Panning is unbounded.
func ApplyPan(offset, delta f64.Vec2) f64.Vec2 {
	return f64.Vec2{offset[0] + delta[0], offset[1] + delta[1]}
}

// CenteredPan returns the pan that puts the centre of an artboard drawn at
// zoom on the centre of the view.
func CenteredPan(view, artboard image.Point, zoom float64) f64.Vec2 {
	return f64.Vec2{
		(float64(view.X) - float64(artboard.X)*zoom) / 2,
		(float64(view.Y) - float64(artboard.Y)*zoom) / 2,
	}
}

// Transform is a uniform scale followed by a translation, mapping artboard
// coordinates onto viewport pixels.
type Transform struct {
	Zoom float64
	// Pan is the viewport position of the artboard origin.
	Pan f64.Vec2
}

// Identity is the transform used for exports.
func Identity() Transform { return Transform{Zoom: 1} }

// ToArtboard maps a viewport point into artboard space.
func (t Transform) ToArtboard(p f64.Vec2) f64.Vec2 {
	z := t.Zoom
	if z == 0 {
		z = 1
	}
	return f64.Vec2{(p[0] - t.Pan[0]) / z, (p[1] - t.Pan[1]) / z}
}

// ToViewport maps an artboard point onto the viewport.
func (t Transform) ToViewport(p f64.Vec2) f64.Vec2 {
	return f64.Vec2{p[0]*t.Zoom + t.Pan[0], p[1]*t.Zoom + t.Pan[1]}
}

// Aff3 returns the artboard-to-viewport matrix in the layout used by
// golang.org/x/image/draw.
func (t Transform) Aff3() f64.Aff3 {
	return f64.Aff3{
		t.Zoom, 0, t.Pan[0],
		0, t.Zoom, t.Pan[1],
	}
}

func (t Transform) String() string {
	return fmt.Sprintf("zoom=%.4g pan=(%.4g,%.4g)", t.Zoom, t.Pan[0], t.Pan[1])
}
