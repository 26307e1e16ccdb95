// Package scene is the object model behind an artboard: shapes, images, text
// and freehand paths, their hit testing and rendering, and raster export.
// Editors talk to it through the Graph interface; Raster is the in-memory
// implementation.
package scene

import (
	"encoding/base64"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/math/f64"

	"github.com/example/photocanvas/internal/viewport"
)

// Handle identifies an object inside a Graph. Handles are never reused.
type Handle int

// Style controls how an object's selection controls look. Stroke is used
// as ink for freehand paths and new text.
type Style struct {
	BorderColor        color.RGBA
	CornerColor        color.RGBA
	CornerSize         int
	TransparentCorners bool
	Stroke             color.RGBA
	StrokeWidth        float64
}

// DefaultStyle mirrors the look of the stock editor controls.
func DefaultStyle() Style {
	return Style{
		BorderColor:        color.RGBA{0, 0, 0, 255},
		CornerColor:        color.RGBA{0, 0, 0, 255},
		CornerSize:         12,
		TransparentCorners: false,
		Stroke:             color.RGBA{255, 0, 0, 255},
		StrokeWidth:        2,
	}
}

// Phase is the stage of a pointer gesture.
type Phase int

const (
	PointerDown Phase = iota
	PointerMove
	PointerUp
)

func (p Phase) String() string {
	switch p {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Pointer is a pointer event in viewport pixels. Movement is the delta
// since the previous event of the same gesture.
type Pointer struct {
	Phase    Phase
	Pos      f64.Vec2
	Movement f64.Vec2
	Shift    bool
}

// Format selects the encoding used by ExportRaster.
type Format int

const (
	PNG Format = iota
	JPEG
)

// MIME returns the media type of the format.
func (f Format) MIME() string {
	if f == JPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// DataURL wraps encoded image bytes into a data URL.
func DataURL(f Format, data []byte) string {
	return "data:" + f.MIME() + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Info is a snapshot of an object's state.
type Info struct {
	Handle     Handle
	Shape      Shape
	Offset     f64.Vec2
	Style      Style
	Selectable bool
	Editable   bool
	Evented    bool
}

// Position is the artboard position of the object's origin.
func (i Info) Position() f64.Vec2 {
	o := i.Shape.Origin()
	return f64.Vec2{o[0] + i.Offset[0], o[1] + i.Offset[1]}
}

// Graph is the scene graph an editor drives. It carries its own viewport
// transform through the embedded Surface.
type Graph interface {
	viewport.Surface

	Add(s Shape) Handle
	Remove(h Handle) bool
	Objects() []Handle
	Lookup(h Handle) (Info, bool)

	SetStyle(h Handle, s Style)
	SetSelectable(h Handle, v bool)
	SetEditable(h Handle, v bool)
	SetEvented(h Handle, v bool)
	SetText(h Handle, content string) bool

	SetDrawingMode(on bool)
	SetBrush(c color.RGBA, width float64)
	SetMultiSelect(on bool)
	ClearSelection()
	Selection() []Handle

	Pointer(ev Pointer)
	OnPathCompleted(fn func(Handle)) (cancel func())
	OnObjectSelected(fn func(Handle)) (cancel func())

	Size() image.Point
	Resize(size image.Point)
	Render(dst *image.RGBA)
	ExportRaster(f Format) ([]byte, error)
}
