package scene

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"slices"

	"golang.org/x/image/math/f64"

	"github.com/example/photocanvas/internal/viewport"
)

type object struct {
	handle     Handle
	shape      Shape
	offset     f64.Vec2
	style      Style
	selectable bool
	editable   bool
	evented    bool
}

func (o *object) info() Info {
	return Info{
		Handle:     o.handle,
		Shape:      o.shape,
		Offset:     o.offset,
		Style:      o.style,
		Selectable: o.selectable,
		Editable:   o.editable,
		Evented:    o.evented,
	}
}

// bounds is the artboard-space extent of the object including its offset.
func (o *object) bounds() (f64.Vec2, f64.Vec2) {
	lo, hi := o.shape.extent()
	return f64.Vec2{lo[0] + o.offset[0], lo[1] + o.offset[1]},
		f64.Vec2{hi[0] + o.offset[0], hi[1] + o.offset[1]}
}

func (o *object) transform(t viewport.Transform) viewport.Transform {
	t.Pan[0] += o.offset[0] * t.Zoom
	t.Pan[1] += o.offset[1] * t.Zoom
	return t
}

// Raster is an in-memory Graph that renders into image.RGBA buffers.
// It is not safe for concurrent use; callers serialise access.
type Raster struct {
	*viewport.State

	size      image.Point
	objects   []*object
	next      Handle
	selection []Handle

	drawing    bool
	brush      color.RGBA
	brushWidth float64
	multi      bool
	path       *Path
	dragging   bool

	listenerID int
	onPath     map[int]func(Handle)
	onSelect   map[int]func(Handle)
}

// NewRaster returns an empty graph with a viewport of the given size.
func NewRaster(size image.Point) *Raster {
	st := DefaultStyle()
	return &Raster{
		State:      viewport.NewState(),
		size:       size,
		next:       1,
		brush:      st.Stroke,
		brushWidth: st.StrokeWidth,
		onPath:     map[int]func(Handle){},
		onSelect:   map[int]func(Handle){},
	}
}

var _ Graph = (*Raster)(nil)

// Add appends s on top of the stack. New objects are evented but neither
// selectable nor editable.
func (r *Raster) Add(s Shape) Handle {
	h := r.next
	r.next++
	r.objects = append(r.objects, &object{handle: h, shape: s, style: DefaultStyle(), evented: true})
	return h
}

func (r *Raster) Remove(h Handle) bool {
	i := r.index(h)
	if i < 0 {
		return false
	}
	r.objects = slices.Delete(r.objects, i, i+1)
	r.selection = slices.DeleteFunc(r.selection, func(s Handle) bool { return s == h })
	return true
}

func (r *Raster) Objects() []Handle {
	out := make([]Handle, len(r.objects))
	for i, o := range r.objects {
		out[i] = o.handle
	}
	return out
}

func (r *Raster) Lookup(h Handle) (Info, bool) {
	o := r.find(h)
	if o == nil {
		return Info{}, false
	}
	return o.info(), true
}

func (r *Raster) index(h Handle) int {
	return slices.IndexFunc(r.objects, func(o *object) bool { return o.handle == h })
}

func (r *Raster) find(h Handle) *object {
	if i := r.index(h); i >= 0 {
		return r.objects[i]
	}
	return nil
}

func (r *Raster) SetStyle(h Handle, s Style) {
	if o := r.find(h); o != nil {
		o.style = s
	}
}

// SetSelectable toggles whether the object can be picked. Making an object
// unselectable also drops it from the current selection.
func (r *Raster) SetSelectable(h Handle, v bool) {
	o := r.find(h)
	if o == nil {
		return
	}
	o.selectable = v
	if !v {
		r.selection = slices.DeleteFunc(r.selection, func(s Handle) bool { return s == h })
	}
}

func (r *Raster) SetEditable(h Handle, v bool) {
	if o := r.find(h); o != nil {
		o.editable = v
	}
}

func (r *Raster) SetEvented(h Handle, v bool) {
	if o := r.find(h); o != nil {
		o.evented = v
	}
}

// SetText replaces the content of an editable text object.
func (r *Raster) SetText(h Handle, content string) bool {
	o := r.find(h)
	if o == nil || !o.editable {
		return false
	}
	t, ok := o.shape.(*Text)
	if !ok {
		return false
	}
	t.Content = content
	return true
}

// SetDrawingMode switches pointer input between freehand drawing and
// selection. Leaving drawing mode abandons an unfinished stroke.
func (r *Raster) SetDrawingMode(on bool) {
	r.drawing = on
	if !on {
		r.path = nil
	}
}

func (r *Raster) SetBrush(c color.RGBA, width float64) {
	r.brush = c
	if width > 0 {
		r.brushWidth = width
	}
}

func (r *Raster) SetMultiSelect(on bool) { r.multi = on }

func (r *Raster) ClearSelection() {
	r.selection = nil
	r.dragging = false
}

func (r *Raster) Selection() []Handle { return slices.Clone(r.selection) }
func (r *Raster) Size() image.Point   { return r.size }

func (r *Raster) Resize(size image.Point) {
	if size.X > 0 && size.Y > 0 {
		r.size = size
	}
}

// OnPathCompleted registers fn to run after a freehand stroke is added.
func (r *Raster) OnPathCompleted(fn func(Handle)) func() {
	return r.listen(r.onPath, fn)
}

// OnObjectSelected registers fn to run when pointer input selects an object.
func (r *Raster) OnObjectSelected(fn func(Handle)) func() {
	return r.listen(r.onSelect, fn)
}

func (r *Raster) listen(m map[int]func(Handle), fn func(Handle)) func() {
	r.listenerID++
	id := r.listenerID
	m[id] = fn
	return func() { delete(m, id) }
}

func fire(m map[int]func(Handle), h Handle) {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := m[id]; ok {
			fn(h)
		}
	}
}

// Pointer feeds a pointer event into the graph's own interaction: freehand
// strokes in drawing mode, otherwise picking and dragging selectable objects.
func (r *Raster) Pointer(ev Pointer) {
	t := r.Transform()
	p := t.ToArtboard(ev.Pos)
	if r.drawing {
		r.drawPointer(ev, p)
		return
	}
	switch ev.Phase {
	case PointerDown:
		hit := r.hitTest(p)
		if hit == nil {
			r.ClearSelection()
			return
		}
		switch {
		case r.multi && ev.Shift:
			if i := slices.Index(r.selection, hit.handle); i >= 0 {
				r.selection = slices.Delete(r.selection, i, i+1)
			} else {
				r.selection = append(r.selection, hit.handle)
			}
		case !slices.Contains(r.selection, hit.handle):
			r.selection = []Handle{hit.handle}
		}
		r.dragging = true
		fire(r.onSelect, hit.handle)
	case PointerMove:
		if !r.dragging {
			return
		}
		dx, dy := ev.Movement[0]/t.Zoom, ev.Movement[1]/t.Zoom
		for _, h := range r.selection {
			if o := r.find(h); o != nil {
				o.offset[0] += dx
				o.offset[1] += dy
			}
		}
	case PointerUp:
		r.dragging = false
	}
}

func (r *Raster) drawPointer(ev Pointer, p f64.Vec2) {
	switch ev.Phase {
	case PointerDown:
		r.path = &Path{Points: []f64.Vec2{p}, Color: r.brush, Width: r.brushWidth}
	case PointerMove:
		if r.path != nil {
			r.path.Points = append(r.path.Points, p)
		}
	case PointerUp:
		if r.path == nil {
			return
		}
		path := r.path
		r.path = nil
		h := r.Add(path)
		fire(r.onPath, h)
	}
}

// hitTest returns the topmost evented, selectable object under p.
func (r *Raster) hitTest(p f64.Vec2) *object {
	for i := len(r.objects) - 1; i >= 0; i-- {
		o := r.objects[i]
		if !o.evented || !o.selectable {
			continue
		}
		lo, hi := o.bounds()
		if p[0] >= lo[0] && p[0] <= hi[0] && p[1] >= lo[1] && p[1] <= hi[1] {
			return o
		}
	}
	return nil
}

// Render composites every object at the current transform onto dst, then
// the stroke in progress and the selection controls.
func (r *Raster) Render(dst *image.RGBA) {
	t := r.Transform()
	r.renderObjects(dst, t)
	if r.path != nil {
		r.path.render(dst, t)
	}
	for _, h := range r.selection {
		o := r.find(h)
		if o == nil {
			continue
		}
		lo, hi := o.bounds()
		drawControls(dst, viewportRect(t, lo, hi), o.style)
	}
}

func (r *Raster) renderObjects(dst *image.RGBA, t viewport.Transform) {
	for _, o := range r.objects {
		o.shape.render(dst, o.transform(t))
	}
}

// ExportRaster encodes the viewport contents at the current transform
// without selection controls.
func (r *Raster) ExportRaster(f Format) ([]byte, error) {
	if r.size.X <= 0 || r.size.Y <= 0 {
		return nil, fmt.Errorf("export: empty viewport %v", r.size)
	}
	img := image.NewRGBA(image.Rectangle{Max: r.size})
	r.renderObjects(img, r.Transform())
	return Encode(img, f)
}

// Encode writes img in format f. JPEG uses quality 90.
func Encode(img image.Image, f Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case JPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	default:
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", f.MIME(), err)
	}
	return buf.Bytes(), nil
}
