package scene

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/example/photocanvas/internal/viewport"
)

// Shape is something a Graph can hold. The set of shapes is closed: Rect,
// Picture, Text and Path.
type Shape interface {
	// Origin is the artboard position the shape was created at.
	Origin() f64.Vec2
	extent() (lo, hi f64.Vec2)
	render(dst *image.RGBA, t viewport.Transform)
}

// Rect is a filled rectangle in artboard space.
type Rect struct {
	Min, Max f64.Vec2
	Fill     color.RGBA
}

// NewRect returns a w×h rectangle with its top-left corner at (x, y).
func NewRect(x, y, w, h float64, fill color.RGBA) *Rect {
	return &Rect{Min: f64.Vec2{x, y}, Max: f64.Vec2{x + w, y + h}, Fill: fill}
}

func (r *Rect) Origin() f64.Vec2             { return r.Min }
func (r *Rect) extent() (f64.Vec2, f64.Vec2) { return r.Min, r.Max }

func (r *Rect) render(dst *image.RGBA, t viewport.Transform) {
	rect := viewportRect(t, r.Min, r.Max)
	draw.Draw(dst, rect, image.NewUniform(r.Fill), image.Point{}, draw.Over)
}

// Picture is a raster image placed with its top-left corner at Pos.
type Picture struct {
	Pos    f64.Vec2
	Img    image.Image
	Source string
}

// NewPicture places img at the artboard origin.
func NewPicture(img image.Image, source string) *Picture {
	return &Picture{Img: img, Source: source}
}

func (p *Picture) Origin() f64.Vec2 { return p.Pos }

func (p *Picture) extent() (f64.Vec2, f64.Vec2) {
	b := p.Img.Bounds()
	return p.Pos, f64.Vec2{p.Pos[0] + float64(b.Dx()), p.Pos[1] + float64(b.Dy())}
}

func (p *Picture) render(dst *image.RGBA, t viewport.Transform) {
	blit(dst, p.Img, p.Pos, t)
}

// Text is a single line of text; Pos is its top-left corner.
type Text struct {
	Pos     f64.Vec2
	Content string
	Size    float64
	Color   color.RGBA

	cache    *image.RGBA
	cacheKey string
}

// NewText returns a text object at pos.
func NewText(pos f64.Vec2, content string, size float64, col color.RGBA) *Text {
	return &Text{Pos: pos, Content: content, Size: size, Color: col}
}

func (t *Text) Origin() f64.Vec2 { return t.Pos }

func (t *Text) extent() (f64.Vec2, f64.Vec2) {
	w, h, _, err := MeasureText(t.Content, t.Size)
	if err != nil {
		return t.Pos, t.Pos
	}
	return t.Pos, f64.Vec2{t.Pos[0] + float64(w), t.Pos[1] + float64(h)}
}

func (t *Text) raster() *image.RGBA {
	key := t.Content + "\x00" + colorKey(t.Color) + "\x00" + formatSize(t.Size)
	if t.cache != nil && t.cacheKey == key {
		return t.cache
	}
	w, h, _, err := MeasureText(t.Content, t.Size)
	if err != nil || w <= 0 || h <= 0 {
		t.cache, t.cacheKey = nil, key
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if err := DrawText(img, 0, 0, t.Content, t.Color, t.Size); err != nil {
		t.cache, t.cacheKey = nil, key
		return nil
	}
	t.cache, t.cacheKey = img, key
	return img
}

func (t *Text) render(dst *image.RGBA, tr viewport.Transform) {
	if img := t.raster(); img != nil {
		blit(dst, img, t.Pos, tr)
	}
}

// Path is a freehand polyline.
type Path struct {
	Points []f64.Vec2
	Color  color.RGBA
	Width  float64
}

func (p *Path) Origin() f64.Vec2 {
	if len(p.Points) == 0 {
		return f64.Vec2{}
	}
	return p.Points[0]
}

func (p *Path) extent() (f64.Vec2, f64.Vec2) {
	if len(p.Points) == 0 {
		return f64.Vec2{}, f64.Vec2{}
	}
	lo, hi := p.Points[0], p.Points[0]
	for _, pt := range p.Points[1:] {
		lo[0], lo[1] = math.Min(lo[0], pt[0]), math.Min(lo[1], pt[1])
		hi[0], hi[1] = math.Max(hi[0], pt[0]), math.Max(hi[1], pt[1])
	}
	pad := p.Width / 2
	return f64.Vec2{lo[0] - pad, lo[1] - pad}, f64.Vec2{hi[0] + pad, hi[1] + pad}
}

func (p *Path) render(dst *image.RGBA, t viewport.Transform) {
	if len(p.Points) == 0 {
		return
	}
	thick := int(math.Round(p.Width * t.Zoom))
	if thick < 1 {
		thick = 1
	}
	prev := toPoint(t.ToViewport(p.Points[0]))
	if len(p.Points) == 1 {
		setThickPixel(dst, prev.X, prev.Y, thick, p.Color)
		return
	}
	for _, pt := range p.Points[1:] {
		cur := toPoint(t.ToViewport(pt))
		drawLine(dst, prev.X, prev.Y, cur.X, cur.Y, p.Color, thick)
		prev = cur
	}
}

// blit draws src with its top-left corner at artboard position pos.
func blit(dst *image.RGBA, src image.Image, pos f64.Vec2, t viewport.Transform) {
	b := src.Bounds()
	tx := t.Pan[0] + (pos[0]-float64(b.Min.X))*t.Zoom
	ty := t.Pan[1] + (pos[1]-float64(b.Min.Y))*t.Zoom
	if t.Zoom == 1 && tx == math.Trunc(tx) && ty == math.Trunc(ty) {
		r := b.Add(image.Pt(int(tx), int(ty)))
		draw.Draw(dst, r, src, b.Min, draw.Over)
		return
	}
	m := f64.Aff3{t.Zoom, 0, tx, 0, t.Zoom, ty}
	xdraw.BiLinear.Transform(dst, m, src, b, xdraw.Over, nil)
}

func viewportRect(t viewport.Transform, lo, hi f64.Vec2) image.Rectangle {
	a := toPoint(t.ToViewport(lo))
	b := toPoint(t.ToViewport(hi))
	return image.Rectangle{Min: a, Max: b}.Canon()
}

func toPoint(v f64.Vec2) image.Point {
	return image.Pt(int(math.Round(v[0])), int(math.Round(v[1])))
}
