package window

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/photocanvas/internal/theme"
	"github.com/example/photocanvas/internal/tool"
)

const (
	statusHeight  = 24
	buttonHeight  = 24
	minToolbar    = 48
	progressWidth = 100
	dropHighlight = 4
)

type button struct {
	kind  tool.Kind
	rect  image.Rectangle
	label string
}

// layout splits the window into toolbar, viewport and status bar.
type layout struct {
	toolbar image.Rectangle
	view    image.Rectangle
	status  image.Rectangle
	buttons []button
}

func buttonLabel(k tool.Kind) string {
	name := k.String()
	name = strings.ToUpper(name[:1]) + name[1:]
	if r, ok := shortcutFor(k); ok {
		return fmt.Sprintf("%c:%s", unicode.ToUpper(r), name)
	}
	return name
}

// toolbarWidth is wide enough for the title and every button label.
func toolbarWidth(tools []tool.Kind) int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	width := d.MeasureString("PhotoCanvas").Ceil() + 8
	for _, k := range tools {
		if w := d.MeasureString(buttonLabel(k)).Ceil() + 8; w > width {
			width = w
		}
	}
	return max(width, minToolbar)
}

// windowSize is the window needed to show a viewport of the given size
// next to a toolbar holding the title and every button.
func windowSize(view image.Point, tools []tool.Kind) image.Point {
	h := max(view.Y, (len(tools)+1)*buttonHeight)
	return image.Pt(view.X+toolbarWidth(tools), h+statusHeight)
}

func newLayout(size image.Point, tools []tool.Kind) layout {
	tw := toolbarWidth(tools)
	l := layout{
		toolbar: image.Rect(0, 0, tw, size.Y-statusHeight),
		view:    image.Rect(tw, 0, size.X, size.Y-statusHeight),
		status:  image.Rect(0, size.Y-statusHeight, size.X, size.Y),
	}
	y := buttonHeight
	for _, k := range tools {
		l.buttons = append(l.buttons, button{kind: k, rect: image.Rect(0, y, tw, y+buttonHeight), label: buttonLabel(k)})
		y += buttonHeight
	}
	return l
}

func (l layout) buttonAt(p image.Point) (tool.Kind, bool) {
	for _, b := range l.buttons {
		if p.In(b.rect) {
			return b.kind, true
		}
	}
	return tool.None, false
}

type frameState struct {
	active   tool.Kind
	cursor   tool.Cursor
	zoom     float64
	status   string
	progress int
	dragging bool
	theme    *theme.Theme
}

// drawFrame composes a full window image. artboard paints the viewport
// into a buffer whose origin is the viewport's top-left corner.
func drawFrame(dst *image.RGBA, l layout, st frameState, artboard func(*image.RGBA)) {
	th := st.theme
	if th == nil {
		th = theme.Default()
	}
	fill(dst, dst.Bounds(), th.Backdrop)

	if !l.view.Empty() {
		view := image.NewRGBA(image.Rect(0, 0, l.view.Dx(), l.view.Dy()))
		fill(view, view.Bounds(), th.Backdrop)
		artboard(view)
		draw.Draw(dst, l.view, view, image.Point{}, draw.Src)
		if st.dragging {
			drawRect(dst, l.view, th.Progress, dropHighlight)
		}
	}

	fill(dst, l.toolbar, th.ToolbarBackground)
	drawString(dst, 4, 16, "PhotoCanvas", th.ButtonText)
	for _, b := range l.buttons {
		bg, fg := th.ButtonBackground, th.ButtonText
		if b.kind == st.active {
			bg, fg = th.ButtonActive, th.ButtonTextActive
		}
		fill(dst, b.rect, bg)
		drawRect(dst, b.rect, th.ButtonBorder, 1)
		drawString(dst, b.rect.Min.X+4, b.rect.Min.Y+16, b.label, fg)
	}

	fill(dst, l.status, th.ToolbarBackground)
	drawString(dst, l.status.Min.X+4, l.status.Min.Y+16, statusLine(st), th.Foreground)
	if st.progress >= 0 {
		bar := image.Rect(l.status.Max.X-progressWidth-4, l.status.Min.Y+6, l.status.Max.X-4, l.status.Max.Y-6)
		drawRect(dst, bar, th.ButtonBorder, 1)
		done := bar.Inset(1)
		done.Max.X = done.Min.X + done.Dx()*st.progress/100
		fill(dst, done, th.Progress)
	}
}

func statusLine(st frameState) string {
	parts := []string{st.active.String(), st.cursor.String(), fmt.Sprintf("%.0f%%", st.zoom*100)}
	if st.status != "" {
		parts = append(parts, st.status)
	}
	return strings.Join(parts, " | ")
}

func fill(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func drawRect(dst *image.RGBA, r image.Rectangle, c color.RGBA, thick int) {
	u := image.NewUniform(c)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thick), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-thick, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+thick, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-thick, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}

func drawString(dst *image.RGBA, x, y int, s string, c color.RGBA) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: basicfont.Face7x13, Dot: fixed.P(x, y)}
	d.DrawString(s)
}
