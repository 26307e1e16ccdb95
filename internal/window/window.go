// Package window hosts an editor in a desktop window using the shiny
// driver: a toolbar of the enabled tools, the artboard viewport and a
// status bar with upload progress.
package window

import (
	"image"
	"log"
	"sync"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/photocanvas/internal/clipboard"
	"github.com/example/photocanvas/internal/editor"
	"github.com/example/photocanvas/internal/notify"
	"github.com/example/photocanvas/internal/scene"
	"github.com/example/photocanvas/internal/theme"
	"github.com/example/photocanvas/internal/tool"
	"github.com/example/photocanvas/internal/viewport"
)

// Option modifies a Window during creation.
type Option func(*Window)

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(w *Window) { w.title = title } }

// WithNotifier sets the notifier used for clipboard copies.
func WithNotifier(n *notify.Notifier) Option { return func(w *Window) { w.notifier = n } }

// WithCopy replaces the clipboard writer.
func WithCopy(fn func([]byte) error) Option { return func(w *Window) { w.copyPNG = fn } }

// Window is an editor.Host backed by a shiny window. It can be mounted
// before the window is opened; Run opens it.
type Window struct {
	id       string
	title    string
	size     image.Point
	theme    *theme.Theme
	notifier *notify.Notifier
	copyPNG  func([]byte) error

	mu      sync.Mutex
	cursor  tool.Cursor
	tools   []tool.Kind
	mounted bool
	send    func(any)
	ed      *editor.Editor
	message string
	layout  layout
	tracker pointerTracker
}

// New returns a host with a viewport of the given size.
func New(id string, size image.Point, th *theme.Theme, opts ...Option) *Window {
	w := &Window{id: id, title: "PhotoCanvas", size: size, theme: th, copyPNG: clipboard.WritePNG}
	for _, o := range opts {
		o(w)
	}
	if w.theme == nil {
		w.theme = theme.Default()
	}
	w.layout = newLayout(windowSize(size, nil), nil)
	return w
}

func (w *Window) ID() string { return w.id }

func (w *Window) Size() image.Point {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

func (w *Window) SetCursor(c tool.Cursor) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cursor = c
}

// Cursor returns the cursor the active tool asked for.
func (w *Window) Cursor() tool.Cursor {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cursor
}

func (w *Window) Mount(tools []tool.Kind) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tools = append([]tool.Kind(nil), tools...)
	w.mounted = true
	w.layout = newLayout(windowSize(w.size, w.tools), w.tools)
}

func (w *Window) Unmount() {
	w.mu.Lock()
	w.tools = nil
	w.mounted = false
	w.ed = nil
	send := w.send
	w.mu.Unlock()
	if send != nil {
		send(lifecycle.Event{To: lifecycle.StageDead})
	}
}

// Attach connects the editor created on this host.
func (w *Window) Attach(ed *editor.Editor) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ed = ed
}

// Changed requests a repaint. It is safe to call from any goroutine.
func (w *Window) Changed() {
	w.mu.Lock()
	send := w.send
	w.mu.Unlock()
	if send != nil {
		send(paint.Event{})
	}
}

func (w *Window) editor() *editor.Editor {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ed
}

// Run opens the window and blocks until it is closed.
func (w *Window) Run() { driver.Main(w.Main) }

// Main is the shiny event loop.
func (w *Window) Main(s screen.Screen) {
	w.mu.Lock()
	ws := windowSize(w.size, w.tools)
	w.mu.Unlock()
	win, err := s.NewWindow(&screen.NewWindowOptions{Width: ws.X, Height: ws.Y, Title: w.title})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer win.Release()

	w.mu.Lock()
	w.send = win.Send
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.send = nil
		w.mu.Unlock()
	}()

	current := ws
	for {
		switch e := win.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			current = e.Size()
			w.resize(current)
			win.Send(paint.Event{})
		case paint.Event:
			w.paint(s, win, current)
		case mouse.Event:
			w.handleMouse(e)
		case key.Event:
			if w.handleKey(e) == actionQuit {
				return
			}
		case error:
			log.Print(e)
		}
	}
}

func (w *Window) resize(ws image.Point) {
	w.mu.Lock()
	w.layout = newLayout(ws, w.tools)
	view := w.layout.view.Size()
	ed := w.ed
	w.mu.Unlock()
	if ed != nil && view.X > 0 && view.Y > 0 {
		ed.Resize(view)
	}
}

func (w *Window) paint(s screen.Screen, win screen.Window, sz image.Point) {
	if sz.X <= 0 || sz.Y <= 0 {
		return
	}
	b, err := s.NewBuffer(sz)
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	w.compose(b.RGBA())
	win.Upload(image.Point{}, b, b.Bounds())
	win.Publish()
}

// compose draws the current window contents into dst.
func (w *Window) compose(dst *image.RGBA) {
	w.mu.Lock()
	l := w.layout
	st := frameState{cursor: w.cursor, progress: -1, theme: w.theme}
	message := w.message
	ed := w.ed
	w.mu.Unlock()
	render := func(*image.RGBA) {}
	if ed != nil {
		st.status, st.progress = ed.Status()
		st.active = ed.Active()
		st.zoom = ed.Transform().Zoom
		st.dragging = ed.Dragging()
		render = ed.Render
	}
	if message != "" {
		st.status = message
	}
	drawFrame(dst, l, st, render)
}

func (w *Window) handleMouse(e mouse.Event) {
	ed := w.editor()
	if ed == nil {
		return
	}
	w.mu.Lock()
	l := w.layout
	if e.Direction == mouse.DirPress {
		w.message = ""
	}
	w.mu.Unlock()
	p := image.Pt(int(e.X), int(e.Y))
	if p.In(l.toolbar) {
		if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
			if k, ok := l.buttonAt(p); ok {
				ed.Activate(k)
			}
		}
		return
	}
	if d := wheelDelta(e); d != 0 {
		ed.ZoomBy(d)
		return
	}
	w.mu.Lock()
	ev, ok := w.tracker.translate(e, l.view.Min)
	w.mu.Unlock()
	if ok {
		ed.Pointer(ev)
	}
}

// handleKey routes a key press to the focused text or the shortcut table
// and returns the action it performed.
func (w *Window) handleKey(e key.Event) action {
	ed := w.editor()
	if ed == nil || e.Direction != key.DirPress {
		return actionNone
	}
	if ed.Focused() != 0 && e.Modifiers&(key.ModControl|key.ModMeta) == 0 {
		switch e.Code {
		case key.CodeDeleteBackspace:
			ed.Backspace()
			return actionNone
		case key.CodeEscape, key.CodeReturnEnter:
			ed.Reset()
			return actionReset
		}
		if e.Rune > 0 {
			ed.TypeText(e.Rune)
			return actionNone
		}
	}
	sc, ok := lookupShortcut(e)
	if !ok {
		return actionNone
	}
	switch sc.action {
	case actionTool:
		ed.Activate(sc.tool)
	case actionUndo:
		ed.Activate(tool.Undo)
	case actionSave:
		ed.Activate(tool.Save)
	case actionCopy:
		w.copy(ed)
	case actionPaste:
		ed.AddImage("clipboard:")
	case actionReset:
		ed.Reset()
	case actionZoomIn:
		ed.ZoomBy(0.1)
	case actionZoomOut:
		ed.ZoomBy(-0.1)
	case actionFit:
		ed.SetTransform(viewport.Identity())
	}
	return sc.action
}

func (w *Window) copy(ed *editor.Editor) {
	data, err := ed.Export(scene.PNG)
	if err == nil {
		err = w.copyPNG(data)
	}
	w.mu.Lock()
	if err != nil {
		log.Printf("copy: %v", err)
		w.message = "copy failed"
	} else {
		w.message = "artboard copied to clipboard"
	}
	w.mu.Unlock()
	if err == nil {
		w.notifier.Copy("artboard")
	}
	w.Changed()
}
