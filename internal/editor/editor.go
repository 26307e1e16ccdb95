// Package editor runs artboard sessions: it owns the scene graph, the
// viewport engine and the tool machine of one editor, feeds them pointer
// and keyboard input, and coordinates image loads, uploads and saves.
package editor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"

	"github.com/example/photocanvas/internal/config"
	"github.com/example/photocanvas/internal/notify"
	"github.com/example/photocanvas/internal/scene"
	"github.com/example/photocanvas/internal/theme"
	"github.com/example/photocanvas/internal/tool"
	"github.com/example/photocanvas/internal/upload"
	"github.com/example/photocanvas/internal/viewport"
)

// ErrDestroyed is returned by tasks started on a destroyed editor.
var ErrDestroyed = errors.New("editor destroyed")

// ID identifies an editor inside a Registry. IDs are never reused.
type ID int

// ImageLoader materialises an image from a source string.
type ImageLoader interface {
	Load(ctx context.Context, src string) (*image.RGBA, error)
}

// Uploader sends files and saved artboards to the receiver.
type Uploader interface {
	Submit(ctx context.Context, files []upload.File, ev upload.Events) error
	Save(ctx context.Context, dataURL string) (string, error)
}

// Option modifies an Editor during creation.
type Option func(*Editor)

// WithGraph replaces the default in-memory scene graph.
func WithGraph(g scene.Graph) Option { return func(e *Editor) { e.graph = g } }

// WithLoader sets the image loader used by AddImage.
func WithLoader(l ImageLoader) Option { return func(e *Editor) { e.loader = l } }

// WithUploader replaces the HTTP upload client built from the options.
func WithUploader(u Uploader) Option { return func(e *Editor) { e.uploader = u } }

// WithNotifier sets the desktop notifier for saves and uploads.
func WithNotifier(n *notify.Notifier) Option { return func(e *Editor) { e.notifier = n } }

// WithTheme sets the palette of the artboard and object styles.
func WithTheme(t *theme.Theme) Option { return func(e *Editor) { e.theme = t } }

// WithToolListener registers fn to run after every tool transition.
func WithToolListener(fn func(tool.Kind)) Option { return func(e *Editor) { e.onTool = fn } }

// WithChangeListener registers fn to run whenever the artboard or the
// session status changes and a repaint is due.
func WithChangeListener(fn func()) Option { return func(e *Editor) { e.onChange = fn } }

// Editor is one artboard session. All state is guarded by mu; listeners
// are called after mu is released.
type Editor struct {
	mu sync.Mutex

	id       ID
	host     Host
	opts     config.Options
	theme    *theme.Theme
	style    scene.Style
	graph    scene.Graph
	engine   *viewport.Engine
	machine  *tool.Machine
	loader   ImageLoader
	uploader Uploader
	notifier *notify.Notifier

	background scene.Handle
	focus      scene.Handle
	freshText  bool

	pending  int
	progress int
	dragging bool
	status   string
	lastSave *Task

	ctx    context.Context
	cancel context.CancelFunc
	alive  bool

	onTool   func(tool.Kind)
	onChange func()
	queued   []func()
}

// New mounts an editor on host. A nil host or one without a measurable
// size is a *ConfigurationError and nothing is touched.
func New(id ID, host Host, opts config.Options, options ...Option) (*Editor, error) {
	if host == nil {
		return nil, &ConfigurationError{}
	}
	size := host.Size()
	if size.X <= 0 || size.Y <= 0 {
		return nil, &ConfigurationError{HostID: host.ID(), Reason: fmt.Sprintf("empty viewport %v", size)}
	}
	e := &Editor{id: id, host: host, opts: opts, progress: -1}
	for _, o := range options {
		o(e)
	}
	if e.theme == nil {
		e.theme = theme.Default()
	}
	e.style = styleFor(e.theme)

	artboard := opts.Artboard()
	if artboard.X == 0 {
		artboard.X = size.X
	}
	if artboard.Y == 0 {
		artboard.Y = size.Y
	}
	if e.graph == nil {
		e.graph = scene.NewRaster(artboard)
	}
	engine, err := viewport.NewEngine(e.graph, opts.ZoomBounds(), size)
	if err != nil {
		return nil, fmt.Errorf("editor %s: %w", host.ID(), err)
	}
	e.engine = engine
	e.engine.SetArtboard(artboard)
	e.machine = tool.NewMachine(hostView{e}, opts.EnabledTools())
	e.machine.OnChange(func(k tool.Kind) {
		if e.onTool != nil {
			fn := e.onTool
			e.queue(func() { fn(k) })
		}
	})
	host.Mount(e.machine.Enabled())

	if e.uploader == nil {
		e.uploader = &upload.Client{URL: opts.URL(), SaveURL: opts.SaveURL()}
	}
	if e.loader == nil {
		e.loader = &scene.Loader{}
	}

	e.background = e.graph.Add(scene.NewRect(0, 0, float64(artboard.X), float64(artboard.Y), e.theme.Artboard))
	e.graph.SetSelectable(e.background, false)
	e.graph.SetEvented(e.background, false)

	e.ctx, e.cancel = context.WithCancel(context.Background())
	e.alive = true
	e.engine.Resize(size)
	return e, nil
}

func styleFor(t *theme.Theme) scene.Style {
	s := scene.DefaultStyle()
	s.BorderColor = t.Border
	s.CornerColor = t.Corner
	s.Stroke = t.Ink
	return s
}

// queue defers fn until the lock is released. Callers hold mu.
func (e *Editor) queue(fn func()) { e.queued = append(e.queued, fn) }

func (e *Editor) changed() {
	if e.onChange != nil {
		e.queue(e.onChange)
	}
}

// unlock releases mu and then runs the queued listeners.
func (e *Editor) unlock() {
	fns := e.queued
	e.queued = nil
	e.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (e *Editor) ID() ID                  { return e.id }
func (e *Editor) Host() Host              { return e.host }
func (e *Editor) Options() config.Options { return e.opts }
func (e *Editor) Theme() *theme.Theme     { return e.theme }

// Alive reports whether the editor has not been destroyed.
func (e *Editor) Alive() bool {
	e.mu.Lock()
	defer e.unlock()
	return e.alive
}

// Active returns the active tool.
func (e *Editor) Active() tool.Kind {
	e.mu.Lock()
	defer e.unlock()
	return e.machine.Active()
}

// Tools lists the enabled tools in toolbar order.
func (e *Editor) Tools() []tool.Kind {
	e.mu.Lock()
	defer e.unlock()
	return e.machine.Enabled()
}

// Pending is the number of images still loading.
func (e *Editor) Pending() int {
	e.mu.Lock()
	defer e.unlock()
	return e.pending
}

// Transform returns the current viewport transform.
func (e *Editor) Transform() viewport.Transform {
	e.mu.Lock()
	defer e.unlock()
	return e.engine.Transform()
}

// SetTransform replaces the viewport transform; the zoom is clamped.
func (e *Editor) SetTransform(t viewport.Transform) {
	e.mu.Lock()
	defer e.unlock()
	e.engine.SetTransform(t)
	e.changed()
}

// ZoomBy applies a zoom delta about the viewport centre and reports
// whether the view was recentred at the lower bound.
func (e *Editor) ZoomBy(delta float64) bool {
	e.mu.Lock()
	defer e.unlock()
	recenter := e.engine.ZoomBy(delta, e.engine.Center())
	e.changed()
	return recenter
}

// Status returns the last status line and the upload progress, -1 when no
// upload is running.
func (e *Editor) Status() (string, int) {
	e.mu.Lock()
	defer e.unlock()
	return e.status, e.progress
}

// Dragging reports whether files are being dragged over the editor.
func (e *Editor) Dragging() bool {
	e.mu.Lock()
	defer e.unlock()
	return e.dragging
}

// Objects lists the graph objects, background first.
func (e *Editor) Objects() []scene.Info {
	e.mu.Lock()
	defer e.unlock()
	var out []scene.Info
	for _, h := range e.graph.Objects() {
		if info, ok := e.graph.Lookup(h); ok {
			out = append(out, info)
		}
	}
	return out
}

// Focused returns the text object receiving key input, zero when none.
func (e *Editor) Focused() scene.Handle {
	e.mu.Lock()
	defer e.unlock()
	return e.focus
}

// Activate switches tools. Unknown or disabled tools are logged and
// returned as tool.ErrUnknownTool without any change.
func (e *Editor) Activate(k tool.Kind) error {
	e.mu.Lock()
	defer e.unlock()
	if !e.alive {
		return ErrDestroyed
	}
	err := e.machine.Activate(k)
	e.changed()
	return err
}

// ActivateName is Activate for a tool name.
func (e *Editor) ActivateName(name string) error {
	k, err := tool.ParseKind(name)
	if err != nil {
		log.Printf("editor %d: %v", e.id, err)
		return err
	}
	return e.Activate(k)
}

// Reset leaves the editor idle.
func (e *Editor) Reset() {
	e.mu.Lock()
	defer e.unlock()
	e.machine.Reset()
	e.changed()
}

// Pointer feeds a viewport pointer event to the scene graph and then to
// the active tool's gesture.
func (e *Editor) Pointer(ev scene.Pointer) {
	e.mu.Lock()
	defer e.unlock()
	if !e.alive {
		return
	}
	e.graph.Pointer(ev)
	e.machine.Dispatch(ev)
	e.changed()
}

// Resize records a new viewport size. Repeated calls with the same size
// have no further effect.
func (e *Editor) Resize(size image.Point) {
	e.mu.Lock()
	defer e.unlock()
	if size == e.engine.Size() {
		return
	}
	e.engine.Resize(size)
	e.changed()
}

// Render paints the artboard at the live transform, selection controls
// included.
func (e *Editor) Render(dst *image.RGBA) {
	e.mu.Lock()
	defer e.unlock()
	e.graph.Render(dst)
}

// Export encodes the artboard at 1x with zero pan. The live transform is
// restored afterwards.
func (e *Editor) Export(f scene.Format) ([]byte, error) {
	e.mu.Lock()
	defer e.unlock()
	return e.exportLocked(f)
}

func (e *Editor) exportLocked(f scene.Format) ([]byte, error) {
	var data []byte
	err := e.engine.SaveRoundTrip(func() error {
		var err error
		data, err = e.graph.ExportRaster(f)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return data, nil
}

// Destroy tears the session down: the active tool is reset, the host is
// unmounted and in-flight tasks are cancelled. Tasks that still resolve
// only settle the pending counter.
func (e *Editor) Destroy() {
	e.mu.Lock()
	defer e.unlock()
	if !e.alive {
		return
	}
	e.machine.Reset()
	e.alive = false
	e.cancel()
	e.host.Unmount()
}

// hostView is the tool.Host of an editor. Tools only run while mu is held,
// so it never locks.
type hostView struct{ e *Editor }

func (v hostView) Graph() scene.Graph       { return v.e.graph }
func (v hostView) Engine() *viewport.Engine { return v.e.engine }
func (v hostView) Style() scene.Style       { return v.e.style }
func (v hostView) Background() scene.Handle { return v.e.background }
func (v hostView) SetCursor(c tool.Cursor)  { v.e.host.SetCursor(c) }
func (v hostView) Undo()                    { v.e.undoLocked() }
func (v hostView) Save()                    { v.e.lastSave = v.e.saveLocked() }

func (v hostView) FocusText(h scene.Handle) {
	v.e.focus = h
	v.e.freshText = h != 0
}
