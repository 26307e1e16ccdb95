package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/math/f64"

	"github.com/example/photocanvas/internal/config"
	"github.com/example/photocanvas/internal/editor"
	"github.com/example/photocanvas/internal/scene"
	"github.com/example/photocanvas/internal/tool"
	"github.com/example/photocanvas/internal/viewport"
)

// offscreen is an editor host without a window.
type offscreen struct {
	size image.Point
}

func (o *offscreen) ID() string            { return "offscreen" }
func (o *offscreen) Size() image.Point     { return o.size }
func (o *offscreen) SetCursor(tool.Cursor) {}
func (o *offscreen) Mount([]tool.Kind)     {}
func (o *offscreen) Unmount()              {}

type renderCmd struct {
	command
	output  string
	width   int
	height  int
	zoom    float64
	panX    float64
	panY    float64
	view    bool
	display string
	timeout time.Duration
	images  []string
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	c := &renderCmd{command: newCommand(r, "render")}
	fs := c.fs
	fs.StringVar(&c.output, "output", "", "file to write, .png or .jpg")
	fs.IntVar(&c.width, "width", 0, "artboard width, defaults to the first image")
	fs.IntVar(&c.height, "height", 0, "artboard height, defaults to the first image")
	fs.Float64Var(&c.zoom, "zoom", 1, "zoom applied with -view")
	fs.Float64Var(&c.panX, "pan-x", 0, "horizontal pan applied with -view")
	fs.Float64Var(&c.panY, "pan-y", 0, "vertical pan applied with -view")
	fs.BoolVar(&c.view, "view", false, "render the viewport at -zoom instead of exporting the artboard")
	fs.StringVar(&c.display, "display", "", "monitor used for screen: sources")
	fs.DurationVar(&c.timeout, "timeout", 30*time.Second, "time allowed for loading images")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	c.images = fs.Args()
	if c.output == "" || len(c.images) == 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *renderCmd) format() scene.Format {
	switch strings.ToLower(filepath.Ext(c.output)) {
	case ".jpg", ".jpeg":
		return scene.JPEG
	}
	return scene.PNG
}

func (c *renderCmd) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	loader := c.loader(c.display)
	size := image.Pt(c.width, c.height)
	if size.X <= 0 || size.Y <= 0 {
		first, err := loader.Load(ctx, c.images[0])
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if size.X <= 0 {
			size.X = first.Bounds().Dx()
		}
		if size.Y <= 0 {
			size.Y = first.Bounds().Dy()
		}
	}

	opts, err := config.Merge(config.Defaults(), config.Overrides{})
	if err != nil {
		return err
	}
	var edOpts []editor.Option
	edOpts = append(edOpts, editor.WithLoader(loader))
	if c.root != nil && c.activeTheme != nil {
		edOpts = append(edOpts, editor.WithTheme(c.activeTheme))
	}
	ed, err := editor.New(1, &offscreen{size: size}, opts, edOpts...)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	defer ed.Destroy()

	for _, src := range c.images {
		if err := ed.AddImage(src).Wait(ctx); err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}

	var data []byte
	if c.view {
		ed.SetTransform(viewport.Transform{Zoom: c.zoom, Pan: f64.Vec2{c.panX, c.panY}})
		data, err = encodeView(ed, size, c.format())
	} else {
		data, err = ed.Export(c.format())
	}
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := os.WriteFile(c.output, data, 0o644); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if c.root != nil && c.notifier != nil {
		c.notifier.Save(c.output)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", c.output)
	return nil
}

// encodeView renders what a window of size would show, controls included.
func encodeView(ed *editor.Editor, size image.Point, f scene.Format) ([]byte, error) {
	img := image.NewRGBA(image.Rectangle{Max: size})
	ed.Render(img)
	return scene.Encode(img, f)
}
