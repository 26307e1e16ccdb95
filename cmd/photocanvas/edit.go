package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"strconv"

	"github.com/example/photocanvas/internal/config"
	"github.com/example/photocanvas/internal/dropzone"
	"github.com/example/photocanvas/internal/editor"
	"github.com/example/photocanvas/internal/upload"
	"github.com/example/photocanvas/internal/window"
)

// defaultViewport is used when neither the configuration nor the flags
// give an artboard size.
var defaultViewport = image.Pt(800, 600)

type editCmd struct {
	command
	overrides config.Overrides
	set       pairsFlag
	drop      string
	display   string
	images    []string
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	e := &editCmd{command: newCommand(r, "edit")}
	fs := e.fs
	fs.String("url", "", "upload endpoint")
	fs.String("save-url", "", "save endpoint, defaults to the upload endpoint")
	fs.Bool("popup", false, "open the editor as a popup")
	fs.Float64("zoom-min", 0, "lower zoom bound")
	fs.Float64("zoom-max", 0, "upper zoom bound")
	fs.Int("width", 0, "artboard width in pixels")
	fs.Int("height", 0, "artboard height in pixels")
	fs.String("tools", "", "comma separated tools to enable, prefix with - to disable")
	fs.Var(&e.set, "set", "extra option as key=value, may be repeated")
	fs.StringVar(&e.drop, "drop", "", "folder whose new images are uploaded into the editor")
	fs.StringVar(&e.display, "display", "", "monitor used for screen: sources")
	fs.Usage = usageFunc(e)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "url", "popup":
			err = e.overrides.Set(f.Name, f.Value.String())
		case "save-url":
			err = e.overrides.Set("save_url", f.Value.String())
		case "zoom-min":
			err = e.overrides.Set("zoom.min", f.Value.String())
		case "zoom-max":
			err = e.overrides.Set("zoom.max", f.Value.String())
		case "width":
			err = e.overrides.Set("artboard.width", f.Value.String())
		case "height":
			err = e.overrides.Set("artboard.height", f.Value.String())
		case "tools":
			err = parseToolList(f.Value.String(), &e.overrides)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("edit: %w", err)
	}
	for _, kv := range e.set {
		if err := e.overrides.Set(kv[0], kv[1]); err != nil {
			return nil, fmt.Errorf("edit: %w", err)
		}
	}
	e.images = fs.Args()
	return e, nil
}

// editorOverrides stacks the command line over the configuration file.
func (e *editCmd) editorOverrides() config.Overrides {
	var base config.Overrides
	if e.root != nil && e.root.config != nil {
		base = e.root.config.Editor
		if base.Theme == nil && e.root.config.Theme != "" {
			t := e.root.config.Theme
			base.Theme = &t
		}
	}
	ov := config.Combine(base, e.overrides)
	if ov.Width == nil {
		ov.Set("artboard.width", strconv.Itoa(defaultViewport.X))
	}
	if ov.Height == nil {
		ov.Set("artboard.height", strconv.Itoa(defaultViewport.Y))
	}
	return ov
}

func (e *editCmd) Run() error {
	ov := e.editorOverrides()
	opts, err := config.Merge(config.Defaults(), ov)
	if err != nil {
		return fmt.Errorf("edit: %w", err)
	}

	w := window.New("main", opts.Artboard(), e.activeTheme, window.WithNotifier(e.notifier))
	reg := editor.NewRegistry(editor.Hosts{"main": w}, config.Defaults(),
		editor.WithTheme(e.activeTheme),
		editor.WithNotifier(e.notifier),
		editor.WithLoader(e.loader(e.display)),
		editor.WithChangeListener(w.Changed),
	)
	defer reg.DestroyAll()
	ed, err := reg.Create("main", ov)
	if err != nil {
		return fmt.Errorf("edit: %w", err)
	}
	w.Attach(ed)
	for _, src := range e.images {
		ed.AddImage(src)
	}

	if e.drop != "" {
		watcher, err := dropzone.NewWatcher(e.drop)
		if err != nil {
			return fmt.Errorf("edit: watch %s: %w", e.drop, err)
		}
		defer watcher.Close()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go dropzone.Forward(ctx, watcher, 0, func(files []upload.File) {
			log.Printf("drop: %d file(s) from %s", len(files), e.drop)
			ed.Upload(files)
		})
	}

	w.Run()
	return nil
}
