package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/example/photocanvas/internal/dropzone"
	"github.com/example/photocanvas/internal/notify"
	"github.com/example/photocanvas/internal/upload"
)

type watchCmd struct {
	command
	dir   string
	url   string
	quiet time.Duration
}

func parseWatchCmd(args []string, r *root) (*watchCmd, error) {
	w := &watchCmd{command: newCommand(r, "watch")}
	w.fs.StringVar(&w.dir, "dir", "", "folder to watch for new images")
	w.fs.StringVar(&w.url, "url", "", "upload endpoint")
	w.fs.DurationVar(&w.quiet, "quiet", dropzone.DefaultQuiet, "idle time before a batch is uploaded")
	w.fs.Usage = usageFunc(w)
	if err := w.fs.Parse(args); err != nil {
		return nil, err
	}
	if w.dir == "" || w.url == "" {
		return nil, &UsageError{of: w}
	}
	return w, nil
}

// logEvents reports upload progress on stderr.
type logEvents struct {
	name     string
	notifier *notify.Notifier
}

func (l logEvents) Progress(pct int) {
	if pct == 100 {
		log.Printf("upload %s: sent", l.name)
	}
}

func (l logEvents) Succeeded(id string) {
	fmt.Fprintf(os.Stdout, "%s\t%s\n", l.name, id)
	l.notifier.Upload(id)
}

func (l logEvents) Failed(reason string) {
	log.Printf("upload %s: %s", l.name, reason)
}

func (w *watchCmd) Run() error {
	watcher, err := dropzone.NewWatcher(w.dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	defer watcher.Close()

	var n *notify.Notifier
	if w.root != nil {
		n = w.notifier
	}
	client := &upload.Client{URL: w.url}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	log.Printf("watch: uploading images dropped into %s to %s", w.dir, w.url)
	dropzone.Forward(ctx, watcher, w.quiet, func(files []upload.File) {
		for _, f := range files {
			if err := client.Submit(ctx, []upload.File{f}, logEvents{name: f.Name, notifier: n}); err != nil {
				log.Printf("watch: %v", err)
			}
		}
	})
	return nil
}
