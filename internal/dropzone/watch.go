// Package dropzone watches a folder and turns image files dropped into it
// into upload batches.
package dropzone

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/example/photocanvas/internal/upload"
)

// DefaultQuiet is how long the folder must stay idle before a batch is
// released.
const DefaultQuiet = 250 * time.Millisecond

// Watcher reports image files created or rewritten in the watched folders.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher starts watching dirs.
func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}
	watcher := &Watcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher. Events and Errors are closed once the loop exits.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.Errors)
	defer close(w.Events)
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !IsImage(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < 100*time.Millisecond {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- event.Name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
				log.Printf("dropzone: %v", err)
			}
		case <-w.closeCh:
			return
		}
	}
}

// IsImage reports whether path has an extension the editor can load.
func IsImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp":
		return true
	}
	return false
}

// Forward collects paths from w and, once no new path has arrived for
// quiet, reads them and hands the batch to drop. It returns when ctx is
// done or the watcher closes.
func Forward(ctx context.Context, w *Watcher, quiet time.Duration, drop func([]upload.File)) {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	pending := make(map[string]bool)
	timer := time.NewTimer(quiet)
	timer.Stop()
	defer timer.Stop()
	errs := w.Errors
	flush := func() {
		if len(pending) == 0 {
			return
		}
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		clear(pending)
		files := make([]upload.File, 0, len(paths))
		for _, p := range paths {
			f, err := upload.ReadFile(p)
			if err != nil {
				if !os.IsNotExist(err) {
					log.Printf("dropzone: %v", err)
				}
				continue
			}
			files = append(files, f)
		}
		if len(files) > 0 {
			drop(files)
		}
	}
	for {
		select {
		case <-ctx.Done():
			return
		case p, ok := <-w.Events:
			if !ok {
				flush()
				return
			}
			pending[p] = true
			timer.Reset(quiet)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			log.Printf("dropzone: %v", err)
		case <-timer.C:
			flush()
		}
	}
}
