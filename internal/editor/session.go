package editor

import (
	"fmt"
	"log"

	"github.com/example/photocanvas/internal/scene"
	"github.com/example/photocanvas/internal/upload"
)

// AddImage loads src in the background and places it on the artboard,
// locked. Once the last pending load completes the tools reset to idle,
// exactly once per batch.
func (e *Editor) AddImage(src string) *Task {
	e.mu.Lock()
	defer e.unlock()
	return e.addImageLocked(src)
}

func (e *Editor) addImageLocked(src string) *Task {
	t := newTask()
	if !e.alive {
		t.finish(src, ErrDestroyed)
		return t
	}
	e.pending++
	ctx := e.ctx
	go func() {
		img, err := e.loader.Load(ctx, src)
		e.mu.Lock()
		e.pending--
		switch {
		case !e.alive:
			if err == nil {
				err = ErrDestroyed
			}
		case err != nil:
			log.Printf("add image %s: %v", src, err)
			e.status = fmt.Sprintf("could not load %s", src)
			e.progress = -1
		default:
			h := e.graph.Add(scene.NewPicture(img, src))
			e.graph.SetStyle(h, e.style)
			e.graph.SetSelectable(h, false)
		}
		if e.pending == 0 && e.alive {
			e.machine.Reset()
		}
		e.changed()
		e.unlock()
		t.finish(src, err)
	}()
	return t
}

// Save exports the artboard at 1x and posts it to the save endpoint. The
// live transform is unchanged when Save returns; the task carries the
// receiver's identifier or the failure.
func (e *Editor) Save() *Task {
	e.mu.Lock()
	defer e.unlock()
	e.lastSave = e.saveLocked()
	return e.lastSave
}

// LastSave is the most recent save task, nil before the first save.
func (e *Editor) LastSave() *Task {
	e.mu.Lock()
	defer e.unlock()
	return e.lastSave
}

func (e *Editor) saveLocked() *Task {
	t := newTask()
	if !e.alive {
		t.finish("", ErrDestroyed)
		return t
	}
	data, err := e.exportLocked(scene.PNG)
	if err != nil {
		log.Printf("save: %v", err)
		t.finish("", err)
		return t
	}
	payload := scene.DataURL(scene.PNG, data)
	ctx := e.ctx
	e.status = "saving"
	go func() {
		id, err := e.uploader.Save(ctx, payload)
		e.mu.Lock()
		if err != nil {
			log.Printf("save: %v", err)
			e.status = "save failed"
		} else {
			e.status = "saved " + id
			n := e.notifier
			e.queue(func() { n.Save(id) })
		}
		e.changed()
		e.unlock()
		t.finish(id, err)
	}()
	return t
}

// Undo removes the most recently added object. There is no history
// beyond that single step per call.
func (e *Editor) Undo() {
	e.mu.Lock()
	defer e.unlock()
	e.undoLocked()
	e.changed()
}

func (e *Editor) undoLocked() {
	objs := e.graph.Objects()
	for i := len(objs) - 1; i >= 0; i-- {
		if objs[i] == e.background {
			continue
		}
		e.graph.Remove(objs[i])
		if objs[i] == e.focus {
			e.focus = 0
		}
		return
	}
}

// TypeText appends r to the focused text. The first key typed into fresh
// text replaces the placeholder.
func (e *Editor) TypeText(r rune) bool {
	e.mu.Lock()
	defer e.unlock()
	content, ok := e.focusedText()
	if !ok {
		return false
	}
	if e.freshText {
		content = ""
		e.freshText = false
	}
	e.graph.SetText(e.focus, content+string(r))
	e.changed()
	return true
}

// Backspace deletes the last rune of the focused text.
func (e *Editor) Backspace() bool {
	e.mu.Lock()
	defer e.unlock()
	content, ok := e.focusedText()
	if !ok {
		return false
	}
	e.freshText = false
	runes := []rune(content)
	if len(runes) > 0 {
		runes = runes[:len(runes)-1]
	}
	e.graph.SetText(e.focus, string(runes))
	e.changed()
	return true
}

func (e *Editor) focusedText() (string, bool) {
	if e.focus == 0 || !e.alive {
		return "", false
	}
	info, ok := e.graph.Lookup(e.focus)
	if !ok {
		e.focus = 0
		return "", false
	}
	txt, ok := info.Shape.(*scene.Text)
	if !ok || !info.Editable {
		return "", false
	}
	return txt.Content, true
}

// Upload submits files to the receiver. Progress and results come back
// through the editor's upload event hooks.
func (e *Editor) Upload(files []upload.File) *Task {
	e.mu.Lock()
	defer e.unlock()
	t := newTask()
	if !e.alive {
		t.finish("", ErrDestroyed)
		return t
	}
	e.dropped(len(files))
	ctx := e.ctx
	go func() {
		err := e.uploader.Submit(ctx, files, e)
		t.finish("", err)
	}()
	return t
}

// DragEnter marks files hovering over the editor.
func (e *Editor) DragEnter() {
	e.mu.Lock()
	defer e.unlock()
	e.dragging = true
	e.changed()
}

// DragLeave clears the hover state.
func (e *Editor) DragLeave() {
	e.mu.Lock()
	defer e.unlock()
	e.dragging = false
	e.changed()
}

// Dropped records that n files were dropped and are about to upload.
func (e *Editor) Dropped(n int) {
	e.mu.Lock()
	defer e.unlock()
	e.dropped(n)
}

func (e *Editor) dropped(n int) {
	e.dragging = false
	if n > 0 {
		e.progress = 0
		e.status = fmt.Sprintf("uploading %d file(s)", n)
	}
	e.changed()
}

// Progress updates the upload progress indicator.
func (e *Editor) Progress(pct int) {
	e.mu.Lock()
	defer e.unlock()
	if !e.alive {
		return
	}
	e.progress = max(0, min(100, pct))
	e.changed()
}

// Succeeded adds the uploaded image, resolved against the upload URL. An
// empty identifier adds nothing.
func (e *Editor) Succeeded(id string) {
	e.mu.Lock()
	defer e.unlock()
	e.progress = -1
	if !e.alive || id == "" {
		return
	}
	src, err := scene.Resolve(e.opts.URL(), id)
	if err != nil {
		log.Printf("upload: %v", err)
		return
	}
	n := e.notifier
	e.queue(func() { n.Upload(id) })
	e.addImageLocked(src)
	e.changed()
}

// Failed clears the progress indicator. No image is added.
func (e *Editor) Failed(reason string) {
	e.mu.Lock()
	defer e.unlock()
	log.Printf("upload: %s", reason)
	e.progress = -1
	e.status = "upload failed: " + reason
	e.changed()
}

var _ upload.Events = (*Editor)(nil)
