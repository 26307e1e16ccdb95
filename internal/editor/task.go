package editor

import "context"

// Task is the handle of an asynchronous editor operation.
type Task struct {
	done   chan struct{}
	result string
	err    error
}

func newTask() *Task { return &Task{done: make(chan struct{})} }

func (t *Task) finish(result string, err error) {
	t.result, t.err = result, err
	close(t.done)
}

// Done is closed once the task has finished.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the task finishes or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err is the task's error, nil while it is still running.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Result is the identifier or source the task produced.
func (t *Task) Result() string {
	select {
	case <-t.done:
		return t.result
	default:
		return ""
	}
}
