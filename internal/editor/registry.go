package editor

import (
	"fmt"
	"sync"

	"github.com/example/photocanvas/internal/config"
)

// Registry is the process-wide catalogue of live editors. IDs are handed
// out in creation order and never reused; destroyed editors leave no slot
// behind.
type Registry struct {
	mu      sync.Mutex
	hosts   HostResolver
	base    config.Options
	options []Option
	next    ID
	editors map[ID]*Editor
	order   []ID
}

// NewRegistry returns a registry creating editors on hosts from resolver.
// base is the configuration every Create starts from and options apply to
// every editor.
func NewRegistry(resolver HostResolver, base config.Options, options ...Option) *Registry {
	return &Registry{
		hosts:   resolver,
		base:    base,
		options: options,
		next:    1,
		editors: make(map[ID]*Editor),
	}
}

// Create mounts a new editor on the host named hostID with ov laid over
// the registry's base options. A missing host is a *ConfigurationError and
// leaves the registry untouched.
func (r *Registry) Create(hostID string, ov config.Overrides, options ...Option) (*Editor, error) {
	host, ok := r.hosts.Resolve(hostID)
	if !ok || host == nil {
		return nil, &ConfigurationError{HostID: hostID}
	}
	opts, err := config.Merge(r.base, ov)
	if err != nil {
		return nil, fmt.Errorf("create editor on %q: %w", hostID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	all := append(append([]Option(nil), r.options...), options...)
	e, err := New(r.next, host, opts, all...)
	if err != nil {
		return nil, err
	}
	r.next++
	r.editors[e.ID()] = e
	r.order = append(r.order, e.ID())
	return e, nil
}

// Get returns the live editor with id.
func (r *Registry) Get(id ID) (*Editor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.editors[id]
	return e, ok
}

// All returns the live editors in creation order.
func (r *Registry) All() []*Editor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Editor, 0, len(r.editors))
	for _, id := range r.order {
		if e, ok := r.editors[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Destroy tears down the editor with id and forgets it.
func (r *Registry) Destroy(id ID) bool {
	r.mu.Lock()
	e, ok := r.editors[id]
	delete(r.editors, id)
	r.mu.Unlock()
	if !ok {
		return false
	}
	e.Destroy()
	return true
}

// DestroyAll tears down every live editor.
func (r *Registry) DestroyAll() {
	r.mu.Lock()
	editors := r.editors
	r.editors = make(map[ID]*Editor)
	order := r.order
	r.order = nil
	r.mu.Unlock()
	for _, id := range order {
		if e, ok := editors[id]; ok {
			e.Destroy()
		}
	}
}
