package tool

import (
	"fmt"
	"log"

	"github.com/example/photocanvas/internal/scene"
)

// Machine keeps exactly one tool active. Every activation tears the
// current tool down and resets the host before the next tool's setup runs.
type Machine struct {
	host     Host
	binder   Binder
	enabled  map[Kind]bool
	current  Tool
	listener func(Kind)
}

// NewMachine returns an idle machine that accepts the given tools.
func NewMachine(host Host, enabled []Kind) *Machine {
	m := &Machine{host: host, enabled: make(map[Kind]bool, len(enabled))}
	for _, k := range enabled {
		if k != None {
			m.enabled[k] = true
		}
	}
	return m
}

// OnChange registers fn to run after each transition with the kind that
// ended up active.
func (m *Machine) OnChange(fn func(Kind)) { m.listener = fn }

// Active returns the current tool, None when idle.
func (m *Machine) Active() Kind {
	if m.current == nil {
		return None
	}
	return m.current.Kind()
}

// Enabled lists the accepted tools in toolbar order.
func (m *Machine) Enabled() []Kind {
	var out []Kind
	for _, k := range Kinds() {
		if m.enabled[k] {
			out = append(out, k)
		}
	}
	return out
}

func (m *Machine) IsEnabled(k Kind) bool { return m.enabled[k] }

// Binder exposes the gesture binder for inspection.
func (m *Machine) Binder() *Binder { return &m.binder }

// Activate switches to k. Activating the active tool runs the full
// teardown and setup again. Momentary tools run their action and leave the
// machine idle. A disabled or unknown kind is logged and changes nothing.
func (m *Machine) Activate(k Kind) error {
	if k == None {
		m.Reset()
		return nil
	}
	if !m.enabled[k] {
		err := fmt.Errorf("activate %s: %w", k, ErrUnknownTool)
		log.Printf("tool: %v", err)
		return err
	}
	m.teardown()
	t := newTool(k)
	t.Setup(m.host, &m.binder)
	if k.Momentary() {
		t.Teardown(m.host)
		m.reset()
		m.notify(None)
		return nil
	}
	m.current = t
	m.notify(k)
	return nil
}

// ActivateName parses name and activates it.
func (m *Machine) ActivateName(name string) error {
	k, err := ParseKind(name)
	if err != nil {
		log.Printf("tool: %v", err)
		return err
	}
	return m.Activate(k)
}

// Reset tears the current tool down and leaves the machine idle.
func (m *Machine) Reset() {
	m.teardown()
	m.notify(None)
}

// Dispatch forwards a pointer event to the active tool's gesture.
func (m *Machine) Dispatch(ev scene.Pointer) { m.binder.Dispatch(ev) }

func (m *Machine) teardown() {
	if m.current != nil {
		m.current.Teardown(m.host)
		m.current = nil
	}
	m.reset()
}

// reset returns the host to its idle state: no gesture, default cursor,
// empty selection, nothing selectable and drawing off.
func (m *Machine) reset() {
	m.binder.Unbind()
	m.host.SetCursor(CursorDefault)
	g := m.host.Graph()
	g.ClearSelection()
	for _, o := range g.Objects() {
		g.SetSelectable(o, false)
	}
	g.SetDrawingMode(false)
	g.SetMultiSelect(false)
}

func (m *Machine) notify(k Kind) {
	if m.listener != nil {
		m.listener(k)
	}
}
