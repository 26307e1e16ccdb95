package editor

import (
	"fmt"
	"image"

	"github.com/example/photocanvas/internal/tool"
)

// Host is the surface an editor is mounted on: a window, or a fake in
// tests.
type Host interface {
	ID() string
	// Size is the measured viewport size in pixels.
	Size() image.Point
	SetCursor(c tool.Cursor)
	// Mount builds the toolbar for the given tools, in order.
	Mount(tools []tool.Kind)
	// Unmount returns the host to its state before Mount.
	Unmount()
}

// HostResolver finds hosts by identifier.
type HostResolver interface {
	Resolve(id string) (Host, bool)
}

// Hosts is a HostResolver over a fixed set of hosts.
type Hosts map[string]Host

func (h Hosts) Resolve(id string) (Host, bool) {
	host, ok := h[id]
	return host, ok
}

// ConfigurationError reports an editor that cannot be created because its
// host does not exist or cannot be measured.
type ConfigurationError struct {
	HostID string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("editor: host %q not found", e.HostID)
	}
	return fmt.Sprintf("editor: host %q: %s", e.HostID, e.Reason)
}
