// Package tool implements the editor's mutually exclusive tools: the
// activation state machine, the pointer gesture binder and the behaviour of
// each tool.
package tool

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTool is returned when activating a tool that does not exist or
// is not enabled.
var ErrUnknownTool = errors.New("unknown tool")

// Kind names a tool. None is the idle state.
type Kind int

const (
	None Kind = iota
	Pan
	Zoom
	Transform
	Draw
	Text
	Crop
	Undo
	Save
)

var kindNames = [...]string{
	None:      "none",
	Pan:       "pan",
	Zoom:      "zoom",
	Transform: "transform",
	Draw:      "draw",
	Text:      "text",
	Crop:      "crop",
	Undo:      "undo",
	Save:      "save",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds returns every tool in toolbar order, excluding None.
func Kinds() []Kind {
	return []Kind{Pan, Zoom, Transform, Draw, Text, Crop, Undo, Save}
}

// ParseKind maps a tool name to its Kind. Matching ignores case and
// surrounding space.
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for k, s := range kindNames {
		if s == n {
			return Kind(k), nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownTool, name)
}

// Momentary reports whether the tool performs a one-shot action and returns
// to idle instead of staying active.
func (k Kind) Momentary() bool {
	return k == Undo || k == Save
}

// Cursor is the pointer affordance a tool asks the host to show.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorGrab
	CursorGrabbing
	CursorZoomIn
	CursorCrosshair
	CursorText
)

func (c Cursor) String() string {
	switch c {
	case CursorDefault:
		return "default"
	case CursorGrab:
		return "grab"
	case CursorGrabbing:
		return "grabbing"
	case CursorZoomIn:
		return "zoom-in"
	case CursorCrosshair:
		return "crosshair"
	case CursorText:
		return "text"
	}
	return fmt.Sprintf("Cursor(%d)", int(c))
}
