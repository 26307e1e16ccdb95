// Package notify turns editor events into desktop notifications.
package notify

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/example/photocanvas/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventSave fires when the artboard was posted to the save endpoint.
	EventSave Event = "save"
	// EventUpload fires when an uploaded file was accepted by the receiver.
	EventUpload Event = "upload"
	// EventCopy fires when the artboard was copied to the clipboard.
	EventCopy Event = "copy"
)

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "PhotoCanvas",
		Events: map[Event]EventPreference{
			EventSave:   {Template: "Saved artboard to %s"},
			EventUpload: {Template: "Uploaded %s"},
			EventCopy:   {Template: "Copied %s to clipboard"},
		},
	}
}

// LoadPreferences applies PHOTOCANVAS_NOTIFY_* environment overrides to the
// defaults.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("PHOTOCANVAS_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	apply := func(key string, event Event) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			prefs.Events[event] = EventPreference{Template: v}
		}
	}
	apply("PHOTOCANVAS_NOTIFY_SAVE_TEXT", EventSave)
	apply("PHOTOCANVAS_NOTIFY_UPLOAD_TEXT", EventUpload)
	apply("PHOTOCANVAS_NOTIFY_COPY_TEXT", EventCopy)
	return prefs
}

// Sender delivers a rendered notification.
type Sender func(title, body string, opts platform.Options) error

// Notifier sends OS-level notifications based on the configured preferences.
// A nil Notifier is valid and silent.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    Sender
}

// New creates a Notifier that delivers through the platform service.
func New(prefs Preferences) *Notifier {
	return NewWithSender(prefs, platform.Notify)
}

// NewWithSender creates a Notifier with a custom delivery function.
func NewWithSender(prefs Preferences, send Sender) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool), send: send}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Save reports a completed save to target.
func (n *Notifier) Save(target string) {
	n.dispatch(EventSave, target)
}

// Upload reports an accepted upload by the identifier the receiver returned.
func (n *Notifier) Upload(id string) {
	n.dispatch(EventUpload, id)
}

// Copy sends a clipboard notification.
func (n *Notifier) Copy(detail string) {
	if strings.TrimSpace(detail) == "" {
		detail = "artboard"
	}
	n.dispatch(EventCopy, detail)
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string) {
	if !n.enabledFor(event) || n.send == nil {
		return
	}
	template := strings.TrimSpace(n.prefs.Events[event].Template)
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := n.send(n.prefs.Title, body, platform.Options{Category: category(event)}); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

// category maps an event to its freedesktop category hint.
func category(event Event) string {
	switch event {
	case EventSave, EventUpload:
		return "transfer.complete"
	}
	return ""
}
