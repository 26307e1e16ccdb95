// Package platform delivers desktop notifications through the host's
// notification service.
package platform

import "time"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName is reported to the notification service. Empty means
	// "PhotoCanvas".
	AppName string
	// IconPath, when non-empty, points to an image file shown alongside the
	// notification if the platform supports it.
	IconPath string
	// Category is the freedesktop notification category hint, such as
	// "transfer.complete". Platforms without categories ignore it.
	Category string
	// Timeout is how long the notification stays visible; zero uses the
	// service default.
	Timeout time.Duration
}

func (o Options) appName() string {
	if o.AppName == "" {
		return "PhotoCanvas"
	}
	return o.AppName
}

func (o Options) expire() int32 {
	if o.Timeout <= 0 {
		return -1
	}
	return int32(o.Timeout / time.Millisecond)
}

func (o Options) hints() map[string]string {
	h := map[string]string{}
	if o.Category != "" {
		h["category"] = o.Category
	}
	return h
}
