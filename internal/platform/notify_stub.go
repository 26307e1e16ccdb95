//go:build !linux && !darwin && !windows

package platform

import "log"

// Notify logs the notification on platforms without a notification
// service.
func Notify(title, body string, opts Options) error {
	log.Printf("%s: %s: %s", opts.appName(), title, body)
	return nil
}
