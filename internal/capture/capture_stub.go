//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import (
	"errors"
	"image"
)

var errUnsupported = errors.New("screen capture not supported on this platform")

func portalScreenshot(Options) (*image.RGBA, error) { return nil, errUnsupported }
func x11RootScreenshot() (*image.RGBA, error)       { return nil, errUnsupported }
func x11Monitors() ([]MonitorInfo, error)           { return nil, errUnsupported }
