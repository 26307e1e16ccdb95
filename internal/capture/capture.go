// Package capture grabs the desktop as an image source for the editor.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"
	"strconv"
	"strings"
)

// Options control a screen grab.
type Options struct {
	// Display selects a monitor by index, name fragment or "primary".
	// Empty means the whole desktop.
	Display       string
	Interactive   bool
	IncludeCursor bool
}

// MonitorInfo describes a connected output in global screen coordinates.
type MonitorInfo struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

var errNoMonitors = errors.New("no monitors found")

// swapped in tests
var (
	portalShot   = portalScreenshot
	rootShot     = x11RootScreenshot
	listMonitors = x11Monitors
)

// Screen captures the desktop. The desktop portal is tried first; a
// non-interactive grab falls back to reading the X11 root window.
func Screen(opts Options) (*image.RGBA, error) {
	img, err := portalShot(opts)
	if err != nil {
		if opts.Interactive {
			return nil, err
		}
		log.Printf("capture: portal unavailable, using X11: %v", err)
		var xerr error
		img, xerr = rootShot()
		if xerr != nil {
			return nil, fmt.Errorf("screen capture: %v; X11 fallback: %w", err, xerr)
		}
	}
	if opts.Display == "" {
		return img, nil
	}
	monitors, err := listMonitors()
	if err != nil {
		return nil, err
	}
	mon, err := FindMonitor(monitors, opts.Display)
	if err != nil {
		return nil, err
	}
	return cropToRect(img, mon.Rect)
}

// Monitors lists the connected outputs.
func Monitors() ([]MonitorInfo, error) {
	return listMonitors()
}

// FindMonitor resolves a monitor selector against the provided list.
func FindMonitor(monitors []MonitorInfo, selector string) (MonitorInfo, error) {
	if len(monitors) == 0 {
		return MonitorInfo{}, errNoMonitors
	}
	sel := strings.ToLower(strings.TrimSpace(selector))
	if sel == "" {
		return monitors[0], nil
	}
	if sel == "primary" {
		for _, mon := range monitors {
			if mon.Primary {
				return mon, nil
			}
		}
		return monitors[0], nil
	}
	if idx, err := strconv.Atoi(strings.TrimPrefix(sel, "#")); err == nil {
		if idx < 0 || idx >= len(monitors) {
			return MonitorInfo{}, fmt.Errorf("monitor index %d out of range", idx)
		}
		return monitors[idx], nil
	}
	for _, mon := range monitors {
		if strings.Contains(strings.ToLower(mon.Name), sel) {
			return mon, nil
		}
	}
	return MonitorInfo{}, fmt.Errorf("monitor %q not found", selector)
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
