package capture

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
)

func stubBackends(t *testing.T, portal func(Options) (*image.RGBA, error), root func() (*image.RGBA, error), monitors func() ([]MonitorInfo, error)) {
	t.Helper()
	prevPortal, prevRoot, prevMonitors := portalShot, rootShot, listMonitors
	portalShot, rootShot, listMonitors = portal, root, monitors
	t.Cleanup(func() { portalShot, rootShot, listMonitors = prevPortal, prevRoot, prevMonitors })
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestScreenFallsBackToX11(t *testing.T) {
	portalErr := errors.New("no portal")
	want := solid(4, 4, color.RGBA{1, 2, 3, 255})
	stubBackends(t,
		func(Options) (*image.RGBA, error) { return nil, portalErr },
		func() (*image.RGBA, error) { return want, nil },
		nil,
	)
	got, err := Screen(Options{})
	if err != nil {
		t.Fatalf("Screen: %v", err)
	}
	if got != want {
		t.Fatalf("expected X11 image")
	}
}

func TestScreenInteractiveDoesNotFallBack(t *testing.T) {
	portalErr := errors.New("cancelled")
	called := false
	stubBackends(t,
		func(Options) (*image.RGBA, error) { return nil, portalErr },
		func() (*image.RGBA, error) {
			called = true
			return nil, nil
		},
		nil,
	)
	if _, err := Screen(Options{Interactive: true}); !errors.Is(err, portalErr) {
		t.Fatalf("expected portal error, got %v", err)
	}
	if called {
		t.Fatalf("interactive capture must not fall back")
	}
}

func TestScreenBothBackendsFail(t *testing.T) {
	xErr := errors.New("no display")
	stubBackends(t,
		func(Options) (*image.RGBA, error) { return nil, errors.New("no portal") },
		func() (*image.RGBA, error) { return nil, xErr },
		nil,
	)
	_, err := Screen(Options{})
	if !errors.Is(err, xErr) {
		t.Fatalf("expected wrapped X11 error, got %v", err)
	}
	if !strings.Contains(err.Error(), "no portal") {
		t.Fatalf("expected portal error in message, got %v", err)
	}
}

func TestScreenCropsToMonitor(t *testing.T) {
	shot := solid(200, 100, color.RGBA{9, 9, 9, 255})
	stubBackends(t,
		func(Options) (*image.RGBA, error) { return shot, nil },
		nil,
		func() ([]MonitorInfo, error) {
			return []MonitorInfo{
				{Index: 0, Name: "DP-1", Rect: image.Rect(0, 0, 100, 100)},
				{Index: 1, Name: "HDMI-1", Rect: image.Rect(100, 0, 200, 80), Primary: true},
			}, nil
		},
	)
	img, err := Screen(Options{Display: "primary"})
	if err != nil {
		t.Fatalf("Screen: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 100, 80) {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
}

func TestFindMonitor(t *testing.T) {
	monitors := []MonitorInfo{
		{Index: 0, Name: "eDP-1"},
		{Index: 1, Name: "HDMI-A-1", Primary: true},
	}
	cases := []struct {
		sel  string
		want int
		err  bool
	}{
		{"", 0, false},
		{"primary", 1, false},
		{"#1", 1, false},
		{"0", 0, false},
		{"hdmi", 1, false},
		{"5", 0, true},
		{"vga", 0, true},
	}
	for _, c := range cases {
		mon, err := FindMonitor(monitors, c.sel)
		if c.err {
			if err == nil {
				t.Errorf("%q: expected error", c.sel)
			}
			continue
		}
		if err != nil || mon.Index != c.want {
			t.Errorf("%q: got %d, %v; want %d", c.sel, mon.Index, err, c.want)
		}
	}
	if _, err := FindMonitor(nil, ""); !errors.Is(err, errNoMonitors) {
		t.Fatalf("expected errNoMonitors, got %v", err)
	}
}

func TestCropOutsideImage(t *testing.T) {
	if _, err := cropToRect(solid(10, 10, color.RGBA{}), image.Rect(20, 20, 30, 30)); err == nil {
		t.Fatalf("expected error for region outside image")
	}
}
