package viewport

import (
	"errors"
	"image"
	"math"
	"math/rand"
	"testing"

	"golang.org/x/image/math/f64"
)

func newTestEngine(t *testing.T, b Bounds) (*Engine, *State) {
	t.Helper()
	st := NewState()
	e, err := NewEngine(st, b, image.Pt(800, 600))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e, st
}

func TestBoundsValidate(t *testing.T) {
	cases := []struct {
		b  Bounds
		ok bool
	}{
		{Bounds{0.1, 100}, true},
		{Bounds{1, 1}, false},
		{Bounds{2, 1}, false},
		{Bounds{0, 1}, false},
		{Bounds{-1, 1}, false},
		{Bounds{math.NaN(), 1}, false},
	}
	for _, c := range cases {
		err := c.b.Validate()
		if c.ok && err != nil {
			t.Errorf("%+v: unexpected error %v", c.b, err)
		}
		if !c.ok && !errors.Is(err, ErrInvalidBounds) {
			t.Errorf("%+v: expected ErrInvalidBounds, got %v", c.b, err)
		}
	}
}

func TestApplyZoomDelta(t *testing.T) {
	b := Bounds{Min: 0.1, Max: 100}
	cases := []struct {
		cur, delta float64
		want       float64
		recenter   bool
	}{
		{1, 0.5, 1.5, false},
		{1, -0.95, 0.1, true},
		{1, 1000, 100, false},
		{100, 1, 100, false},
		{0.1, -0.01, 0.1, true},
		{1, math.NaN(), 1, false},
	}
	for _, c := range cases {
		got, rc := ApplyZoomDelta(c.cur, c.delta, b)
		if math.Abs(got-c.want) > 1e-9 || rc != c.recenter {
			t.Errorf("ApplyZoomDelta(%g, %g) = (%g, %v), want (%g, %v)", c.cur, c.delta, got, rc, c.want, c.recenter)
		}
	}
}

func TestZoomScenario(t *testing.T) {
	e, _ := newTestEngine(t, Bounds{Min: 0.1, Max: 100})
	if !e.ZoomBy(-0.95, e.Center()) {
		t.Fatalf("expected recenter when crossing the lower bound")
	}
	if e.Zoom() != 0.1 {
		t.Fatalf("zoom = %g, want 0.1", e.Zoom())
	}
	want := CenteredPan(e.Size(), e.Artboard(), 0.1)
	if e.Pan() != want {
		t.Fatalf("pan = %v, want centred %v", e.Pan(), want)
	}

	if e.ZoomBy(1000, e.Center()) {
		t.Fatalf("upper bound must not recenter")
	}
	if e.Zoom() != 100 {
		t.Fatalf("zoom = %g, want 100", e.Zoom())
	}
}

func TestRecentreUsesArtboardSize(t *testing.T) {
	st := NewState()
	e, err := NewEngine(st, Bounds{Min: 0.1, Max: 10}, image.Pt(200, 100))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.SetArtboard(image.Pt(800, 600))
	e.SetArtboard(image.Point{})
	if e.Artboard() != image.Pt(800, 600) {
		t.Fatalf("artboard = %v", e.Artboard())
	}
	if !e.ZoomBy(-5, e.Center()) {
		t.Fatalf("expected recenter")
	}
	c := e.Transform().ToViewport(f64.Vec2{400, 300})
	if math.Abs(c[0]-100) > 1e-9 || math.Abs(c[1]-50) > 1e-9 {
		t.Fatalf("artboard centre at %v, want (100,50)", c)
	}
}

func TestZoomUpperBoundKeepsPan(t *testing.T) {
	e, st := newTestEngine(t, Bounds{Min: 0.5, Max: 4})
	st.PanTo(f64.Vec2{13, -7})
	e.ZoomBy(10, e.Center())
	if e.Zoom() != 4 {
		t.Fatalf("zoom = %g, want 4", e.Zoom())
	}
	if e.Pan() != (f64.Vec2{13, -7}) {
		t.Fatalf("pan changed to %v", e.Pan())
	}
}

func TestZoomKeepsAnchorFixed(t *testing.T) {
	e, st := newTestEngine(t, Bounds{Min: 0.1, Max: 10})
	st.PanTo(f64.Vec2{20, 30})
	anchor := e.Center()
	before := e.Transform().ToArtboard(anchor)
	e.ZoomBy(0.75, anchor)
	after := e.Transform().ToArtboard(anchor)
	if math.Abs(before[0]-after[0]) > 1e-9 || math.Abs(before[1]-after[1]) > 1e-9 {
		t.Fatalf("anchor moved from %v to %v", before, after)
	}
}

func TestZoomStaysWithinBounds(t *testing.T) {
	b := Bounds{Min: 0.1, Max: 100}
	e, _ := newTestEngine(t, b)
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		delta := (r.Float64() - 0.5) * 40
		e.ZoomBy(delta, e.Center())
		if z := e.Zoom(); z < b.Min || z > b.Max {
			t.Fatalf("step %d: zoom %g escaped %+v", i, z, b)
		}
	}
}

func TestPanIsUnbounded(t *testing.T) {
	e, _ := newTestEngine(t, DefaultBounds())
	for i := 0; i < 100; i++ {
		e.PanBy(f64.Vec2{1000, -1000})
	}
	if e.Pan() != (f64.Vec2{100000, -100000}) {
		t.Fatalf("unexpected pan %v", e.Pan())
	}
}

func TestSaveRoundTripRestoresTransform(t *testing.T) {
	e, st := newTestEngine(t, DefaultBounds())
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		st.SetZoom(0.1 + r.Float64()*50)
		st.PanTo(f64.Vec2{r.Float64()*400 - 200, r.Float64()*400 - 200})
		before := e.Transform()
		var during Transform
		err := e.SaveRoundTrip(func() error {
			during = e.Transform()
			return nil
		})
		if err != nil {
			t.Fatalf("SaveRoundTrip: %v", err)
		}
		if during != Identity() {
			t.Fatalf("export ran at %v, want identity", during)
		}
		if after := e.Transform(); after != before {
			t.Fatalf("transform changed from %v to %v", before, after)
		}
	}
}

func TestSaveRoundTripRestoresOnError(t *testing.T) {
	e, st := newTestEngine(t, DefaultBounds())
	st.SetZoom(3)
	st.PanTo(f64.Vec2{5, 6})
	sentinel := errors.New("export failed")
	if err := e.SaveRoundTrip(func() error { return sentinel }); !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	if e.Zoom() != 3 || e.Pan() != (f64.Vec2{5, 6}) {
		t.Fatalf("transform not restored: %v", e.Transform())
	}
}

func TestNewEngineClampsInitialZoom(t *testing.T) {
	st := NewState()
	st.SetZoom(500)
	e, err := NewEngine(st, Bounds{Min: 0.5, Max: 2}, image.Pt(10, 10))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if e.Zoom() != 2 {
		t.Fatalf("zoom = %g, want 2", e.Zoom())
	}
}

func TestTransformRoundTrip(t *testing.T) {
	tr := Transform{Zoom: 2.5, Pan: f64.Vec2{-40, 12}}
	p := f64.Vec2{40, 60}
	back := tr.ToViewport(tr.ToArtboard(p))
	if math.Abs(back[0]-p[0]) > 1e-9 || math.Abs(back[1]-p[1]) > 1e-9 {
		t.Fatalf("round trip %v -> %v", p, back)
	}
	m := tr.Aff3()
	if m[0] != 2.5 || m[2] != -40 || m[4] != 2.5 || m[5] != 12 {
		t.Fatalf("unexpected matrix %v", m)
	}
}

func TestResizeIdempotent(t *testing.T) {
	e, _ := newTestEngine(t, DefaultBounds())
	e.Resize(image.Pt(1024, 768))
	e.Resize(image.Pt(1024, 768))
	e.Resize(image.Pt(0, 10))
	if e.Size() != image.Pt(1024, 768) {
		t.Fatalf("size = %v", e.Size())
	}
}
