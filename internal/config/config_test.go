package config

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/photocanvas/internal/tool"
	"github.com/example/photocanvas/internal/viewport"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
upload_dir = /srv/uploads
listen = :9000

[notify]
save = true
upload = false
copy = true

[editor]
url = http://example.test/upload.php
popup = true
filters = true

[tools]
draw = false
lasso = true

[zoom]
min = 0.5
max = 8

[theme.my_custom_theme]
Backdrop = #111111
Ink: tomato
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Theme != "my_custom_theme" || cfg.UploadDir != "/srv/uploads" || cfg.Listen != ":9000" {
		t.Errorf("root fields: %+v", cfg)
	}
	if !cfg.Notify.Save || cfg.Notify.Upload || !cfg.Notify.Copy {
		t.Errorf("notify = %+v", cfg.Notify)
	}
	if cfg.Editor.URL == nil || *cfg.Editor.URL != "http://example.test/upload.php" {
		t.Errorf("editor url = %v", cfg.Editor.URL)
	}
	if v, ok := cfg.Editor.Tools[tool.Draw]; !ok || v {
		t.Errorf("tools.draw not disabled: %v", cfg.Editor.Tools)
	}
	if cfg.Editor.Extra["tools.lasso"] != "true" || cfg.Editor.Extra["filters"] != "true" {
		t.Errorf("unknown keys not passed through: %v", cfg.Editor.Extra)
	}
	th, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if th.Backdrop.R != 0x11 || th.Ink.R != 255 {
		t.Errorf("unexpected theme %+v", th)
	}

	opts, err := cfg.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if !opts.Popup() || opts.ToolEnabled(tool.Draw) || !opts.ToolEnabled(tool.Pan) {
		t.Errorf("unexpected options: popup=%v tools=%v", opts.Popup(), opts.EnabledTools())
	}
	if opts.ZoomBounds() != (viewport.Bounds{Min: 0.5, Max: 8}) {
		t.Errorf("zoom = %+v", opts.ZoomBounds())
	}
	if opts.Theme() != "my_custom_theme" {
		t.Errorf("theme = %q", opts.Theme())
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"[notify]\nsave = maybe\n",
		"[zoom]\nmin = low\n",
		"[tools]\npan = sometimes\n",
		"[theme.x]\nInk = #12\n",
	}
	for _, in := range cases {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
upload_dir = /home/user/uploads

[notify]
save = true
upload = true
copy = false

[editor]
url = /upload
tools.text = false
zoom.max = 50
artboard.width = 640

[theme.custom]
Name = custom
Backdrop = #000000
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}
	generated := cfg.String()
	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Re-parse failed: %v\n%s", err, generated)
	}
	if cfg2.String() != generated {
		t.Fatalf("round trip differs:\n%s\n---\n%s", generated, cfg2.String())
	}
	if *cfg2.Editor.ZoomMax != 50 || *cfg2.Editor.Width != 640 || cfg2.Editor.Tools[tool.Text] {
		t.Fatalf("editor overrides lost: %+v", cfg2.Editor)
	}
}

func TestParseYAML(t *testing.T) {
	input := `
theme: dark
listen: ":7000"
notify:
  save: true
editor:
  popup: true
  url: http://example.test/up
  tools:
    zoom: false
  zoom:
    min: 0.25
  artboard:
    width: 800
    height: 600
  filters: true
themes:
  neon:
    Ink: "#00FF00"
`
	cfg, err := ParseYAML(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	if cfg.Theme != "dark" || cfg.Listen != ":7000" || !cfg.Notify.Save {
		t.Errorf("root = %+v", cfg)
	}
	opts, err := cfg.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if !opts.Popup() || opts.ToolEnabled(tool.Zoom) || opts.ZoomBounds().Min != 0.25 {
		t.Errorf("options not applied")
	}
	if opts.Artboard() != image.Pt(800, 600) {
		t.Errorf("artboard = %v", opts.Artboard())
	}
	if opts.Extra()["filters"] != "true" {
		t.Errorf("extra = %v", opts.Extra())
	}
	if th := cfg.Themes["neon"]; th == nil || th.Ink.G != 255 {
		t.Errorf("theme neon = %+v", th)
	}
}

func TestLoaderPicksFormatByExtension(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfgDir := filepath.Join(dir, "photocanvas")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte("theme: fabric\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	l := NewLoader("v1", "")
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != "fabric" {
		t.Fatalf("theme = %q", cfg.Theme)
	}

	rc := filepath.Join(dir, "explicit.rc")
	if err := os.WriteFile(rc, []byte("theme = dark\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err = NewLoader("v1", rc).Load()
	if err != nil || cfg.Theme != "dark" {
		t.Fatalf("override path: %v, %v", cfg, err)
	}
	if l.DefaultPath() != filepath.Join(cfgDir, "config.rc") {
		t.Fatalf("DefaultPath = %q", l.DefaultPath())
	}
}

func TestLoaderWithoutFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := NewLoader("v1", "").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != New().Listen {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestMergeIsImmutable(t *testing.T) {
	base := Defaults()
	off := false
	a, err := Merge(base, Overrides{Tools: map[tool.Kind]bool{tool.Draw: off}})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !base.ToolEnabled(tool.Draw) {
		t.Fatalf("Merge mutated its base")
	}
	if a.ToolEnabled(tool.Draw) || !a.ToolEnabled(tool.Text) {
		t.Fatalf("tools not merged per key: %v", a.EnabledTools())
	}
	extra := a.Extra()
	extra["x"] = "y"
	if _, ok := a.Extra()["x"]; ok {
		t.Fatalf("Extra leaked internal map")
	}
}

func TestMergeDefaultsAndValidation(t *testing.T) {
	o, err := Merge(Defaults(), Overrides{})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if extra := o.Extra(); extra == nil || len(extra) != 0 {
		t.Fatalf("Extra() = %#v, want an empty map", extra)
	}
	if o.URL() != "upload.php" || o.SaveURL() != "upload.php" || o.Popup() {
		t.Fatalf("unexpected defaults url=%q save=%q", o.URL(), o.SaveURL())
	}
	if len(o.EnabledTools()) != len(tool.Kinds()) {
		t.Fatalf("not all tools enabled by default")
	}
	bad := 200.0
	if _, err := Merge(Defaults(), Overrides{ZoomMin: &bad}); !errors.Is(err, viewport.ErrInvalidBounds) {
		t.Fatalf("expected ErrInvalidBounds, got %v", err)
	}
}

func TestCombine(t *testing.T) {
	var file, flags Overrides
	_ = file.Set("url", "/a")
	_ = file.Set("tools.draw", "false")
	_ = flags.Set("url", "/b")
	_ = flags.Set("tools.pan", "false")
	got := Combine(file, flags)
	if *got.URL != "/b" || got.Tools[tool.Draw] || got.Tools[tool.Pan] {
		t.Fatalf("unexpected combine result %+v", got.Pairs())
	}
	if len(file.Tools) != 1 {
		t.Fatalf("Combine mutated its input: %v", file.Tools)
	}
}
