package config

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/example/photocanvas/internal/theme"
)

type yamlFile struct {
	Theme     string                       `yaml:"theme"`
	UploadDir string                       `yaml:"upload_dir"`
	Listen    string                       `yaml:"listen"`
	Notify    Notify                       `yaml:"notify"`
	Editor    yamlEditor                   `yaml:"editor"`
	Themes    map[string]map[string]string `yaml:"themes"`
}

type yamlEditor struct {
	Popup    *bool           `yaml:"popup"`
	URL      *string         `yaml:"url"`
	SaveURL  *string         `yaml:"save_url"`
	Theme    *string         `yaml:"theme"`
	Tools    map[string]bool `yaml:"tools"`
	Zoom     yamlZoom        `yaml:"zoom"`
	Artboard yamlArtboard    `yaml:"artboard"`
	Extra    map[string]any  `yaml:",inline"`
}

type yamlZoom struct {
	Min *float64 `yaml:"min"`
	Max *float64 `yaml:"max"`
}

type yamlArtboard struct {
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

// ParseYAML reads the YAML form of the configuration.
func ParseYAML(r io.Reader) (*Config, error) {
	var f yamlFile
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("yaml config: %w", err)
	}

	cfg := New()
	if f.Theme != "" {
		cfg.Theme = f.Theme
	}
	if f.UploadDir != "" {
		cfg.UploadDir = f.UploadDir
	}
	if f.Listen != "" {
		cfg.Listen = f.Listen
	}
	cfg.Notify = f.Notify

	e := f.Editor
	cfg.Editor = Overrides{
		Popup:   e.Popup,
		URL:     e.URL,
		SaveURL: e.SaveURL,
		Theme:   e.Theme,
		ZoomMin: e.Zoom.Min,
		ZoomMax: e.Zoom.Max,
		Width:   e.Artboard.Width,
		Height:  e.Artboard.Height,
	}
	names := make([]string, 0, len(e.Tools))
	for name := range e.Tools {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := cfg.Editor.Set("tools."+name, strconv.FormatBool(e.Tools[name])); err != nil {
			return nil, fmt.Errorf("yaml config: %w", err)
		}
	}
	for k, v := range e.Extra {
		if err := cfg.Editor.Set(k, fmt.Sprint(v)); err != nil {
			return nil, fmt.Errorf("yaml config: %w", err)
		}
	}

	for name, fields := range f.Themes {
		t := theme.Default()
		t.Name = name
		for k, v := range fields {
			if err := theme.Set(t, k, v); err != nil {
				return nil, fmt.Errorf("yaml config theme %s: %w", name, err)
			}
		}
		cfg.Themes[name] = t
	}
	return cfg, nil
}
