// Package config loads PhotoCanvas settings from an RC or YAML file and
// resolves per-editor Options.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/photocanvas/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Save   bool
	Upload bool
	Copy   bool
}

// Config holds the application configuration.
type Config struct {
	Theme     string
	UploadDir string
	Listen    string
	Notify    Notify
	Editor    Overrides
	Themes    map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		UploadDir: "tmp",
		Listen:    "127.0.0.1:8080",
		Themes:    make(map[string]*theme.Theme),
	}
}

// Options merges the editor section of the configuration over Defaults.
// The root theme applies when the editor section does not name one.
func (c *Config) Options() (Options, error) {
	base := Defaults()
	ov := c.Editor
	if ov.Theme == nil && c.Theme != "" {
		t := c.Theme
		ov.Theme = &t
	}
	return Merge(base, ov)
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.UploadDir != "" {
		fmt.Fprintf(&sb, "upload_dir = %s\n", c.UploadDir)
	}
	if c.Listen != "" {
		fmt.Fprintf(&sb, "listen = %s\n", c.Listen)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "upload = %v\n", c.Notify.Upload)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	if pairs := c.Editor.Pairs(); len(pairs) > 0 {
		sb.WriteString("[editor]\n")
		for _, kv := range pairs {
			fmt.Fprintf(&sb, "%s = %s\n", kv[0], kv[1])
		}
		sb.WriteString("\n")
	}

	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)
	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range theme.Fields(t) {
			fmt.Fprintf(&sb, "%s: %s\n", f.Name, theme.Hex(f.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
