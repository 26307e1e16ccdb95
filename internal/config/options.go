package config

import (
	"fmt"
	"image"
	"maps"
	"sort"
	"strconv"
	"strings"

	"github.com/example/photocanvas/internal/tool"
	"github.com/example/photocanvas/internal/viewport"
)

// Options is the resolved, read-only configuration of one editor. Build it
// with Merge; there are no setters.
type Options struct {
	popup    bool
	url      string
	saveURL  string
	theme    string
	tools    map[tool.Kind]bool
	zoom     viewport.Bounds
	artboard image.Point
	extra    map[string]string
}

// Defaults returns the stock editor options: every tool enabled, uploads
// to "upload.php" and zoom between 0.1x and 100x.
func Defaults() Options {
	tools := make(map[tool.Kind]bool)
	for _, k := range tool.Kinds() {
		tools[k] = true
	}
	return Options{
		url:   "upload.php",
		theme: "default",
		tools: tools,
		zoom:  viewport.DefaultBounds(),
	}
}

func (o Options) Popup() bool                 { return o.popup }
func (o Options) URL() string                 { return o.url }
func (o Options) Theme() string               { return o.theme }
func (o Options) ZoomBounds() viewport.Bounds { return o.zoom }

// SaveURL is the endpoint for Save. It falls back to URL.
func (o Options) SaveURL() string {
	if o.saveURL == "" {
		return o.url
	}
	return o.saveURL
}

// Artboard is the requested artboard size; a zero dimension means "use the
// host's measured size".
func (o Options) Artboard() image.Point { return o.artboard }

// ToolEnabled reports whether k is switched on.
func (o Options) ToolEnabled(k tool.Kind) bool { return o.tools[k] }

// EnabledTools lists the enabled tools in toolbar order.
func (o Options) EnabledTools() []tool.Kind {
	var out []tool.Kind
	for _, k := range tool.Kinds() {
		if o.tools[k] {
			out = append(out, k)
		}
	}
	return out
}

// Extra returns a copy of the keys Merge did not recognise.
func (o Options) Extra() map[string]string {
	out := make(map[string]string, len(o.extra))
	maps.Copy(out, o.extra)
	return out
}

// Overrides is a partial Options. Nil pointers and absent map keys leave
// the base value in place.
type Overrides struct {
	Popup   *bool
	URL     *string
	SaveURL *string
	Theme   *string
	Tools   map[tool.Kind]bool
	ZoomMin *float64
	ZoomMax *float64
	Width   *int
	Height  *int
	Extra   map[string]string
}

// Merge lays o over base field by field; the tools map is merged per key.
// The result shares no memory with either argument.
func Merge(base Options, o Overrides) (Options, error) {
	out := base
	out.tools = maps.Clone(base.tools)
	if out.tools == nil {
		out.tools = make(map[tool.Kind]bool)
	}
	out.extra = maps.Clone(base.extra)

	if o.Popup != nil {
		out.popup = *o.Popup
	}
	if o.URL != nil {
		out.url = *o.URL
	}
	if o.SaveURL != nil {
		out.saveURL = *o.SaveURL
	}
	if o.Theme != nil {
		out.theme = *o.Theme
	}
	for k, v := range o.Tools {
		out.tools[k] = v
	}
	if o.ZoomMin != nil {
		out.zoom.Min = *o.ZoomMin
	}
	if o.ZoomMax != nil {
		out.zoom.Max = *o.ZoomMax
	}
	if o.Width != nil {
		out.artboard.X = *o.Width
	}
	if o.Height != nil {
		out.artboard.Y = *o.Height
	}
	if len(o.Extra) > 0 && out.extra == nil {
		out.extra = make(map[string]string, len(o.Extra))
	}
	for k, v := range o.Extra {
		out.extra[k] = v
	}
	if err := out.zoom.Validate(); err != nil {
		return Options{}, fmt.Errorf("merge options: %w", err)
	}
	if out.artboard.X < 0 || out.artboard.Y < 0 {
		return Options{}, fmt.Errorf("merge options: negative artboard %v", out.artboard)
	}
	return out, nil
}

// Set records one dotted key, as used in the [editor] section and on the
// command line. Unknown keys, including unknown tool names, are kept in
// Extra.
func (o *Overrides) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	switch key {
	case "popup":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for key %s: %w", key, err)
		}
		o.Popup = &b
	case "url":
		o.URL = &value
	case "save_url":
		o.SaveURL = &value
	case "theme":
		o.Theme = &value
	case "zoom.min", "zoom.max":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
		if key == "zoom.min" {
			o.ZoomMin = &f
		} else {
			o.ZoomMax = &f
		}
	case "artboard.width", "artboard.height":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for key %s: %w", key, err)
		}
		if key == "artboard.width" {
			o.Width = &n
		} else {
			o.Height = &n
		}
	default:
		if name, ok := strings.CutPrefix(key, "tools."); ok {
			if k, err := tool.ParseKind(name); err == nil && k != tool.None {
				b, err := strconv.ParseBool(value)
				if err != nil {
					return fmt.Errorf("invalid boolean for key %s: %w", key, err)
				}
				if o.Tools == nil {
					o.Tools = make(map[tool.Kind]bool)
				}
				o.Tools[k] = b
				return nil
			}
		}
		if o.Extra == nil {
			o.Extra = make(map[string]string)
		}
		o.Extra[key] = value
	}
	return nil
}

// Pairs renders the overrides back into dotted keys, sorted.
func (o Overrides) Pairs() [][2]string {
	var out [][2]string
	add := func(k, v string) { out = append(out, [2]string{k, v}) }
	if o.Popup != nil {
		add("popup", strconv.FormatBool(*o.Popup))
	}
	if o.URL != nil {
		add("url", *o.URL)
	}
	if o.SaveURL != nil {
		add("save_url", *o.SaveURL)
	}
	if o.Theme != nil {
		add("theme", *o.Theme)
	}
	for _, k := range tool.Kinds() {
		if v, ok := o.Tools[k]; ok {
			add("tools."+k.String(), strconv.FormatBool(v))
		}
	}
	if o.ZoomMin != nil {
		add("zoom.min", strconv.FormatFloat(*o.ZoomMin, 'g', -1, 64))
	}
	if o.ZoomMax != nil {
		add("zoom.max", strconv.FormatFloat(*o.ZoomMax, 'g', -1, 64))
	}
	if o.Width != nil {
		add("artboard.width", strconv.Itoa(*o.Width))
	}
	if o.Height != nil {
		add("artboard.height", strconv.Itoa(*o.Height))
	}
	keys := make([]string, 0, len(o.Extra))
	for k := range o.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		add(k, o.Extra[k])
	}
	return out
}

// Combine lays b over a and returns the result; used to stack config file
// and command line overrides.
func Combine(a, b Overrides) Overrides {
	out := a
	out.Tools = maps.Clone(a.Tools)
	out.Extra = maps.Clone(a.Extra)
	for _, kv := range b.Pairs() {
		_ = out.Set(kv[0], kv[1])
	}
	return out
}
