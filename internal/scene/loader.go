package scene

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedSource is returned for image sources the loader cannot read.
var ErrUnsupportedSource = errors.New("unsupported image source")

// ErrTooLarge is returned for sources bigger than the loader's MaxBytes.
var ErrTooLarge = errors.New("image too large")

const defaultMaxBytes = 64 << 20

// Loader materialises images from a source string. Recognised sources are
// http(s) URLs, data URLs, "clipboard:", "screen:" and file paths.
// Relative paths are taken from Dir.
type Loader struct {
	Client    *http.Client
	Dir       string
	Clipboard func() ([]byte, error)
	Screen    func() (image.Image, error)
	MaxBytes  int64
}

// Load reads src and returns it as an RGBA image with a zero origin.
func (l *Loader) Load(ctx context.Context, src string) (*image.RGBA, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("load: %w: empty", ErrUnsupportedSource)
	}
	switch {
	case strings.HasPrefix(src, "data:"):
		data, err := decodeDataURL(src)
		if err != nil {
			return nil, err
		}
		return decode(data, "data url")
	case src == "clipboard:":
		if l.Clipboard == nil {
			return nil, fmt.Errorf("load clipboard: %w", ErrUnsupportedSource)
		}
		data, err := l.Clipboard()
		if err != nil {
			return nil, fmt.Errorf("load clipboard: %w", err)
		}
		return decode(data, "clipboard")
	case src == "screen:":
		if l.Screen == nil {
			return nil, fmt.Errorf("load screen: %w", ErrUnsupportedSource)
		}
		img, err := l.Screen()
		if err != nil {
			return nil, fmt.Errorf("load screen: %w", err)
		}
		return toRGBA(img), nil
	}
	if u, err := url.Parse(src); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return l.fetch(ctx, u.String())
	}
	return l.open(src)
}

func (l *Loader) limit() int64 {
	if l.MaxBytes > 0 {
		return l.MaxBytes
	}
	return defaultMaxBytes
}

// readLimited reads r whole, failing with ErrTooLarge past the limit.
func (l *Loader) readLimited(r io.Reader, name string) ([]byte, error) {
	limit := l.limit()
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("load %s: %w: exceeds %d bytes", name, ErrTooLarge, limit)
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context, u string) (*image.RGBA, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", u, err)
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("load %s: %s", u, resp.Status)
	}
	data, err := l.readLimited(resp.Body, u)
	if err != nil {
		return nil, err
	}
	return decode(data, u)
}

func (l *Loader) open(path string) (*image.RGBA, error) {
	path = strings.TrimPrefix(path, "file://")
	if !filepath.IsAbs(path) && l.Dir != "" {
		path = filepath.Join(l.Dir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	defer f.Close()
	data, err := l.readLimited(f, path)
	if err != nil {
		return nil, err
	}
	return decode(data, path)
}

// Resolve joins a server-relative identifier onto base the way a browser
// resolves a relative link.
func Resolve(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", base, err)
	}
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", ref, err)
	}
	return b.ResolveReference(r).String(), nil
}

func decodeDataURL(src string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("data url: missing payload")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("data url: %w: only base64 payloads are supported", ErrUnsupportedSource)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("data url: %w", err)
	}
	return data, nil
}

func decode(data []byte, name string) (*image.RGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return toRGBA(img), nil
}

func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
