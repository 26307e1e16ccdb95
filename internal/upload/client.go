// Package upload is the client side of the upload widget: it posts files
// to the receiver with progress reporting and posts saved artboards.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ErrUnsupportedType is reported when the receiver accepts the request but
// returns no identifier.
var ErrUnsupportedType = errors.New("unsupported file type")

// ErrNoIdentifier is returned when the save endpoint accepts the artboard
// but replies with an empty body.
var ErrNoIdentifier = errors.New("receiver returned no identifier")

// DefaultTimeout bounds a single request.
var DefaultTimeout = 60 * time.Second

// FileField and SaveField are the form field names of the two endpoints.
const (
	FileField = "file"
	SaveField = "image"
)

// Events receives the outcome of each submitted file.
type Events interface {
	Progress(percent int)
	Succeeded(id string)
	Failed(reason string)
}

// File is one file to upload.
type File struct {
	Name string
	Data []byte
}

// ReadFile loads path into a File named after its base name.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	return File{Name: filepath.Base(path), Data: data}, nil
}

// Client posts to an upload receiver.
type Client struct {
	URL     string
	SaveURL string
	HTTP    *http.Client
}

func (c *Client) client() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// Submit uploads files one request each, in order. Every file ends in
// exactly one Succeeded or Failed event. The returned error joins the
// failures.
func (c *Client) Submit(ctx context.Context, files []File, ev Events) error {
	var errs []error
	for _, f := range files {
		id, err := c.send(ctx, f, ev)
		if err != nil {
			ev.Failed(err.Error())
			errs = append(errs, fmt.Errorf("upload %s: %w", f.Name, err))
			continue
		}
		ev.Succeeded(id)
	}
	return errors.Join(errs...)
}

func (c *Client) send(ctx context.Context, f File, ev Events) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(FileField, f.Name)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(f.Data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()
	pr := &progressReader{r: bytes.NewReader(body.Bytes()), total: int64(body.Len()), report: ev.Progress, last: -1}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, pr)
	if err != nil {
		return "", err
	}
	req.ContentLength = int64(body.Len())
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("POST %s: %s (%d)", c.URL, strings.TrimSpace(string(b)), resp.StatusCode)
	}
	id := strings.TrimSpace(string(b))
	if id == "" {
		return "", ErrUnsupportedType
	}
	pr.finish()
	return id, nil
}

// Save posts a data URL under the image form field and returns the
// identifier the receiver replies with. An empty reply is ErrNoIdentifier.
func (c *Client) Save(ctx context.Context, dataURL string) (string, error) {
	target := c.SaveURL
	if target == "" {
		target = c.URL
	}
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()
	form := url.Values{SaveField: {dataURL}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("save: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("save: %w", err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", fmt.Errorf("save: read reply: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("save: POST %s: %s (%d)", target, strings.TrimSpace(string(b)), resp.StatusCode)
	}
	id := strings.TrimSpace(string(b))
	if id == "" {
		return "", fmt.Errorf("save: POST %s: %w", target, ErrNoIdentifier)
	}
	return id, nil
}

// progressReader reports whole-percent progress as the transport drains
// the request body.
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	report func(int)

	mu   sync.Mutex
	last int
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.total > 0 {
		p.emit(int(p.read * 100 / p.total))
	}
	return n, err
}

func (p *progressReader) finish() { p.emit(100) }

func (p *progressReader) emit(pct int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pct > p.last && p.report != nil {
		p.last = pct
		p.report(pct)
	}
}
