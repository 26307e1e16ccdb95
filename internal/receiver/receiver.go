// Package receiver is the server side of uploads: it stores whitelisted
// image files under randomised names and accepts saved artboards.
package receiver

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"image/png"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/example/photocanvas/internal/upload"
)

// DefaultMaxBytes caps a single request body.
const DefaultMaxBytes = 32 << 20

var allowed = map[string]bool{"jpg": true, "jpeg": true, "png": true, "gif": true}

// Allowed reports whether a filename's extension is accepted.
func Allowed(name string) bool {
	return allowed[strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))]
}

// Server stores uploads in Dir and answers with identifiers relative to
// the upload URL, "tmp/<random>.<ext>".
type Server struct {
	Dir      string
	Prefix   string
	MaxBytes int64
	Rand     io.Reader
	// OnStored, when set, is called with the identifier of every stored file.
	OnStored func(id string)
}

// New returns a Server writing into dir.
func New(dir string) *Server {
	return &Server{Dir: dir, Prefix: "tmp"}
}

// Handler routes POST /upload, POST /save and GET /<prefix>/.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", s.Upload)
	mux.HandleFunc("POST /save", s.Save)
	mux.Handle("GET /"+s.prefix()+"/", http.StripPrefix("/"+s.prefix()+"/", http.FileServer(http.Dir(s.Dir))))
	return mux
}

func (s *Server) prefix() string {
	if s.Prefix == "" {
		return "tmp"
	}
	return strings.Trim(s.Prefix, "/")
}

func (s *Server) maxBytes() int64 {
	if s.MaxBytes > 0 {
		return s.MaxBytes
	}
	return DefaultMaxBytes
}

// Upload stores the multipart "file" part. Files with other extensions are
// dropped without writing anything and get an empty 200 reply.
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes())
	f, hdr, err := r.FormFile(upload.FileField)
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer f.Close()
	if !Allowed(hdr.Filename) {
		log.Printf("receiver: rejected %q", hdr.Filename)
		return
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(hdr.Filename), "."))
	id, err := s.store(f, ext)
	if err != nil {
		log.Printf("receiver: store %q: %v", hdr.Filename, err)
		http.Error(w, "store failed", http.StatusInternalServerError)
		return
	}
	io.WriteString(w, id)
}

// Save stores the PNG data URL posted in the "image" form field.
func (s *Server) Save(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes())
	data, err := decodePNGDataURL(r.FormValue(upload.SaveField))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id, err := s.store(bytes.NewReader(data), "png")
	if err != nil {
		log.Printf("receiver: save: %v", err)
		http.Error(w, "store failed", http.StatusInternalServerError)
		return
	}
	io.WriteString(w, id)
}

func (s *Server) store(src io.Reader, ext string) (string, error) {
	name, err := s.randomName(ext)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	dst, err := os.OpenFile(filepath.Join(s.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	id := path.Join(s.prefix(), name)
	if s.OnStored != nil {
		s.OnStored(id)
	}
	return id, nil
}

func (s *Server) randomName(ext string) (string, error) {
	src := s.Rand
	if src == nil {
		src = rand.Reader
	}
	var b [16]byte
	if _, err := io.ReadFull(src, b[:]); err != nil {
		return "", fmt.Errorf("random name: %w", err)
	}
	return hex.EncodeToString(b[:]) + "." + ext, nil
}

func decodePNGDataURL(v string) ([]byte, error) {
	payload, ok := strings.CutPrefix(v, "data:image/png;base64,")
	if !ok {
		return nil, errors.New("expected a PNG data URL")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("data url: %w", err)
	}
	if _, err := png.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("data url: %w", err)
	}
	return data, nil
}
