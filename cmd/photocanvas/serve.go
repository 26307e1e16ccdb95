package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/example/photocanvas/internal/receiver"
)

type serveCmd struct {
	command
	listen string
	dir    string
}

func parseServeCmd(args []string, r *root) (*serveCmd, error) {
	s := &serveCmd{command: newCommand(r, "serve")}
	listen, dir := "127.0.0.1:8080", "tmp"
	if r != nil && r.config != nil {
		listen, dir = r.config.Listen, r.config.UploadDir
	}
	s.fs.StringVar(&s.listen, "listen", listen, "address to listen on")
	s.fs.StringVar(&s.dir, "dir", dir, "directory uploads are stored in")
	s.fs.Usage = usageFunc(s)
	if err := s.fs.Parse(args); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *serveCmd) handler() http.Handler {
	recv := receiver.New(s.dir)
	if s.root != nil && s.notifier != nil {
		recv.OnStored = s.notifier.Upload
	}
	return recv.Handler()
}

func (s *serveCmd) Run() error {
	srv := &http.Server{Addr: s.listen, Handler: s.handler(), ReadHeaderTimeout: 10 * time.Second}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			log.Printf("serve: shutdown: %v", err)
		}
	}()
	log.Printf("serve: listening on %s, storing uploads in %s", s.listen, s.dir)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
