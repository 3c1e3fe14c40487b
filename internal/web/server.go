// Package web serves the NephroList upload page: upload a PDF, see the
// clinical fields, download them as CSV.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/a3tai/nephrolist-reader/internal/config"
	"github.com/a3tai/nephrolist-reader/internal/intake"
	"github.com/a3tai/nephrolist-reader/internal/record"
	"github.com/a3tai/nephrolist-reader/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Server hosts the upload page.
type Server struct {
	config   *config.Config
	source   record.RecordSource
	gate     *intake.Gate
	sessions *session.Store
	page     *template.Template
}

// NewServer creates the web server. Nothing listens until Run is called.
func NewServer(cfg *config.Config, source record.RecordSource) (*Server, error) {
	if source == nil {
		return nil, fmt.Errorf("record source cannot be nil")
	}

	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	return &Server{
		config:   cfg,
		source:   source,
		gate:     intake.NewGate(cfg.MaxFileSize),
		sessions: session.NewStore(cfg.MaxSessions, cfg.SessionTTL),
		page:     page,
	}, nil
}

// Handler returns the routed handler with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("GET /download", s.handleDownload)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return logRequests(mux)
}

// Run listens on the configured address until ctx is canceled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Address(), err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("NephroList reader listening on http://%s", listener.Addr())
		errCh <- httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Sessions exposes the session store.
func (s *Server) Sessions() *session.Store {
	return s.sessions
}
