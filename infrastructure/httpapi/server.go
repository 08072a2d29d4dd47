package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ytmp3/domain/media"
	"ytmp3/infrastructure/logging"

	"github.com/apex/log"
	"golang.org/x/time/rate"
)

// DefaultVersion is reported by the index route when none is configured
const DefaultVersion = "1.0"

// Downloader produces an MP3 for a request. *download.Service satisfies it.
type Downloader interface {
	Download(ctx context.Context, req *media.DownloadRequest) (*media.Result, error)
}

// Server is the HTTP front end. It holds no per-request state; each
// download owns its own scratch directory.
type Server struct {
	downloader Downloader
	logger     log.Interface
	scratchDir string
	limiter    *rate.Limiter
	version    string
}

// Option is a functional option for configuring Server
type Option func(*Server)

// WithLogger sets the logger
func WithLogger(l log.Interface) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithScratchDirectory sets the base directory for per-request scratch directories
func WithScratchDirectory(dir string) Option {
	return func(s *Server) {
		s.scratchDir = dir
	}
}

// WithRateLimit limits /download to rps requests per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithVersion sets the version reported by the index route
func WithVersion(v string) Option {
	return func(s *Server) {
		if v != "" {
			s.version = v
		}
	}
}

// New creates a new Server
func New(downloader Downloader, opts ...Option) *Server {
	s := &Server{
		downloader: downloader,
		logger:     logging.Discard(),
		version:    DefaultVersion,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.Handle("GET /download", s.rateLimit(http.HandlerFunc(s.handleDownload)))
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.requestLogger(s.recoverer(mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully, waiting up to shutdownTimeout for in-flight downloads.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
