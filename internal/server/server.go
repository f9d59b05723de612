// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the project finder over HTTP.
package server

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/pdiddy/colab-finder/internal/logging"
	"github.com/pdiddy/colab-finder/pkg/types"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	// NotFoundMessage is returned when the finder exhausted its attempts.
	NotFoundMessage = "No suitable project was found. Please try again."

	// InternalErrorMessage is returned for any other failure.
	InternalErrorMessage = "An unexpected error occurred on the server."

	// RateLimitedMessage is returned when the inbound limiter rejects a request.
	RateLimitedMessage = "Too many requests. Please slow down."

	defaultShutdownTimeout = 15 * time.Second
)

// ProjectFinder looks up one project per call.
type ProjectFinder interface {
	FindProject(ctx context.Context) (*types.ProjectResult, error)
}

// Server serves the index page and the /find-project endpoint.
type Server struct {
	cfg     types.ServerConfig
	finder  ProjectFinder
	logger  *slog.Logger
	engine  *gin.Engine
	limiter *rate.Limiter
}

// New builds a server around finder. The gin mode is left to the caller.
func New(cfg types.ServerConfig, finder ProjectFinder, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parsing templates")
	}

	s := &Server{
		cfg:    cfg,
		finder: finder,
		logger: logger,
		engine: gin.New(),
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(float64(cfg.RateLimit)/60.0), cfg.RateLimit)
	}

	s.engine.SetHTMLTemplate(tmpl)
	s.engine.Use(s.requestID, s.recovery, s.accessLog)
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.engine.GET("/", s.index)
	s.engine.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	find := []gin.HandlerFunc{s.findProject}
	if s.limiter != nil {
		find = append([]gin.HandlerFunc{s.rateLimit}, find...)
	}
	s.engine.GET("/find-project", find...)
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", s.cfg.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	logger := logging.Named(s.logger, "server")
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening on http", slog.String("addr", ln.Addr().String()))
		if err := httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server")
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("shutting down server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server shutdown")
	}
	return nil
}
