// Package http exposes the board operations as a JSON HTTP API.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"k8s.io/utils/clock"

	"github.com/slok/staffboard/internal/conventions"
	"github.com/slok/staffboard/internal/log"
)

// ServerConfig is the HTTP server configuration.
type ServerConfig struct {
	Board         Board
	ListenAddress string
	// RateLimitPerMinute is the number of requests allowed per client IP and minute, 0 disables it.
	RateLimitPerMinute int
	ShutdownTimeout    time.Duration
	Clock              clock.PassiveClock
	Logger             log.Logger
}

func (c *ServerConfig) defaults() error {
	if c.Board == nil {
		return fmt.Errorf("board is required")
	}

	if c.ListenAddress == "" {
		c.ListenAddress = conventions.DefaultListenAddress
	}

	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("rate limit can't be negative")
	}

	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}

	if c.Clock == nil {
		c.Clock = clock.RealClock{}
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "http.Server"})

	return nil
}

// Server is the board HTTP API server.
type Server struct {
	e               *echo.Echo
	listenAddress   string
	shutdownTimeout time.Duration
	logger          log.Logger
}

// NewServer returns a new HTTP server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	Register(e, NewHandler(cfg.Board, cfg.Logger), cfg.RateLimitPerMinute, cfg.Clock)

	return &Server{
		e:               e,
		listenAddress:   cfg.ListenAddress,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          cfg.Logger,
	}, nil
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler { return s.e }

// Run serves the API until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errC := make(chan error, 1)
	go func() {
		s.logger.Infof("HTTP server listening on %s", s.listenAddress)
		errC <- s.e.Start(s.listenAddress)
	}()

	select {
	case err := <-errC:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("could not shut down http server: %w", err)
	}
	s.logger.Infof("HTTP server stopped")

	return nil
}
