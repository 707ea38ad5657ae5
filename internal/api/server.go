// Package api serves the latest poll results over HTTP.
package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/waabox/devopswatch/internal/domain"
	"github.com/waabox/devopswatch/internal/poller"
)

// Refresher triggers an immediate poll.
type Refresher interface {
	PollOnce(ctx context.Context) []domain.Snapshot
}

// Server exposes systems and their snapshots.
type Server struct {
	app     *fiber.App
	systems []domain.DevOpsSystem
	store   *poller.SnapshotStore
	refresh Refresher
	logger  zerolog.Logger
}

// NewServer creates the HTTP server. refresh may be nil, which disables POST /api/v1/refresh.
func NewServer(systems []domain.DevOpsSystem, store *poller.SnapshotStore, refresh Refresher, logger zerolog.Logger) *Server {
	s := &Server{
		systems: systems,
		store:   store,
		refresh: refresh,
		logger:  logger,
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "devopswatch",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.setupRoutes()
	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) setupRoutes() {
	s.app.Use(recover.New())
	s.app.Use(s.logRequests)

	s.app.Get("/healthz", s.health)

	api := s.app.Group("/api/v1")
	api.Get("/systems", s.listSystems)
	api.Get("/statuses", s.listStatuses)
	api.Get("/systems/:id/statuses", s.systemStatuses)
	if s.refresh != nil {
		api.Post("/refresh", s.triggerRefresh)
	}
}

// Listen serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Listen(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.app.Listen(addr) }()
	s.logger.Info().Str("addr", addr).Msg("http api listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.app.ShutdownWithTimeout(5 * time.Second)
	}
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Debug().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Dur("took", time.Since(start)).
		Msg("http request")
	return err
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
