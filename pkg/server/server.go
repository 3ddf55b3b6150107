// Package server exposes the solids over HTTP: the static frontend, a
// JSON API for schemas, calculations and posed meshes, rendered images
// and saved presets.
package server

import (
	"context"
	"time"

	"github.com/chazu/jaring/pkg/config"
	"github.com/chazu/jaring/pkg/formula"
	"github.com/chazu/jaring/pkg/presets"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/static"
)

// Server owns the fiber app.
type Server struct {
	app    *fiber.App
	cfg    *config.Config
	store  *presets.Store
	policy formula.PrismPolicy
}

// New builds the server. store may be nil, in which case the preset
// routes answer 503.
func New(cfg *config.Config, store *presets.Store) *Server {
	s := &Server{
		cfg:    cfg,
		store:  store,
		policy: cfg.PrismPolicy(),
	}
	s.app = fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		AppName:      cfg.Server.AppName,
	})
	s.routes()
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on the configured port until Shutdown.
func (s *Server) Listen() error {
	return s.app.Listen(":" + s.cfg.Server.Port)
}

// Shutdown stops the server, waiting for in-flight requests until ctx
// expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) routes() {
	app := s.app

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(requestLogger())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})
	app.Get("/health/ready", s.ready)

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api")
	api.Get("/shapes", s.listShapes)
	api.Get("/shapes/:type", s.getShape)
	api.Get("/shapes/:type/rig", s.getRig)
	api.Post("/calc", s.calculate)
	api.Get("/frame", s.frame)
	api.Get("/render.png", s.renderPNG)
	api.Get("/profile.png", s.profilePNG)

	api.Get("/presets", s.listPresets)
	api.Post("/presets", s.createPreset)
	api.Get("/presets/:id", s.getPreset)
	api.Delete("/presets/:id", s.deletePreset)

	// ============================================================
	// Static Frontend
	// ============================================================

	app.Get("/*", static.New(s.cfg.Server.StaticDir))
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).SendString("404 Not Found")
	})
}

// requestLogger logs one line per request.
func requestLogger() fiber.Handler {
	return logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	})
}

func (s *Server) ready(c fiber.Ctx) error {
	if s.store != nil {
		if err := s.store.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "error": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"status": "ready"})
}
