package internal

import (
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/reversi/internal/config"
	"github.com/lk16/reversi/internal/middleware"
	"github.com/lk16/reversi/internal/repository"
	"github.com/lk16/reversi/internal/routes"
	"github.com/lk16/reversi/internal/services"
	"github.com/lk16/reversi/internal/sessions"
)

const (
	defaultConcurrency  = 256 * 1024 // Maximum number of concurrent connections per worker
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultIdleTimeout  = 5 * time.Second
	defaultBodyLimit    = 1024 * 1024 // 1MB
)

// App bundles the server with the resources it owns.
type App struct {
	Fiber    *fiber.App
	Config   *config.ServerConfig
	Manager  *sessions.Manager
	Services *services.Services
}

// Close stops all sessions and closes connections to external services.
func (a *App) Close() {
	a.Manager.Close()

	if err := a.Services.Close(); err != nil {
		slog.Error("Failed to close services", "error", err)
	}
}

func SetupApp() *App {
	// Load configuration
	cfg := config.LoadServerConfig()

	// Initialize services
	services, err := services.InitServices(cfg)
	if err != nil {
		slog.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	manager := sessions.NewManager(newRegistry(cfg, services), newResultStore(services), sessions.Config{
		MoveDelay:  cfg.MoveDelay,
		PassDelay:  cfg.PassDelay,
		SessionTTL: cfg.SessionTTL,
	})

	return &App{
		Fiber:    BuildApp(cfg, manager),
		Config:   cfg,
		Manager:  manager,
		Services: services,
	}
}

func newRegistry(cfg *config.ServerConfig, services *services.Services) sessions.Registry {
	if services.Redis == nil {
		slog.Warn("Redis is not configured, using in-memory session registry")
		return repository.NewMemorySessionRepository(cfg.SessionTTL)
	}
	return repository.NewSessionRepository(services.Redis, cfg.SessionTTL)
}

func newResultStore(services *services.Services) sessions.ResultStore {
	if services.Postgres == nil {
		slog.Warn("Postgres is not configured, results are kept in memory")
		return repository.NewMemoryResultRepository()
	}
	return repository.NewResultRepository(services.Postgres)
}

// BuildApp creates the Fiber app serving the sessions of manager.
func BuildApp(cfg *config.ServerConfig, manager *sessions.Manager) *fiber.App {
	// Create Fiber app
	app := fiber.New(fiber.Config{
		Concurrency:  defaultConcurrency,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
		BodyLimit:    defaultBodyLimit,
	})

	// Make the session manager and config available to handlers
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("manager", manager)
		c.Locals("config", cfg)
		return c.Next()
	})

	// Add logging middleware
	app.Use(middleware.Logging(os.Stdout))

	// Setup all routes
	routes.SetupRoutes(app)

	return app
}
