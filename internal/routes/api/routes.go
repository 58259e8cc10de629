package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lk16/reversi/internal/middleware"
)

// SetupRoutes sets up the API routes.
func SetupRoutes(app *fiber.App) {
	apiGroup := app.Group("/api")

	// Game routes
	apiGroup.Post("/games", CreateGame)
	apiGroup.Get("/games", ListGames)
	apiGroup.Get("/games/:id", GetGame)
	apiGroup.Post("/games/:id/moves", SubmitMove)
	apiGroup.Delete("/games/:id", DeleteGame)

	// Result routes
	apiGroup.Get("/stats", GetStats)

	// Admin routes
	adminGroup := apiGroup.Group("/admin", middleware.BasicAuth())
	adminGroup.Post("/prune", PruneGames)
}
