package ws

import (
	"log/slog"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/lk16/reversi/internal/sessions"
	"github.com/lk16/reversi/internal/ws"
)

func handleWs(c *websocket.Conn) {
	manager := c.Locals("manager").(*sessions.Manager) //nolint: errcheck
	session := c.Locals("session").(*sessions.Session) //nolint: errcheck

	h := ws.NewHandler(c, manager, session)
	err := h.Handle()
	if err != nil {
		slog.Debug("ws connection closed", "id", session.ID, "error", err)
	}
}

// upgrade rejects requests that are not websocket upgrades for a known session.
func upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	manager := c.Locals("manager").(*sessions.Manager) //nolint: errcheck

	session, err := manager.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Locals("session", session)
	return c.Next()
}

// SetupRoutes sets up the routes for the websocket.
func SetupRoutes(app *fiber.App) {
	app.Get("/ws/games/:id", upgrade, websocket.New(handleWs))
}
