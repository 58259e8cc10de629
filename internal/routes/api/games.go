package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/reversi/internal/models"
	"github.com/lk16/reversi/internal/sessions"
)

func getManager(c *fiber.Ctx) *sessions.Manager {
	return c.Locals("manager").(*sessions.Manager) //nolint: errcheck
}

// sendError maps session errors to a status code.
func sendError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, sessions.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, sessions.ErrInvalidPlayer), errors.Is(err, sessions.ErrInvalidStart):
		status = fiber.StatusBadRequest
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// CreateGame starts a new game session.
func CreateGame(c *fiber.Ctx) error {
	var req models.CreateGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	session, err := getManager(c).Create(c.Context(), req)
	if err != nil {
		return sendError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(session.Response())
}

// ListGames returns the live game sessions.
func ListGames(c *fiber.Ctx) error {
	resp, err := getManager(c).List(c.Context())
	if err != nil {
		return sendError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetGame returns a single game session.
func GetGame(c *fiber.Ctx) error {
	session, err := getManager(c).Get(c.Params("id"))
	if err != nil {
		return sendError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(session.Response())
}

// SubmitMove plays a move for the human side to move.
func SubmitMove(c *fiber.Ctx) error {
	var req models.MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	pos, err := req.Position()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	state, accepted, err := getManager(c).Move(c.Params("id"), pos)
	if err != nil {
		return sendError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.MoveResponse{
		Accepted: accepted,
		State:    state,
	})
}

// DeleteGame stops a game session.
func DeleteGame(c *fiber.Ctx) error {
	if err := getManager(c).Delete(c.Context(), c.Params("id")); err != nil {
		return sendError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetStats returns statistics of finished games.
func GetStats(c *fiber.Ctx) error {
	manager := getManager(c)

	stats, err := manager.Stats(c.Context())
	if err != nil {
		return sendError(c, err)
	}

	recent, err := manager.RecentResults(c.Context())
	if err != nil {
		return sendError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.StatsResponse{
		Stats:  stats,
		Recent: recent,
	})
}

// PruneGames removes idle game sessions right away.
func PruneGames(c *fiber.Ctx) error {
	removed := getManager(c).Prune(c.Context())

	return c.Status(fiber.StatusOK).JSON(models.PruneResponse{
		Removed: removed,
	})
}
