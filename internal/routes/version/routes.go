package version

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/reversi/internal/models"
	"github.com/lk16/reversi/internal/sessions"
)

// commit is the git commit the server was started from.
var commit = readCommit()

func readCommit() string {
	output, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(output))
}

func SetupRoutes(app *fiber.App) {
	versionGroup := app.Group("/version")
	versionGroup.Get("/", versionHandler)
}

// versionHandler reports the build and how many games this server hosts and finished.
func versionHandler(c *fiber.Ctx) error {
	manager := c.Locals("manager").(*sessions.Manager) //nolint: errcheck

	stats, err := manager.Stats(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(models.VersionResponse{
		Commit:         commit,
		GoVersion:      runtime.Version(),
		ActiveSessions: manager.Count(),
		FinishedGames:  stats.Games,
	})
}
