package handlers

import (
	"scrim-stats-system/middleware"
	"scrim-stats-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupScrimGroupRoutes(app *fiber.App, groupService *services.ScrimGroupService, statsService *services.StatisticsService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/scrim-groups", groupService.GetAllScrimGroups)
	secured.Get("/scrim-groups/:id", groupService.GetScrimGroupByID)
	secured.Put("/scrim-groups/:id/notes", groupService.UpdateScrimGroupNotes)
	secured.Get("/scrim-groups/:id/standings", statsService.GetScrimGroupStandings)
}
