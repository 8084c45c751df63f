package handlers

import (
	"scrim-stats-system/middleware"
	"scrim-stats-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTeamRoutes(app *fiber.App, teamService *services.TeamService, statsService *services.StatisticsService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/teams", teamService.CreateTeam)
	secured.Get("/teams", teamService.GetAllTeams)
	secured.Get("/teams/:id", teamService.GetTeamByID)
	secured.Put("/teams/:id", teamService.UpdateTeam)

	secured.Get("/teams/:id/roster", teamService.GetRoster)
	secured.Post("/teams/:id/players", teamService.AddPlayerToTeam)
	secured.Get("/teams/:id/statistics", statsService.GetTeamStatistics)
}
