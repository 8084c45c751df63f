package handlers

import (
	"scrim-stats-system/middleware"
	"scrim-stats-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupPlayerRoutes(app *fiber.App, playerService *services.PlayerService, awardService *services.AwardService, statsService *services.StatisticsService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/players", playerService.GetAllPlayers)
	secured.Get("/players/:id", playerService.GetPlayerByID)
	secured.Get("/players/:id/statistics", statsService.GetPlayerStatistics)
	secured.Get("/players/:id/awards", awardService.GetPlayerAwards)

	// Identity resolution and verification decisions
	secured.Post("/players/resolve", playerService.ResolvePlayerEndpoint)
	secured.Post("/players/verify", playerService.ApplyDecisionEndpoint)

	// Identity maintenance
	secured.Post("/players/:id/transfer", playerService.TransferPlayerEndpoint)
	secured.Post("/players/:id/change-ign", playerService.ChangeIGNEndpoint)
}
