package handlers

import (
	"scrim-stats-system/middleware"
	"scrim-stats-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMatchRoutes(app *fiber.App, matchService *services.MatchService, awardService *services.AwardService, historyService *services.EditHistoryService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	// Match CRUD
	secured.Post("/matches", matchService.CreateMatch)
	secured.Get("/matches", matchService.GetAllMatches)
	secured.Get("/matches/:id", matchService.GetMatchByID)
	secured.Put("/matches/:id", matchService.UpdateMatch)
	secured.Get("/matches/:id/summary", matchService.GetMatchSummary)

	// Stat submission with identity verification
	secured.Post("/matches/:id/stats/verify", matchService.VerifyMatchStats)
	secured.Put("/matches/:id/stats/verify", matchService.SubmitVerifiedStats)
	secured.Put("/matches/:id/stats", matchService.ReplaceMatchStats)
	secured.Put("/stats/:id", matchService.UpdateStat)

	// Derived data
	secured.Post("/matches/:id/recompute", matchService.RecomputeMatch)
	secured.Get("/matches/:id/awards", awardService.GetMatchAwards)

	// Edit ledger
	secured.Get("/matches/:id/history", historyService.ListHistory)
	secured.Post("/history/:entry_id/restore", historyService.RestoreEndpoint)
}
