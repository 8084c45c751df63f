package handlers

import (
	"scrim-stats-system/middleware"
	"scrim-stats-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupHeroRoutes(app *fiber.App, heroService *services.HeroService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/heroes", heroService.ListHeroes)
	secured.Post("/heroes", heroService.CreateHero)
	secured.Get("/heroes/popular", heroService.PopularHeroes)
}
