package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"scrim-stats-system/handlers"
	"scrim-stats-system/models"
	"scrim-stats-system/services"
	"scrim-stats-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB, stat payloads are small
	})

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Team{},
		&models.Player{},
		&models.PlayerAlias{},
		&models.PlayerTeamHistory{},
		&models.Hero{},
		&models.ScrimGroup{},
		&models.Match{},
		&models.PlayerMatchStat{},
		&models.MatchAward{},
		&models.MatchEditHistory{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	playerService := services.NewPlayerService(db)
	teamService := services.NewTeamService(db, playerService)
	groupService := services.NewScrimGroupService(db)
	awardService := services.NewAwardService(db)
	heroService := services.NewHeroService(db)
	historyService := services.NewEditHistoryService(db)
	statsService := services.NewStatisticsService(db)
	matchService := services.NewMatchService(db, playerService, groupService, awardService, heroService, historyService)
	historyService.Matches = matchService

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	integrityWorker := workers.NewGroupIntegrityWorker(db, groupService)
	go workers.PollScrimGroups(ctx, integrityWorker, 5*time.Minute)

	matchService.StartRecomputeScheduler()

	handlers.SetupTeamRoutes(app, teamService, statsService)
	handlers.SetupPlayerRoutes(app, playerService, awardService, statsService)
	handlers.SetupMatchRoutes(app, matchService, awardService, historyService)
	handlers.SetupScrimGroupRoutes(app, groupService, statsService)
	handlers.SetupHeroRoutes(app, heroService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Scrim group integrity worker running (every 5m)")
	log.Println("✅ Recompute scheduler running (every 15m)")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
