package services

import (
	"errors"
	"log"
	"strings"

	"scrim-stats-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HeroService maintains the hero reference table. Stat rows reference heroes
// by id; free-text hero names only exist at the submission boundary.
type HeroService struct {
	DB *gorm.DB
}

func NewHeroService(db *gorm.DB) *HeroService {
	return &HeroService{DB: db}
}

// GetOrCreateByName looks a hero up case-insensitively, creating it on first
// sight so stat submission never blocks on reference data.
func (s *HeroService) GetOrCreateByName(name string) (*models.Hero, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("hero name is empty")
	}

	var hero models.Hero
	err := s.DB.Where("LOWER(name) = LOWER(?)", name).First(&hero).Error
	if err == nil {
		return &hero, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hero = models.Hero{ID: uuid.NewString(), Name: name}
	if err := s.DB.Create(&hero).Error; err != nil {
		return nil, err
	}
	log.Printf("🦸 [Heroes] Created hero %q (%s)", hero.Name, hero.ID)
	return &hero, nil
}

// --- HTTP surface ---

func (s *HeroService) ListHeroes(c *fiber.Ctx) error {
	var heroes []models.Hero
	query := s.DB.Order("name ASC")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if err := query.Find(&heroes).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch heroes"})
	}
	return c.JSON(heroes)
}

func (s *HeroService) CreateHero(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
		Role string `json:"role,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	hero, err := s.GetOrCreateByName(req.Name)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Role != "" && hero.Role != req.Role {
		if err := s.DB.Model(hero).Update("role", req.Role).Error; err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to update hero role"})
		}
		hero.Role = req.Role
	}
	return c.Status(201).JSON(hero)
}

// PopularHeroes ranks heroes by pick count across all recorded stats.
func (s *HeroService) PopularHeroes(c *fiber.Ctx) error {
	type heroPick struct {
		HeroID string  `json:"hero_id"`
		Name   string  `json:"name"`
		Picks  int64   `json:"picks"`
		AvgKDA float64 `json:"avg_kda"`
	}
	var picks []heroPick
	err := s.DB.Model(&models.PlayerMatchStat{}).
		Select("heroes.id AS hero_id, heroes.name AS name, COUNT(*) AS picks, AVG(player_match_stats.computed_kda) AS avg_kda").
		Joins("JOIN heroes ON heroes.id = player_match_stats.hero_id").
		Group("heroes.id, heroes.name").
		Order("picks DESC").
		Limit(20).
		Scan(&picks).Error
	if err != nil {
		log.Printf("ERROR fetching popular heroes: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch hero picks"})
	}
	return c.JSON(picks)
}
