package services

import (
	"errors"
	"log"

	"scrim-stats-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamService handles team CRUD and roster management.
type TeamService struct {
	DB      *gorm.DB
	Players *PlayerService
}

func NewTeamService(db *gorm.DB, players *PlayerService) *TeamService {
	return &TeamService{DB: db, Players: players}
}

func (s *TeamService) CreateTeam(c *fiber.Ctx) error {
	var req struct {
		TeamName         string `json:"team_name"`
		TeamAbbreviation string `json:"team_abbreviation"`
		TeamCategory     string `json:"team_category"`
		IsOpponentOnly   bool   `json:"is_opponent_only"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.TeamName == "" || req.TeamAbbreviation == "" {
		return c.Status(400).JSON(fiber.Map{"error": "team_name and team_abbreviation are required"})
	}

	team := models.Team{
		ID:               uuid.NewString(),
		TeamName:         req.TeamName,
		TeamAbbreviation: req.TeamAbbreviation,
		TeamCategory:     req.TeamCategory,
		IsOpponentOnly:   req.IsOpponentOnly,
	}
	if err := s.DB.Create(&team).Error; err != nil {
		log.Printf("ERROR creating team: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "DB insert failed"})
	}
	return c.Status(201).JSON(team)
}

func (s *TeamService) GetAllTeams(c *fiber.Ctx) error {
	var teams []models.Team
	if err := s.DB.Order("team_name ASC").Find(&teams).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch teams"})
	}
	return c.JSON(teams)
}

func (s *TeamService) GetTeamByID(c *fiber.Ctx) error {
	var team models.Team
	err := s.DB.First(&team, "id = ?", c.Params("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "team not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(team)
}

func (s *TeamService) UpdateTeam(c *fiber.Ctx) error {
	var team models.Team
	if err := s.DB.First(&team, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "team not found"})
	}

	var req map[string]interface{}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	allowed := map[string]bool{
		"team_name": true, "team_abbreviation": true,
		"team_category": true, "is_opponent_only": true,
	}
	updates := map[string]interface{}{}
	for k, v := range req {
		if allowed[k] {
			updates[k] = v
		}
	}
	if len(updates) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "no updatable fields supplied"})
	}
	if err := s.DB.Model(&team).Updates(updates).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update team"})
	}
	return c.JSON(team)
}

// GetRoster lists the team's current players (open memberships only).
func (s *TeamService) GetRoster(c *fiber.Ctx) error {
	teamID := c.Params("id")

	var team models.Team
	if err := s.DB.First(&team, "id = ?", teamID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "team not found"})
	}

	var memberships []models.PlayerTeamHistory
	err := s.DB.Preload("Player.Aliases").
		Where("team_id = ? AND left_date IS NULL", teamID).
		Order("joined_date ASC").
		Find(&memberships).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch roster"})
	}

	type rosterEntry struct {
		Player     models.Player `json:"player"`
		JoinedDate string        `json:"joined_date"`
		IsStarter  bool          `json:"is_starter"`
	}
	roster := make([]rosterEntry, 0, len(memberships))
	for _, m := range memberships {
		roster = append(roster, rosterEntry{
			Player:     m.Player,
			JoinedDate: m.JoinedDate.Format("2006-01-02"),
			IsStarter:  m.IsStarter,
		})
	}
	return c.JSON(fiber.Map{"team": team, "roster": roster})
}

// AddPlayerToTeam creates a player on the roster. The first player added for
// a given role becomes the starter for that role.
func (s *TeamService) AddPlayerToTeam(c *fiber.Ctx) error {
	teamID := c.Params("id")

	var team models.Team
	if err := s.DB.First(&team, "id = ?", teamID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "team not found"})
	}

	var req struct {
		IGN  string  `json:"ign"`
		Role *string `json:"primary_role,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.IGN == "" {
		return c.Status(400).JSON(fiber.Map{"error": "ign is required"})
	}

	player, created, err := s.Players.GetOrCreatePlayerForTeam(req.IGN, teamID, req.Role)
	if err != nil {
		log.Printf("ERROR adding player %q to team %s: %v", req.IGN, teamID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to add player"})
	}

	if created && req.Role != nil {
		// No existing starter for this role means the new player starts.
		var starters int64
		s.DB.Model(&models.PlayerTeamHistory{}).
			Joins("JOIN players ON players.id = player_team_histories.player_id").
			Where("player_team_histories.team_id = ? AND player_team_histories.left_date IS NULL", teamID).
			Where("player_team_histories.is_starter = ? AND players.primary_role = ?", true, *req.Role).
			Count(&starters)
		if starters == 0 {
			s.DB.Model(&models.PlayerTeamHistory{}).
				Where("player_id = ? AND team_id = ? AND left_date IS NULL", player.ID, teamID).
				Update("is_starter", true)
		}
	}

	status := 200
	if created {
		status = 201
	}
	return c.Status(status).JSON(fiber.Map{"player": player, "created": created})
}
