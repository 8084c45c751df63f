package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"scrim-stats-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Identity decision actions a caller may take on a verification result.
const (
	ActionCreateNew      = "create_new"
	ActionUseExisting    = "use_existing"
	ActionTransferPlayer = "transfer_player"
)

// PlayerService handles player identity: IGN resolution, aliases, renames
// and team transfers.
type PlayerService struct {
	DB *gorm.DB
}

func NewPlayerService(db *gorm.DB) *PlayerService {
	return &PlayerService{DB: db}
}

// PlayerCandidate is one possible identity for an unresolved IGN, shown to
// the human making the verification decision.
type PlayerCandidate struct {
	PlayerID    string `json:"player_id"`
	CurrentIGN  string `json:"current_ign"`
	PreviousIGN string `json:"previous_ign,omitempty"`
	TeamID      string `json:"team_id,omitempty"`
	TeamName    string `json:"team_name,omitempty"`
	MatchType   string `json:"match_type"` // "alias" or "other_team"
}

// PlayerResolution is the outcome of resolving an IGN against a team:
// either an unambiguous player, a directive to create a brand-new one, or a
// needs-verification result carrying candidates and the allowed actions.
// Ambiguity is never resolved silently — a wrong automatic choice would
// corrupt historical stats.
type PlayerResolution struct {
	Resolved          bool               `json:"resolved"`
	Player            *models.Player     `json:"player,omitempty"`
	NeedsVerification bool               `json:"needs_verification,omitempty"`
	NewPlayer         bool               `json:"new_player,omitempty"`
	IGN               string             `json:"ign,omitempty"`
	TeamID            string             `json:"team_id,omitempty"`
	PossibleActions   []string           `json:"possible_actions,omitempty"`
	PotentialMatches  []PlayerCandidate  `json:"potential_matches,omitempty"`
}

// resolveIdentity is the pure decision core. Callers load the candidate sets
// (exact current-team match, alias matches, same-IGN players on other teams)
// and this decides what the resolution is.
func resolveIdentity(ign, teamID string, exact *models.Player, aliasMatches, otherTeamMatches []PlayerCandidate) PlayerResolution {
	if exact != nil {
		return PlayerResolution{Resolved: true, Player: exact}
	}

	if len(aliasMatches) == 0 && len(otherTeamMatches) == 0 {
		// Nobody plausible exists — safe to create without human input.
		return PlayerResolution{
			NewPlayer:       true,
			IGN:             ign,
			TeamID:          teamID,
			PossibleActions: []string{ActionCreateNew},
		}
	}

	actions := []string{ActionCreateNew}
	if len(aliasMatches) > 0 {
		actions = append(actions, ActionUseExisting)
	}
	if len(otherTeamMatches) > 0 {
		actions = append(actions, ActionTransferPlayer)
	}

	candidates := make([]PlayerCandidate, 0, len(aliasMatches)+len(otherTeamMatches))
	candidates = append(candidates, aliasMatches...)
	candidates = append(candidates, otherTeamMatches...)

	return PlayerResolution{
		NeedsVerification: true,
		IGN:               ign,
		TeamID:            teamID,
		PossibleActions:   actions,
		PotentialMatches:  candidates,
	}
}

// ResolvePlayer resolves an IGN against a team. A supplied player id wins if
// it exists; a bad id falls back to name search instead of failing.
func (s *PlayerService) ResolvePlayer(ign, teamID, suppliedID string) (PlayerResolution, error) {
	if suppliedID != "" {
		var player models.Player
		err := s.DB.First(&player, "id = ?", suppliedID).Error
		if err == nil {
			return PlayerResolution{Resolved: true, Player: &player}, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return PlayerResolution{}, err
		}
		// Invalid id — fall through to name-based resolution.
	}

	// Exact IGN match on the target team's current roster resolves with no
	// ambiguity.
	var exact models.Player
	err := s.DB.
		Joins("JOIN player_team_histories pth ON pth.player_id = players.id").
		Where("pth.team_id = ? AND pth.left_date IS NULL", teamID).
		Where("players.current_ign = ?", ign).
		First(&exact).Error
	if err == nil {
		return PlayerResolution{Resolved: true, Player: &exact}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return PlayerResolution{}, err
	}

	aliasMatches, err := s.aliasCandidates(ign)
	if err != nil {
		return PlayerResolution{}, err
	}
	otherTeamMatches, err := s.otherTeamCandidates(ign, teamID)
	if err != nil {
		return PlayerResolution{}, err
	}

	return resolveIdentity(ign, teamID, nil, aliasMatches, otherTeamMatches), nil
}

func (s *PlayerService) aliasCandidates(ign string) ([]PlayerCandidate, error) {
	var aliases []models.PlayerAlias
	if err := s.DB.Preload("Player").Where("alias = ?", ign).Find(&aliases).Error; err != nil {
		return nil, err
	}
	candidates := make([]PlayerCandidate, 0, len(aliases))
	for _, a := range aliases {
		c := PlayerCandidate{
			PlayerID:    a.PlayerID,
			CurrentIGN:  a.Player.CurrentIGN,
			PreviousIGN: a.Alias,
			MatchType:   "alias",
		}
		if team, err := s.currentTeamOf(a.PlayerID); err == nil && team != nil {
			c.TeamID = team.ID
			c.TeamName = team.TeamName
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func (s *PlayerService) otherTeamCandidates(ign, teamID string) ([]PlayerCandidate, error) {
	var players []models.Player
	err := s.DB.
		Joins("JOIN player_team_histories pth ON pth.player_id = players.id").
		Where("pth.left_date IS NULL AND pth.team_id <> ?", teamID).
		Where("players.current_ign = ?", ign).
		Find(&players).Error
	if err != nil {
		return nil, err
	}
	candidates := make([]PlayerCandidate, 0, len(players))
	for _, p := range players {
		c := PlayerCandidate{
			PlayerID:   p.ID,
			CurrentIGN: p.CurrentIGN,
			MatchType:  "other_team",
		}
		if team, err := s.currentTeamOf(p.ID); err == nil && team != nil {
			c.TeamID = team.ID
			c.TeamName = team.TeamName
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func (s *PlayerService) currentTeamOf(playerID string) (*models.Team, error) {
	var history models.PlayerTeamHistory
	err := s.DB.Preload("Team").
		Where("player_id = ? AND left_date IS NULL", playerID).
		First(&history).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &history.Team, nil
}

// IdentityDecision is the caller's answer to a needs-verification result.
type IdentityDecision struct {
	Action           string  `json:"action"`
	IGN              string  `json:"ign"`
	TeamID           string  `json:"team_id"`
	ExistingPlayerID string  `json:"existing_player_id,omitempty"`
	Role             *string `json:"role,omitempty"`
}

// ApplyIdentityDecision executes a verification decision and returns the
// resulting player.
func (s *PlayerService) ApplyIdentityDecision(d IdentityDecision) (*models.Player, error) {
	var team models.Team
	if err := s.DB.First(&team, "id = ?", d.TeamID).Error; err != nil {
		return nil, fmt.Errorf("team not found: %s", d.TeamID)
	}

	switch d.Action {
	case ActionCreateNew:
		player, _, err := s.GetOrCreatePlayerForTeam(d.IGN, d.TeamID, d.Role)
		return player, err

	case ActionUseExisting:
		var player models.Player
		if err := s.DB.First(&player, "id = ?", d.ExistingPlayerID).Error; err != nil {
			return nil, fmt.Errorf("player not found: %s", d.ExistingPlayerID)
		}
		if player.CurrentIGN != d.IGN {
			if err := s.ChangePlayerIGN(&player, d.IGN); err != nil {
				return nil, err
			}
		}
		return &player, nil

	case ActionTransferPlayer:
		var player models.Player
		if err := s.DB.First(&player, "id = ?", d.ExistingPlayerID).Error; err != nil {
			return nil, fmt.Errorf("player not found: %s", d.ExistingPlayerID)
		}
		if err := s.TransferPlayerToTeam(&player, d.TeamID, time.Now()); err != nil {
			return nil, err
		}
		if player.CurrentIGN != d.IGN {
			if err := s.ChangePlayerIGN(&player, d.IGN); err != nil {
				return nil, err
			}
		}
		return &player, nil
	}

	return nil, fmt.Errorf("unknown identity action: %s", d.Action)
}

// GetOrCreatePlayerForTeam finds a player by IGN on the team (current IGN or
// alias), creating the player plus an open membership when none exists.
func (s *PlayerService) GetOrCreatePlayerForTeam(ign, teamID string, role *string) (*models.Player, bool, error) {
	var existing models.Player
	err := s.DB.
		Joins("JOIN player_team_histories pth ON pth.player_id = players.id").
		Where("pth.team_id = ? AND pth.left_date IS NULL", teamID).
		Where("players.current_ign = ?", ign).
		First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	// Alias match restricted to the same team also counts as found.
	var alias models.PlayerAlias
	err = s.DB.Preload("Player").
		Joins("JOIN player_team_histories pth ON pth.player_id = player_aliases.player_id").
		Where("pth.team_id = ? AND pth.left_date IS NULL", teamID).
		Where("player_aliases.alias = ?", ign).
		First(&alias).Error
	if err == nil {
		return &alias.Player, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	player := models.Player{
		ID:          uuid.NewString(),
		CurrentIGN:  ign,
		PrimaryRole: role,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&player).Error; err != nil {
			return err
		}
		return tx.Create(&models.PlayerTeamHistory{
			ID:         uuid.NewString(),
			PlayerID:   player.ID,
			TeamID:     teamID,
			JoinedDate: time.Now(),
		}).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &player, true, nil
}

// ChangePlayerIGN renames a player. The old IGN is appended as an alias
// before the rename so history is never lost.
func (s *PlayerService) ChangePlayerIGN(player *models.Player, newIGN string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if player.CurrentIGN != "" {
			alias := models.PlayerAlias{
				ID:       uuid.NewString(),
				PlayerID: player.ID,
				Alias:    player.CurrentIGN,
			}
			if err := tx.Create(&alias).Error; err != nil {
				return err
			}
		}
		player.CurrentIGN = newIGN
		return tx.Model(player).Update("current_ign", newIGN).Error
	})
}

// transferPlan decides what a transfer has to do given the current open
// membership. Keeping this pure keeps the ≤1-open-membership invariant
// checkable without a database.
func transferPlan(current *models.PlayerTeamHistory, newTeamID string) (closeCurrent, openNew bool) {
	if current == nil {
		return false, true
	}
	if current.TeamID == newTeamID {
		// Already on the destination team — idempotent no-op.
		return false, false
	}
	return true, true
}

// TransferPlayerToTeam closes the player's open membership and opens one on
// the destination team. Transferring to the current team is a no-op.
func (s *PlayerService) TransferPlayerToTeam(player *models.Player, newTeamID string, transferDate time.Time) error {
	var current models.PlayerTeamHistory
	var open *models.PlayerTeamHistory
	err := s.DB.Where("player_id = ? AND left_date IS NULL", player.ID).First(&current).Error
	if err == nil {
		open = &current
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	closeCurrent, openNew := transferPlan(open, newTeamID)
	if !closeCurrent && !openNew {
		return nil
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if closeCurrent {
			if err := tx.Model(&models.PlayerTeamHistory{}).
				Where("id = ?", open.ID).
				Update("left_date", transferDate).Error; err != nil {
				return err
			}
		}
		if openNew {
			return tx.Create(&models.PlayerTeamHistory{
				ID:         uuid.NewString(),
				PlayerID:   player.ID,
				TeamID:     newTeamID,
				JoinedDate: transferDate,
			}).Error
		}
		return nil
	})
}

// --- HTTP surface ---

func (s *PlayerService) GetAllPlayers(c *fiber.Ctx) error {
	var players []models.Player
	query := s.DB.Preload("Aliases").Preload("TeamHistory.Team")
	if ign := c.Query("ign"); ign != "" {
		query = query.Where("current_ign = ?", ign)
	}
	if err := query.Find(&players).Error; err != nil {
		log.Printf("ERROR fetching players: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch players"})
	}
	return c.JSON(players)
}

func (s *PlayerService) GetPlayerByID(c *fiber.Ctx) error {
	var player models.Player
	err := s.DB.Preload("Aliases").Preload("TeamHistory.Team").
		First(&player, "id = ?", c.Params("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "player not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(player)
}

// ResolvePlayerEndpoint exposes identity resolution to the submission UI.
func (s *PlayerService) ResolvePlayerEndpoint(c *fiber.Ctx) error {
	var req struct {
		IGN      string `json:"ign"`
		TeamID   string `json:"team_id"`
		PlayerID string `json:"player_id,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.IGN == "" || req.TeamID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "ign and team_id are required"})
	}

	resolution, err := s.ResolvePlayer(req.IGN, req.TeamID, req.PlayerID)
	if err != nil {
		log.Printf("ERROR resolving player %q: %v", req.IGN, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to resolve player"})
	}
	return c.JSON(resolution)
}

// ApplyDecisionEndpoint applies one verification decision.
func (s *PlayerService) ApplyDecisionEndpoint(c *fiber.Ctx) error {
	var decision IdentityDecision
	if err := c.BodyParser(&decision); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if decision.IGN == "" || decision.TeamID == "" || decision.Action == "" {
		return c.Status(400).JSON(fiber.Map{"error": "action, ign and team_id are required"})
	}

	player, err := s.ApplyIdentityDecision(decision)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(player)
}

// TransferPlayerEndpoint moves a player to another team.
func (s *PlayerService) TransferPlayerEndpoint(c *fiber.Ctx) error {
	var req struct {
		TeamID       string `json:"team_id"`
		TransferDate string `json:"transfer_date,omitempty"` // YYYY-MM-DD
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.TeamID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "team_id is required"})
	}

	var player models.Player
	if err := s.DB.First(&player, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "player not found"})
	}
	var team models.Team
	if err := s.DB.First(&team, "id = ?", req.TeamID).Error; err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "team_id not found"})
	}

	transferDate := time.Now()
	if req.TransferDate != "" {
		parsed, err := time.Parse("2006-01-02", req.TransferDate)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid transfer_date (use YYYY-MM-DD)"})
		}
		transferDate = parsed
	}

	if err := s.TransferPlayerToTeam(&player, req.TeamID, transferDate); err != nil {
		log.Printf("ERROR transferring player %s: %v", player.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to transfer player"})
	}
	return c.JSON(fiber.Map{"success": true, "player_id": player.ID, "team_id": req.TeamID})
}

// ChangeIGNEndpoint renames a player, preserving the old IGN as an alias.
func (s *PlayerService) ChangeIGNEndpoint(c *fiber.Ctx) error {
	var req struct {
		NewIGN string `json:"new_ign"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.NewIGN == "" {
		return c.Status(400).JSON(fiber.Map{"error": "new_ign is required"})
	}

	var player models.Player
	if err := s.DB.First(&player, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "player not found"})
	}
	if err := s.ChangePlayerIGN(&player, req.NewIGN); err != nil {
		log.Printf("ERROR renaming player %s: %v", player.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to change IGN"})
	}
	return c.JSON(player)
}
