package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"scrim-stats-system/models"
	"scrim-stats-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MatchService owns match writes and the derived-data pipeline. Every stat
// write runs validate → persist → score details → outcome → awards in that
// order; awards read committed aggregates, so the order is a correctness
// requirement, not a style choice.
type MatchService struct {
	DB      *gorm.DB
	Players *PlayerService
	Groups  *ScrimGroupService
	Awards  *AwardService
	Heroes  *HeroService
	History *EditHistoryService
}

func NewMatchService(db *gorm.DB, players *PlayerService, groups *ScrimGroupService, awards *AwardService, heroes *HeroService, history *EditHistoryService) *MatchService {
	return &MatchService{DB: db, Players: players, Groups: groups, Awards: awards, Heroes: heroes, History: history}
}

// ComputeKDA keeps deathless games sortable and averageable: (kills +
// assists) / deaths when deaths > 0, plain kills + assists otherwise. Never
// infinity, never a sentinel.
func ComputeKDA(kills, deaths, assists int) float64 {
	if deaths > 0 {
		return float64(kills+assists) / float64(deaths)
	}
	return float64(kills + assists)
}

// ValidateStatTeams enforces the side invariant: every stat row's team must
// be one of the match's two side teams.
func ValidateStatTeams(match *models.Match, stats []models.PlayerMatchStat) error {
	for _, st := range stats {
		if st.TeamID != match.BlueSideTeamID && st.TeamID != match.RedSideTeamID {
			return fmt.Errorf("team_id: stat for player %s references team %s, which is not a side of this match", st.PlayerID, st.TeamID)
		}
	}
	return nil
}

// BuildScoreDetails derives the score blob from stat rows. Pure function of
// its inputs; side scores are kill sums.
func BuildScoreDetails(match *models.Match, stats []models.PlayerMatchStat) models.ScoreDetails {
	blue := models.SideScore{TeamID: match.BlueSideTeamID, TeamName: match.BlueSideTeam.TeamName}
	red := models.SideScore{TeamID: match.RedSideTeamID, TeamName: match.RedSideTeam.TeamName}

	accumulate := func(side *models.SideScore, st models.PlayerMatchStat) {
		side.Score += st.Kills
		side.Totals.Kills += st.Kills
		side.Totals.Deaths += st.Deaths
		side.Totals.Assists += st.Assists
		if st.DamageDealt != nil {
			side.Totals.DamageDealt += *st.DamageDealt
		}
		if st.GoldEarned != nil {
			side.Totals.GoldEarned += *st.GoldEarned
		}
		if st.TurretDamage != nil {
			side.Totals.TurretDamage += *st.TurretDamage
		}
		if st.DamageTaken != nil {
			side.Totals.DamageTaken += *st.DamageTaken
		}
	}

	for _, st := range stats {
		if st.TeamID == match.BlueSideTeamID {
			accumulate(&blue, st)
		} else if st.TeamID == match.RedSideTeamID {
			accumulate(&red, st)
		}
	}

	return models.ScoreDetails{BlueSide: blue, RedSide: red, ScoredBy: "kills"}
}

// DetermineOutcome labels the match from the our-team perspective. With no
// our-team context or no known winner the outcome stays unset — it is never
// guessed from side labels.
func DetermineOutcome(match *models.Match) *string {
	if match.WinningTeamID == nil || match.OurTeamID == nil {
		return nil
	}
	outcome := models.OutcomeDefeat
	if *match.WinningTeamID == *match.OurTeamID {
		outcome = models.OutcomeVictory
	}
	return &outcome
}

// RecomputeScoreDetails loads the committed stat rows, rebuilds the score
// blob and persists it. Safe to call repeatedly; the result only depends on
// the rows.
func (s *MatchService) RecomputeScoreDetails(match *models.Match) (*models.ScoreDetails, error) {
	if match.BlueSideTeam.ID == "" || match.RedSideTeam.ID == "" {
		if err := s.DB.Preload("BlueSideTeam").Preload("RedSideTeam").
			First(match, "id = ?", match.ID).Error; err != nil {
			return nil, err
		}
	}

	var stats []models.PlayerMatchStat
	if err := s.DB.Where("match_id = ?", match.ID).Find(&stats).Error; err != nil {
		return nil, err
	}

	details := BuildScoreDetails(match, stats)
	if err := match.SetScoreDetails(details); err != nil {
		return nil, err
	}
	if err := s.DB.Model(match).Update("score_details", match.ScoreDetailsJSON).Error; err != nil {
		return nil, err
	}
	return &details, nil
}

// ProcessMatchWrite runs the full derivation pipeline for a match. Invoked
// once per external write instead of hiding recomputes inside save hooks, so
// the ordering is explicit and testable.
func (s *MatchService) ProcessMatchWrite(matchID string) error {
	var match models.Match
	err := s.DB.Preload("BlueSideTeam").Preload("RedSideTeam").
		First(&match, "id = ?", matchID).Error
	if err != nil {
		return err
	}

	if _, err := s.RecomputeScoreDetails(&match); err != nil {
		return err
	}

	outcome := DetermineOutcome(&match)
	if err := s.DB.Model(&match).Update("match_outcome", outcome).Error; err != nil {
		return err
	}
	match.MatchOutcome = outcome

	_, err = s.Awards.AssignMatchAwards(&match)
	return err
}

// --- Match CRUD ---

type matchRequest struct {
	MatchDate      string  `json:"match_date"` // RFC3339
	BlueSideTeamID string  `json:"blue_side_team_id"`
	RedSideTeamID  string  `json:"red_side_team_id"`
	OurTeamID      *string `json:"our_team_id,omitempty"`
	WinningTeamID  *string `json:"winning_team_id,omitempty"`
	MVPID          *string `json:"mvp_id,omitempty"`
	MVPLossID      *string `json:"mvp_loss_id,omitempty"`
	ScrimType      string  `json:"scrim_type"`
	MatchDuration  *string `json:"match_duration,omitempty"`
	GeneralNotes   string  `json:"general_notes,omitempty"`
}

func (s *MatchService) validateMatchRequest(req *matchRequest) (int, string) {
	if req.MatchDate == "" || req.BlueSideTeamID == "" || req.RedSideTeamID == "" {
		return 400, "match_date, blue_side_team_id and red_side_team_id are required"
	}
	if req.BlueSideTeamID == req.RedSideTeamID {
		return 400, "blue_side_team_id: a match cannot be played between a team and itself"
	}
	for _, teamID := range []string{req.BlueSideTeamID, req.RedSideTeamID} {
		var team models.Team
		if err := s.DB.First(&team, "id = ?", teamID).Error; err != nil {
			return 400, fmt.Sprintf("team not found: %s", teamID)
		}
	}
	isSide := func(id string) bool {
		return id == req.BlueSideTeamID || id == req.RedSideTeamID
	}
	if req.OurTeamID != nil && !isSide(*req.OurTeamID) {
		return 400, "our_team_id must be one of the two side teams"
	}
	if req.WinningTeamID != nil && !isSide(*req.WinningTeamID) {
		return 400, "winning_team_id must be one of the two side teams"
	}
	if req.MatchDuration != nil {
		if _, err := utils.ParseMatchDuration(*req.MatchDuration); err != nil {
			return 400, err.Error()
		}
	}
	return 0, ""
}

func (s *MatchService) CreateMatch(c *fiber.Ctx) error {
	var req matchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if status, msg := s.validateMatchRequest(&req); status != 0 {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	matchDate, err := time.Parse(time.RFC3339, req.MatchDate)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid match_date (use RFC3339)"})
	}

	userID, _ := c.Locals("user_id").(string)

	match := models.Match{
		ID:             uuid.NewString(),
		SubmittedByID:  userID,
		MatchDate:      matchDate,
		BlueSideTeamID: req.BlueSideTeamID,
		RedSideTeamID:  req.RedSideTeamID,
		OurTeamID:      req.OurTeamID,
		WinningTeamID:  req.WinningTeamID,
		MVPID:          req.MVPID,
		MVPLossID:      req.MVPLossID,
		ScrimType:      req.ScrimType,
		MatchDuration:  req.MatchDuration,
		GeneralNotes:   req.GeneralNotes,
	}
	if err := s.DB.Create(&match).Error; err != nil {
		log.Printf("ERROR creating match: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "DB insert failed"})
	}

	// Session grouping is triggered by shell creation and is independent of
	// the stat pipeline.
	if err := s.Groups.AssignScrimGroup(&match); err != nil {
		log.Printf("ERROR assigning scrim group for match %s: %v", match.ID, err)
	}

	if outcome := DetermineOutcome(&match); outcome != nil {
		s.DB.Model(&match).Update("match_outcome", outcome)
		match.MatchOutcome = outcome
	}

	s.DB.Preload("BlueSideTeam").Preload("RedSideTeam").Preload("ScrimGroup").
		First(&match, "id = ?", match.ID)
	return c.Status(201).JSON(match)
}

func (s *MatchService) GetAllMatches(c *fiber.Ctx) error {
	var matches []models.Match
	query := s.DB.Preload("BlueSideTeam").Preload("RedSideTeam").Preload("ScrimGroup").
		Order("match_date DESC")
	if teamID := c.Query("team_id"); teamID != "" {
		query = query.Where("blue_side_team_id = ? OR red_side_team_id = ?", teamID, teamID)
	}
	if scrimType := c.Query("scrim_type"); scrimType != "" {
		query = query.Where("scrim_type = ?", scrimType)
	}
	if err := query.Find(&matches).Error; err != nil {
		log.Printf("ERROR fetching matches: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch matches"})
	}
	return c.JSON(matches)
}

func (s *MatchService) GetMatchByID(c *fiber.Ctx) error {
	var match models.Match
	err := s.DB.Preload("BlueSideTeam").Preload("RedSideTeam").Preload("ScrimGroup").
		Preload("PlayerStats.Player").Preload("PlayerStats.Hero").
		Preload("Awards.Player").
		First(&match, "id = ?", c.Params("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "match not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	resp := fiber.Map{"match": match}
	if sd := match.ScoreDetails(); sd != nil {
		resp["score_details"] = sd
	}
	return c.JSON(resp)
}

// matchEditableFields are the metadata fields the edit ledger snapshots.
var matchEditableFields = map[string]bool{
	"match_date": true, "our_team_id": true, "winning_team_id": true,
	"mvp_id": true, "mvp_loss_id": true, "scrim_type": true,
	"match_duration": true, "general_notes": true,
}

// validateSideReference checks that edited team references still point at one
// of the match's two sides. Clearing a reference (explicit null) is allowed.
func validateSideReference(match *models.Match, updates map[string]interface{}) error {
	for _, field := range []string{"our_team_id", "winning_team_id"} {
		v, ok := updates[field]
		if !ok || v == nil {
			continue
		}
		id, ok := v.(string)
		if !ok || (id != match.BlueSideTeamID && id != match.RedSideTeamID) {
			return fmt.Errorf("%s must be one of the two side teams", field)
		}
	}
	return nil
}

// UpdateMatch edits match metadata, records the edit, and reruns the
// pipeline when the edit affects derived data.
func (s *MatchService) UpdateMatch(c *fiber.Ctx) error {
	var match models.Match
	if err := s.DB.First(&match, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "match not found"})
	}

	var req map[string]interface{}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	updates := map[string]interface{}{}
	for k, v := range req {
		if matchEditableFields[k] {
			updates[k] = v
		}
	}
	if len(updates) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "no editable fields supplied"})
	}
	if v, ok := updates["match_duration"].(string); ok && v != "" {
		if _, err := utils.ParseMatchDuration(v); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
	}
	if err := validateSideReference(&match, updates); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	userID, _ := c.Locals("user_id").(string)
	before := MatchSnapshot(&match)

	if err := s.DB.Model(&match).Updates(updates).Error; err != nil {
		log.Printf("ERROR updating match %s: %v", match.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to update match"})
	}

	s.DB.First(&match, "id = ?", match.ID)
	after := MatchSnapshot(&match)

	if _, err := s.History.RecordEdit(match.ID, userID, models.EditTypeMatch, before, after, nil); err != nil {
		log.Printf("ERROR recording edit for match %s: %v", match.ID, err)
	}

	if err := s.ProcessMatchWrite(match.ID); err != nil {
		log.Printf("ERROR reprocessing match %s after edit: %v", match.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to recompute derived data"})
	}

	s.DB.Preload("BlueSideTeam").Preload("RedSideTeam").First(&match, "id = ?", match.ID)
	return c.JSON(match)
}

// RecomputeMatch re-derives score details, outcome and awards on demand.
func (s *MatchService) RecomputeMatch(c *fiber.Ctx) error {
	matchID := c.Params("id")
	var match models.Match
	if err := s.DB.First(&match, "id = ?", matchID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "match not found"})
	}
	if err := s.ProcessMatchWrite(matchID); err != nil {
		log.Printf("ERROR recomputing match %s: %v", matchID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to recompute match"})
	}
	s.DB.Preload("Awards.Player").First(&match, "id = ?", matchID)
	resp := fiber.Map{"match": match}
	if sd := match.ScoreDetails(); sd != nil {
		resp["score_details"] = sd
	}
	return c.JSON(resp)
}

// --- Stat submission with identity verification ---

// StatSubmission is one raw stat row as entered by a human: the player is
// identified by free-text IGN until resolution pins an id.
type StatSubmission struct {
	IGN                    string   `json:"ign"`
	PlayerID               string   `json:"player_id,omitempty"`
	RolePlayed             *string  `json:"role_played,omitempty"`
	HeroID                 *string  `json:"hero_id,omitempty"`
	HeroName               string   `json:"hero_name,omitempty"`
	Kills                  int      `json:"kills"`
	Deaths                 int      `json:"deaths"`
	Assists                int      `json:"assists"`
	DamageDealt            *int     `json:"damage_dealt,omitempty"`
	DamageTaken            *int     `json:"damage_taken,omitempty"`
	TurretDamage           *int     `json:"turret_damage,omitempty"`
	GoldEarned             *int     `json:"gold_earned,omitempty"`
	TeamfightParticipation *float64 `json:"teamfight_participation,omitempty"`
	Medal                  *string  `json:"medal,omitempty"`
	PlayerNotes            *string  `json:"player_notes,omitempty"`
}

type statSubmissionRequest struct {
	BlueSideStats []StatSubmission `json:"blue_side_stats"`
	RedSideStats  []StatSubmission `json:"red_side_stats"`
}

type verifiedSubmissionRequest struct {
	VerifiedPlayers []IdentityDecision `json:"verified_players"`
	BlueSideStats   []StatSubmission   `json:"blue_side_stats"`
	RedSideStats    []StatSubmission   `json:"red_side_stats"`
}

// VerifyMatchStats resolves every submitted row's player. When all resolve,
// the stats are committed and the pipeline runs; otherwise the response
// carries the rows needing a human verification decision.
func (s *MatchService) VerifyMatchStats(c *fiber.Ctx) error {
	var match models.Match
	if err := s.DB.First(&match, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "match not found"})
	}

	var req statSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	type verification struct {
		PlayerResolution
		ForSide string `json:"for_side"`
	}
	var toVerify []verification

	resolveSide := func(rows []StatSubmission, teamID, side string) error {
		for i := range rows {
			resolution, err := s.Players.ResolvePlayer(rows[i].IGN, teamID, rows[i].PlayerID)
			if err != nil {
				return err
			}
			switch {
			case resolution.Resolved:
				rows[i].PlayerID = resolution.Player.ID
			case resolution.NewPlayer:
				// Unambiguous: nothing plausible exists, create silently.
				player, _, err := s.Players.GetOrCreatePlayerForTeam(rows[i].IGN, teamID, rows[i].RolePlayed)
				if err != nil {
					return err
				}
				rows[i].PlayerID = player.ID
			default:
				toVerify = append(toVerify, verification{PlayerResolution: resolution, ForSide: side})
			}
		}
		return nil
	}

	if err := resolveSide(req.BlueSideStats, match.BlueSideTeamID, "blue_side"); err != nil {
		log.Printf("ERROR resolving blue side stats for match %s: %v", match.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to resolve players"})
	}
	if err := resolveSide(req.RedSideStats, match.RedSideTeamID, "red_side"); err != nil {
		log.Printf("ERROR resolving red side stats for match %s: %v", match.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to resolve players"})
	}

	if len(toVerify) > 0 {
		return c.JSON(fiber.Map{
			"match_id":           match.ID,
			"needs_verification": true,
			"players_to_verify":  toVerify,
		})
	}

	if status, msg := s.commitStats(&match, req.BlueSideStats, req.RedSideStats, false); status != 0 {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
	return c.JSON(fiber.Map{"success": true, "message": "all stats recorded"})
}

// SubmitVerifiedStats applies the human verification decisions and commits
// the stats.
func (s *MatchService) SubmitVerifiedStats(c *fiber.Ctx) error {
	var match models.Match
	if err := s.DB.First(&match, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "match not found"})
	}

	var req verifiedSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	for _, decision := range req.VerifiedPlayers {
		player, err := s.Players.ApplyIdentityDecision(decision)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		fillPlayerID(player.ID, decision.IGN, req.BlueSideStats)
		fillPlayerID(player.ID, decision.IGN, req.RedSideStats)
	}

	if status, msg := s.commitStats(&match, req.BlueSideStats, req.RedSideStats, false); status != 0 {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
	return c.JSON(fiber.Map{"success": true, "message": "all stats recorded after verification"})
}

func fillPlayerID(playerID, ign string, rows []StatSubmission) {
	for i := range rows {
		if rows[i].IGN == ign && rows[i].PlayerID == "" {
			rows[i].PlayerID = playerID
		}
	}
}

// commitStats validates and persists the rows as a unit, then runs the
// derivation pipeline. With replace set, the match's existing rows are
// cleared in the same transaction as the inserts, so a rejected payload
// never touches what is already committed. Returns a non-zero HTTP status
// with a message on failure.
func (s *MatchService) commitStats(match *models.Match, blueRows, redRows []StatSubmission, replace bool) (int, string) {
	build := func(rows []StatSubmission, teamID string) ([]models.PlayerMatchStat, error) {
		stats := make([]models.PlayerMatchStat, 0, len(rows))
		for _, row := range rows {
			if row.PlayerID == "" {
				return nil, fmt.Errorf("player_id: row for IGN %q is unresolved", row.IGN)
			}
			if row.Kills < 0 || row.Deaths < 0 || row.Assists < 0 {
				return nil, fmt.Errorf("kills/deaths/assists must be non-negative for IGN %q", row.IGN)
			}
			heroID := row.HeroID
			if heroID == nil && row.HeroName != "" {
				hero, err := s.Heroes.GetOrCreateByName(row.HeroName)
				if err != nil {
					return nil, err
				}
				heroID = &hero.ID
			}
			rolePlayed := row.RolePlayed
			if rolePlayed == nil {
				var player models.Player
				if err := s.DB.First(&player, "id = ?", row.PlayerID).Error; err == nil {
					rolePlayed = player.PrimaryRole
				}
			}
			stats = append(stats, models.PlayerMatchStat{
				ID:                     uuid.NewString(),
				MatchID:                match.ID,
				PlayerID:               row.PlayerID,
				TeamID:                 teamID,
				RolePlayed:             rolePlayed,
				HeroID:                 heroID,
				Kills:                  row.Kills,
				Deaths:                 row.Deaths,
				Assists:                row.Assists,
				ComputedKDA:            ComputeKDA(row.Kills, row.Deaths, row.Assists),
				DamageDealt:            row.DamageDealt,
				DamageTaken:            row.DamageTaken,
				TurretDamage:           row.TurretDamage,
				GoldEarned:             row.GoldEarned,
				TeamfightParticipation: row.TeamfightParticipation,
				Medal:                  row.Medal,
				PlayerNotes:            row.PlayerNotes,
			})
		}
		return stats, nil
	}

	blueStats, err := build(blueRows, match.BlueSideTeamID)
	if err != nil {
		return 400, err.Error()
	}
	redStats, err := build(redRows, match.RedSideTeamID)
	if err != nil {
		return 400, err.Error()
	}
	all := append(blueStats, redStats...)

	if err := ValidateStatTeams(match, all); err != nil {
		return 400, err.Error()
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if replace {
			if err := tx.Where("match_id = ?", match.ID).Delete(&models.PlayerMatchStat{}).Error; err != nil {
				return err
			}
		}
		for i := range all {
			if err := tx.Create(&all[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("ERROR committing stats for match %s: %v", match.ID, err)
		return 500, "failed to save stats"
	}

	if err := s.ProcessMatchWrite(match.ID); err != nil {
		log.Printf("ERROR processing match %s after stat write: %v", match.ID, err)
		return 500, "stats saved but derived data failed to recompute"
	}
	return 0, ""
}

// ReplaceMatchStats wipes and rewrites the full stat set for a match as one
// transaction-like unit, then reruns the pipeline.
func (s *MatchService) ReplaceMatchStats(c *fiber.Ctx) error {
	var match models.Match
	if err := s.DB.First(&match, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "match not found"})
	}

	var req statSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	if status, msg := s.commitStats(&match, req.BlueSideStats, req.RedSideStats, true); status != 0 {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
	return c.JSON(fiber.Map{"success": true, "message": "stats replaced"})
}

// statEditableFields are the per-row fields the edit ledger snapshots.
var statEditableFields = map[string]bool{
	"kills": true, "deaths": true, "assists": true,
	"role_played": true, "hero_id": true,
	"damage_dealt": true, "damage_taken": true, "turret_damage": true,
	"gold_earned": true, "teamfight_participation": true,
	"medal": true, "player_notes": true,
}

// UpdateStat edits one stat row, records the edit, recomputes the row's KDA
// and reruns the match pipeline.
func (s *MatchService) UpdateStat(c *fiber.Ctx) error {
	var stat models.PlayerMatchStat
	if err := s.DB.First(&stat, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "stat not found"})
	}

	var req map[string]interface{}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	updates := map[string]interface{}{}
	for k, v := range req {
		if statEditableFields[k] {
			updates[k] = v
		}
	}
	if len(updates) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "no editable fields supplied"})
	}
	for _, field := range []string{"kills", "deaths", "assists"} {
		if v, ok := updates[field].(float64); ok && v < 0 {
			return c.Status(400).JSON(fiber.Map{"error": field + " must be non-negative"})
		}
	}

	userID, _ := c.Locals("user_id").(string)
	before := StatSnapshot(&stat)

	if err := s.DB.Model(&stat).Updates(updates).Error; err != nil {
		log.Printf("ERROR updating stat %s: %v", stat.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to update stat"})
	}

	s.DB.First(&stat, "id = ?", stat.ID)
	kda := ComputeKDA(stat.Kills, stat.Deaths, stat.Assists)
	if kda != stat.ComputedKDA {
		s.DB.Model(&stat).Update("computed_kda", kda)
		stat.ComputedKDA = kda
	}
	after := StatSnapshot(&stat)

	if _, err := s.History.RecordEdit(stat.MatchID, userID, models.EditTypeStat, before, after, &stat.ID); err != nil {
		log.Printf("ERROR recording stat edit %s: %v", stat.ID, err)
	}

	if err := s.ProcessMatchWrite(stat.MatchID); err != nil {
		log.Printf("ERROR reprocessing match %s after stat edit: %v", stat.MatchID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to recompute derived data"})
	}
	return c.JSON(stat)
}

// GetMatchSummary bundles the match, score details, per-side aggregates and
// awards for the match detail screen.
func (s *MatchService) GetMatchSummary(c *fiber.Ctx) error {
	var match models.Match
	err := s.DB.Preload("BlueSideTeam").Preload("RedSideTeam").
		Preload("PlayerStats.Player").Preload("PlayerStats.Hero").
		Preload("Awards.Player").
		First(&match, "id = ?", c.Params("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "match not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	details := match.ScoreDetails()
	if details == nil {
		recomputed, err := s.RecomputeScoreDetails(&match)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to compute score details"})
		}
		details = recomputed
	}

	return c.JSON(fiber.Map{
		"match":         match,
		"score_details": details,
		"awards":        match.Awards,
	})
}
