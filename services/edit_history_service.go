package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"scrim-stats-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EditHistoryService is the edit ledger: an append-only record of match and
// stat edits with enough state to roll either back. Restores append a new
// entry instead of rewriting history.
type EditHistoryService struct {
	DB *gorm.DB
	// Matches is set after construction; restores rerun the derivation
	// pipeline through it.
	Matches *MatchService
}

func NewEditHistoryService(db *gorm.DB) *EditHistoryService {
	return &EditHistoryService{DB: db}
}

// ChangedFields diffs two snapshots and returns only the keys whose values
// differ, as (previous, next) maps. Values are compared through their JSON
// form so numeric types coming from different sources still compare equal.
func ChangedFields(before, after map[string]interface{}) (map[string]interface{}, map[string]interface{}) {
	previous := map[string]interface{}{}
	next := map[string]interface{}{}

	canon := func(v interface{}) string {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}

	for k, afterVal := range after {
		beforeVal, had := before[k]
		if !had || canon(beforeVal) != canon(afterVal) {
			previous[k] = beforeVal
			next[k] = afterVal
		}
	}
	for k, beforeVal := range before {
		if _, still := after[k]; !still {
			previous[k] = beforeVal
			next[k] = nil
		}
	}
	return previous, next
}

// MatchSnapshot captures the editable metadata of a match for the ledger.
func MatchSnapshot(m *models.Match) map[string]interface{} {
	return map[string]interface{}{
		"match_date":      m.MatchDate.Format(time.RFC3339),
		"our_team_id":     m.OurTeamID,
		"winning_team_id": m.WinningTeamID,
		"mvp_id":          m.MVPID,
		"mvp_loss_id":     m.MVPLossID,
		"scrim_type":      m.ScrimType,
		"match_duration":  m.MatchDuration,
		"general_notes":   m.GeneralNotes,
	}
}

// StatSnapshot captures the editable fields of a stat row for the ledger.
func StatSnapshot(st *models.PlayerMatchStat) map[string]interface{} {
	return map[string]interface{}{
		"kills":                   st.Kills,
		"deaths":                  st.Deaths,
		"assists":                 st.Assists,
		"role_played":             st.RolePlayed,
		"hero_id":                 st.HeroID,
		"damage_dealt":            st.DamageDealt,
		"damage_taken":            st.DamageTaken,
		"turret_damage":           st.TurretDamage,
		"gold_earned":             st.GoldEarned,
		"teamfight_participation": st.TeamfightParticipation,
		"medal":                   st.Medal,
		"player_notes":            st.PlayerNotes,
	}
}

// RecordEdit appends a ledger entry holding the changed fields between two
// snapshots. A no-op edit (identical snapshots) records nothing and returns
// nil.
func (s *EditHistoryService) RecordEdit(matchID, editorID, editType string, before, after map[string]interface{}, statID *string) (*models.MatchEditHistory, error) {
	previous, next := ChangedFields(before, after)
	if len(next) == 0 {
		return nil, nil
	}

	prevJSON, err := json.Marshal(previous)
	if err != nil {
		return nil, err
	}
	nextJSON, err := json.Marshal(next)
	if err != nil {
		return nil, err
	}

	entry := models.MatchEditHistory{
		ID:                 uuid.NewString(),
		MatchID:            matchID,
		EditorID:           editorID,
		EditType:           editType,
		StatID:             statID,
		PreviousValuesJSON: string(prevJSON),
		NewValuesJSON:      string(nextJSON),
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// RestoreEdit applies an entry's previous values back onto the live record,
// reruns the pipeline, and appends a restore entry so the rollback is itself
// in the ledger.
func (s *EditHistoryService) RestoreEdit(entryID, editorID string) (*models.MatchEditHistory, error) {
	var entry models.MatchEditHistory
	if err := s.DB.First(&entry, "id = ?", entryID).Error; err != nil {
		return nil, err
	}

	var previous map[string]interface{}
	if err := json.Unmarshal([]byte(entry.PreviousValuesJSON), &previous); err != nil {
		return nil, fmt.Errorf("ledger entry %s has unreadable previous values: %w", entry.ID, err)
	}
	if len(previous) == 0 {
		return nil, errors.New("ledger entry has nothing to restore")
	}

	var restoreType string
	var before, after map[string]interface{}

	switch entry.EditType {
	case models.EditTypeMatch, models.EditTypeMatchRestore:
		restoreType = models.EditTypeMatchRestore
		var match models.Match
		if err := s.DB.First(&match, "id = ?", entry.MatchID).Error; err != nil {
			return nil, err
		}
		before = MatchSnapshot(&match)
		if err := s.DB.Model(&match).Updates(previous).Error; err != nil {
			return nil, err
		}
		s.DB.First(&match, "id = ?", match.ID)
		after = MatchSnapshot(&match)

	case models.EditTypeStat, models.EditTypeStatRestore:
		if entry.StatID == nil {
			return nil, errors.New("stat edit entry is missing its stat reference")
		}
		restoreType = models.EditTypeStatRestore
		var stat models.PlayerMatchStat
		if err := s.DB.First(&stat, "id = ?", *entry.StatID).Error; err != nil {
			return nil, fmt.Errorf("stat %s no longer exists: %w", *entry.StatID, err)
		}
		before = StatSnapshot(&stat)
		if err := s.DB.Model(&stat).Updates(previous).Error; err != nil {
			return nil, err
		}
		s.DB.First(&stat, "id = ?", stat.ID)
		kda := ComputeKDA(stat.Kills, stat.Deaths, stat.Assists)
		if kda != stat.ComputedKDA {
			s.DB.Model(&stat).Update("computed_kda", kda)
		}
		after = StatSnapshot(&stat)

	default:
		return nil, fmt.Errorf("unknown edit type %q", entry.EditType)
	}

	if s.Matches != nil {
		if err := s.Matches.ProcessMatchWrite(entry.MatchID); err != nil {
			return nil, err
		}
	}

	restored, err := s.RecordEdit(entry.MatchID, editorID, restoreType, before, after, entry.StatID)
	if err != nil {
		return nil, err
	}
	return restored, nil
}

// --- HTTP surface ---

// ListHistory returns a match's ledger, newest first.
func (s *EditHistoryService) ListHistory(c *fiber.Ctx) error {
	var entries []models.MatchEditHistory
	err := s.DB.
		Where("match_id = ?", c.Params("id")).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		log.Printf("ERROR fetching edit history for match %s: %v", c.Params("id"), err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch edit history"})
	}

	type entryView struct {
		models.MatchEditHistory
		PreviousValues map[string]interface{} `json:"previous_values"`
		NewValues      map[string]interface{} `json:"new_values"`
	}
	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		view := entryView{MatchEditHistory: e}
		json.Unmarshal([]byte(e.PreviousValuesJSON), &view.PreviousValues)
		json.Unmarshal([]byte(e.NewValuesJSON), &view.NewValues)
		views = append(views, view)
	}
	return c.JSON(views)
}

// RestoreEndpoint rolls back one ledger entry.
func (s *EditHistoryService) RestoreEndpoint(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	entry, err := s.RestoreEdit(c.Params("entry_id"), userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "edit history entry not found"})
	}
	if err != nil {
		log.Printf("ERROR restoring edit %s: %v", c.Params("entry_id"), err)
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "restore_entry": entry})
}
