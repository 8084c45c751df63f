package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"scrim-stats-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// GroupingWindow is the trailing window used to decide whether a match
// belongs to an existing scrim block. Operators sized it to real scrim-block
// durations: a match more than 6 hours after the previous one starts a new
// group.
const GroupingWindow = 6 * time.Hour

// ScrimGroupService clusters matches into scrim groups and keeps game
// numbers dense within each group.
type ScrimGroupService struct {
	DB *gorm.DB
}

func NewScrimGroupService(db *gorm.DB) *ScrimGroupService {
	return &ScrimGroupService{DB: db}
}

// WithinGroupWindow reports whether prev falls inside the half-open window
// [next-6h, next). prev must be strictly before next; exactly 6 hours apart
// still groups, one second more does not.
func WithinGroupWindow(prev, next time.Time) bool {
	d := next.Sub(prev)
	return d > 0 && d <= GroupingWindow
}

// BuildGroupName generates the deterministic display name for a new group,
// e.g. "ADMU vs UST Scrimmage (2026-08-28)".
func BuildGroupName(teamA, teamB models.Team, matchDate time.Time, scrimType string) string {
	titled := cases.Title(language.English).String(scrimType)
	return fmt.Sprintf("%s vs %s %s (%s)",
		teamA.DisplayTag(), teamB.DisplayTag(), titled, matchDate.Format("2006-01-02"))
}

// AssignScrimGroup attaches the match to the right scrim group and sets its
// game number. Matches with no our-team context or no scrim type stay
// ungrouped. Two nearly simultaneous first matches of a block can race into
// two groups; the integrity worker merges those after the fact.
func (s *ScrimGroupService) AssignScrimGroup(match *models.Match) error {
	if match.OurTeamID == nil || match.ScrimType == "" {
		return nil
	}

	windowStart := match.MatchDate.Add(-GroupingWindow)

	// Most recent other match between the same unordered team pair, same
	// type, inside the trailing window.
	var previous models.Match
	err := s.DB.
		Where("id <> ?", match.ID).
		Where("scrim_type = ?", match.ScrimType).
		Where("(blue_side_team_id = ? AND red_side_team_id = ?) OR (blue_side_team_id = ? AND red_side_team_id = ?)",
			match.BlueSideTeamID, match.RedSideTeamID, match.RedSideTeamID, match.BlueSideTeamID).
		Where("match_date < ? AND match_date >= ?", match.MatchDate, windowStart).
		Order("match_date DESC").
		First(&previous).Error

	var group *models.ScrimGroup
	switch {
	case err == nil && previous.ScrimGroupID != nil:
		var existing models.ScrimGroup
		if err := s.DB.First(&existing, "id = ?", *previous.ScrimGroupID).Error; err != nil {
			return err
		}
		group = &existing
	case err == nil, errors.Is(err, gorm.ErrRecordNotFound):
		created, err := s.createGroupFor(match)
		if err != nil {
			return err
		}
		group = created
	default:
		return err
	}

	match.ScrimGroupID = &group.ID
	number, err := s.NextGameNumber(group.ID, match.ID)
	if err != nil {
		return err
	}
	match.GameNumber = number

	return s.DB.Model(match).Updates(map[string]interface{}{
		"scrim_group_id": group.ID,
		"game_number":    number,
	}).Error
}

func (s *ScrimGroupService) createGroupFor(match *models.Match) (*models.ScrimGroup, error) {
	var teamA, teamB models.Team
	if err := s.DB.First(&teamA, "id = ?", match.BlueSideTeamID).Error; err != nil {
		return nil, err
	}
	if err := s.DB.First(&teamB, "id = ?", match.RedSideTeamID).Error; err != nil {
		return nil, err
	}

	name := BuildGroupName(teamA, teamB, match.MatchDate, match.ScrimType)
	group := models.ScrimGroup{
		ID:             uuid.NewString(),
		ScrimGroupName: name,
		Slug:           slug.Make(name),
		StartDate:      match.MatchDate,
		Notes:          fmt.Sprintf("Auto-created for matches starting around %s", match.MatchDate.Format(time.RFC3339)),
	}
	if err := s.DB.Create(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// NextGameNumber is the count of other matches already in the group, plus
// one. Recomputing from membership keeps numbering dense after deletions.
func (s *ScrimGroupService) NextGameNumber(groupID, excludeMatchID string) (int, error) {
	var count int64
	err := s.DB.Model(&models.Match{}).
		Where("scrim_group_id = ? AND id <> ?", groupID, excludeMatchID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count) + 1, nil
}

// RenumberGroup reassigns game numbers 1..n in timestamp order. Used after
// merges and explicit membership changes.
func (s *ScrimGroupService) RenumberGroup(groupID string) error {
	var matches []models.Match
	err := s.DB.Where("scrim_group_id = ?", groupID).
		Order("match_date ASC").
		Find(&matches).Error
	if err != nil {
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		for i, m := range matches {
			if m.GameNumber == i+1 {
				continue
			}
			if err := tx.Model(&models.Match{}).
				Where("id = ?", m.ID).
				Update("game_number", i+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// --- HTTP surface ---

func (s *ScrimGroupService) GetAllScrimGroups(c *fiber.Ctx) error {
	var groups []models.ScrimGroup
	if err := s.DB.Order("start_date DESC").Find(&groups).Error; err != nil {
		log.Printf("ERROR fetching scrim groups: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch scrim groups"})
	}
	return c.JSON(groups)
}

func (s *ScrimGroupService) GetScrimGroupByID(c *fiber.Ctx) error {
	var group models.ScrimGroup
	err := s.DB.
		Preload("Matches", func(db *gorm.DB) *gorm.DB {
			return db.Order("game_number ASC")
		}).
		Preload("Matches.BlueSideTeam").
		Preload("Matches.RedSideTeam").
		First(&group, "id = ?", c.Params("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "scrim group not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(group)
}

func (s *ScrimGroupService) UpdateScrimGroupNotes(c *fiber.Ctx) error {
	var group models.ScrimGroup
	if err := s.DB.First(&group, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "scrim group not found"})
	}
	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if err := s.DB.Model(&group).Update("notes", req.Notes).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update notes"})
	}
	return c.JSON(group)
}
