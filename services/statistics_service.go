package services

import (
	"errors"
	"log"
	"sort"
	"time"

	"scrim-stats-system/models"
	"scrim-stats-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StatisticsService aggregates recorded matches into player career summaries,
// team win rates and scrim group standings. Read-only over data the pipeline
// already derived.
type StatisticsService struct {
	DB *gorm.DB
}

func NewStatisticsService(db *gorm.DB) *StatisticsService {
	return &StatisticsService{DB: db}
}

// GetPlayerStatistics returns a player's career totals, averages and award
// counts.
func (s *StatisticsService) GetPlayerStatistics(c *fiber.Ctx) error {
	playerID := c.Params("id")

	var player models.Player
	err := s.DB.Preload("Aliases").Preload("TeamHistory.Team").
		First(&player, "id = ?", playerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "player not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	var stats []models.PlayerMatchStat
	if err := s.DB.Where("player_id = ?", playerID).Find(&stats).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch stats"})
	}

	totals := struct {
		Matches int     `json:"matches"`
		Kills   int     `json:"kills"`
		Deaths  int     `json:"deaths"`
		Assists int     `json:"assists"`
		AvgKDA  float64 `json:"avg_kda"`
	}{Matches: len(stats)}
	for _, st := range stats {
		totals.Kills += st.Kills
		totals.Deaths += st.Deaths
		totals.Assists += st.Assists
	}
	if len(stats) > 0 {
		// Average of per-match KDA, not KDA of totals; matches how players
		// read their own numbers.
		var sum float64
		for _, st := range stats {
			sum += st.ComputedKDA
		}
		totals.AvgKDA = sum / float64(len(stats))
	}

	type awardCount struct {
		AwardType string `json:"award_type"`
		Count     int64  `json:"count"`
	}
	var awards []awardCount
	s.DB.Model(&models.MatchAward{}).
		Select("award_type, COUNT(*) AS count").
		Where("player_id = ?", playerID).
		Group("award_type").
		Scan(&awards)

	return c.JSON(fiber.Map{
		"player": player,
		"totals": totals,
		"awards": awards,
	})
}

// teamRecord tallies one team's outcomes.
type teamRecord struct {
	Played  int     `json:"played"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	WinRate float64 `json:"win_rate"`
}

func (r *teamRecord) tally(won bool) {
	r.Played++
	if won {
		r.Wins++
	} else {
		r.Losses++
	}
}

func (r *teamRecord) finalize() {
	if r.Played > 0 {
		r.WinRate = float64(r.Wins) / float64(r.Played)
	}
}

// GetTeamStatistics returns a team's win/loss record, side splits and
// average match duration across matches with a known winner.
func (s *StatisticsService) GetTeamStatistics(c *fiber.Ctx) error {
	teamID := c.Params("id")

	var team models.Team
	if err := s.DB.First(&team, "id = ?", teamID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "team not found"})
	}

	var matches []models.Match
	err := s.DB.
		Where("(blue_side_team_id = ? OR red_side_team_id = ?)", teamID, teamID).
		Where("winning_team_id IS NOT NULL").
		Find(&matches).Error
	if err != nil {
		log.Printf("ERROR fetching matches for team %s: %v", teamID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch matches"})
	}

	var overall, blueSide, redSide teamRecord
	var durationSum time.Duration
	var durationCount int
	for _, m := range matches {
		won := *m.WinningTeamID == teamID
		overall.tally(won)
		if m.BlueSideTeamID == teamID {
			blueSide.tally(won)
		} else {
			redSide.tally(won)
		}
		if m.MatchDuration != nil {
			if d, err := utils.ParseMatchDuration(*m.MatchDuration); err == nil {
				durationSum += d
				durationCount++
			}
		}
	}
	overall.finalize()
	blueSide.finalize()
	redSide.finalize()

	resp := fiber.Map{
		"team":      team,
		"overall":   overall,
		"blue_side": blueSide,
		"red_side":  redSide,
	}
	if durationCount > 0 {
		resp["avg_match_duration"] = utils.FormatMatchDuration(durationSum / time.Duration(durationCount))
	}
	return c.JSON(resp)
}

// GetScrimGroupStandings ranks the teams inside one scrim group by win rate,
// then wins.
func (s *StatisticsService) GetScrimGroupStandings(c *fiber.Ctx) error {
	groupID := c.Params("id")

	var group models.ScrimGroup
	if err := s.DB.First(&group, "id = ?", groupID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "scrim group not found"})
	}

	var matches []models.Match
	err := s.DB.Preload("BlueSideTeam").Preload("RedSideTeam").
		Where("scrim_group_id = ? AND winning_team_id IS NOT NULL", groupID).
		Find(&matches).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch matches"})
	}

	return c.JSON(fiber.Map{"scrim_group": group, "standings": buildGroupStandings(matches)})
}

type groupStanding struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	teamRecord
}

// buildGroupStandings ranks the teams of a group's decided matches by win
// rate, then wins, then ascending team id so ties order the same on every
// call.
func buildGroupStandings(matches []models.Match) []groupStanding {
	byTeam := map[string]*groupStanding{}
	ensure := func(id, name string) *groupStanding {
		if st, ok := byTeam[id]; ok {
			return st
		}
		st := &groupStanding{TeamID: id, TeamName: name}
		byTeam[id] = st
		return st
	}

	for _, m := range matches {
		if m.WinningTeamID == nil {
			continue
		}
		blue := ensure(m.BlueSideTeamID, m.BlueSideTeam.TeamName)
		red := ensure(m.RedSideTeamID, m.RedSideTeam.TeamName)
		blue.tally(*m.WinningTeamID == m.BlueSideTeamID)
		red.tally(*m.WinningTeamID == m.RedSideTeamID)
	}

	standings := make([]groupStanding, 0, len(byTeam))
	for _, st := range byTeam {
		st.finalize()
		standings = append(standings, *st)
	}
	sort.Slice(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.WinRate != b.WinRate {
			return a.WinRate > b.WinRate
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.TeamID < b.TeamID
	})
	return standings
}
