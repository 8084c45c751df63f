package services

import (
	"log"
	"sort"

	"scrim-stats-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AwardService computes per-match superlatives. Assignment is
// clear-then-recreate: the full award set is replaced atomically so removed
// players can never leave orphaned awards behind.
type AwardService struct {
	DB *gorm.DB
}

func NewAwardService(db *gorm.DB) *AwardService {
	return &AwardService{DB: db}
}

// pickTop returns the stat row with the best value among rows passing the
// filter. Ties break on ascending player id, not arrival order, so repeated
// computation over the same rows always lands on the same player.
func pickTop(stats []models.PlayerMatchStat, value func(models.PlayerMatchStat) (float64, bool), descending bool) *models.PlayerMatchStat {
	type ranked struct {
		stat  models.PlayerMatchStat
		value float64
	}
	var eligible []ranked
	for _, st := range stats {
		if v, ok := value(st); ok {
			eligible = append(eligible, ranked{stat: st, value: v})
		}
	}
	if len(eligible) == 0 {
		return nil
	}
	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].value != eligible[j].value {
			if descending {
				return eligible[i].value > eligible[j].value
			}
			return eligible[i].value < eligible[j].value
		}
		return eligible[i].stat.PlayerID < eligible[j].stat.PlayerID
	})
	top := eligible[0].stat
	return &top
}

// ComputeMatchAwards derives the full award set from committed stat rows.
// Pure — persistence happens in AssignMatchAwards. An empty stat set yields
// an empty award set.
func ComputeMatchAwards(match *models.Match, stats []models.PlayerMatchStat) []models.MatchAward {
	if len(stats) == 0 {
		return nil
	}

	var awards []models.MatchAward
	add := func(awardType string, st *models.PlayerMatchStat, value float64) {
		if st == nil {
			return
		}
		awards = append(awards, models.MatchAward{
			MatchID:   match.ID,
			PlayerID:  st.PlayerID,
			AwardType: awardType,
			StatValue: value,
		})
	}

	statFor := func(playerID string) *models.PlayerMatchStat {
		for i := range stats {
			if stats[i].PlayerID == playerID {
				return &stats[i]
			}
		}
		return nil
	}

	// MVP and MVP of the losing side are human selections; the award just
	// records the chosen player's KDA as its value.
	if match.MVPID != nil {
		if st := statFor(*match.MVPID); st != nil {
			add(models.AwardMVP, st, st.ComputedKDA)
		}
	}
	if match.MVPLossID != nil {
		if st := statFor(*match.MVPLossID); st != nil {
			add(models.AwardMVPLoss, st, st.ComputedKDA)
		}
	}

	if st := pickTop(stats, func(s models.PlayerMatchStat) (float64, bool) {
		return s.ComputedKDA, true
	}, true); st != nil {
		add(models.AwardBestKDA, st, st.ComputedKDA)
	}

	if st := pickTop(stats, func(s models.PlayerMatchStat) (float64, bool) {
		return float64(s.Kills), true
	}, true); st != nil {
		add(models.AwardMostKills, st, float64(st.Kills))
	}

	if st := pickTop(stats, func(s models.PlayerMatchStat) (float64, bool) {
		return float64(s.Assists), true
	}, true); st != nil {
		add(models.AwardMostAssists, st, float64(st.Assists))
	}

	// Zero-death rows would trivially dominate, so only deaths > 0 compete.
	if st := pickTop(stats, func(s models.PlayerMatchStat) (float64, bool) {
		return float64(s.Deaths), s.Deaths > 0
	}, false); st != nil {
		add(models.AwardLeastDeaths, st, float64(st.Deaths))
	}

	// Economy superlatives only exist when at least one row recorded the
	// stat with a positive value.
	optional := func(get func(models.PlayerMatchStat) *int) func(models.PlayerMatchStat) (float64, bool) {
		return func(s models.PlayerMatchStat) (float64, bool) {
			v := get(s)
			if v == nil || *v <= 0 {
				return 0, false
			}
			return float64(*v), true
		}
	}
	if st := pickTop(stats, optional(func(s models.PlayerMatchStat) *int { return s.DamageDealt }), true); st != nil {
		add(models.AwardMostDamage, st, float64(*st.DamageDealt))
	}
	if st := pickTop(stats, optional(func(s models.PlayerMatchStat) *int { return s.GoldEarned }), true); st != nil {
		add(models.AwardMostGold, st, float64(*st.GoldEarned))
	}
	if st := pickTop(stats, optional(func(s models.PlayerMatchStat) *int { return s.TurretDamage }), true); st != nil {
		add(models.AwardMostTurretDmg, st, float64(*st.TurretDamage))
	}
	if st := pickTop(stats, optional(func(s models.PlayerMatchStat) *int { return s.DamageTaken }), true); st != nil {
		add(models.AwardMostDamageTaken, st, float64(*st.DamageTaken))
	}

	return awards
}

// AssignMatchAwards replaces the match's award set with a freshly computed
// one. A match with no stat rows ends up with no awards.
func (s *AwardService) AssignMatchAwards(match *models.Match) ([]models.MatchAward, error) {
	var stats []models.PlayerMatchStat
	if err := s.DB.Where("match_id = ?", match.ID).Find(&stats).Error; err != nil {
		return nil, err
	}

	awards := ComputeMatchAwards(match, stats)

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("match_id = ?", match.ID).Delete(&models.MatchAward{}).Error; err != nil {
			return err
		}
		for i := range awards {
			awards[i].ID = uuid.NewString()
			if err := tx.Create(&awards[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return awards, nil
}

// --- HTTP surface ---

func (s *AwardService) GetMatchAwards(c *fiber.Ctx) error {
	var awards []models.MatchAward
	err := s.DB.Preload("Player").
		Where("match_id = ?", c.Params("id")).
		Order("award_type ASC").
		Find(&awards).Error
	if err != nil {
		log.Printf("ERROR fetching awards for match %s: %v", c.Params("id"), err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch awards"})
	}
	return c.JSON(awards)
}

// GetPlayerAwards summarizes a player's award counts by type.
func (s *AwardService) GetPlayerAwards(c *fiber.Ctx) error {
	playerID := c.Params("id")
	type awardCount struct {
		AwardType string `json:"award_type"`
		Count     int64  `json:"count"`
	}
	var counts []awardCount
	err := s.DB.Model(&models.MatchAward{}).
		Select("award_type, COUNT(*) AS count").
		Where("player_id = ?", playerID).
		Group("award_type").
		Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch award summary"})
	}
	return c.JSON(counts)
}
