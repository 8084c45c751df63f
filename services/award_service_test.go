package services

import (
	"testing"

	"scrim-stats-system/models"
)

func awardByType(awards []models.MatchAward, awardType string) *models.MatchAward {
	for i := range awards {
		if awards[i].AwardType == awardType {
			return &awards[i]
		}
	}
	return nil
}

func TestComputeMatchAwardsEmptyStats(t *testing.T) {
	if awards := ComputeMatchAwards(makeMatch(), nil); len(awards) != 0 {
		t.Errorf("no stats should yield no awards, got %d", len(awards))
	}
}

func TestComputeMatchAwardsBasics(t *testing.T) {
	match := makeMatch()
	stats := []models.PlayerMatchStat{
		makeStat("p1", teamBlue, 10, 2, 4), // KDA 7.0, most kills
		makeStat("p2", teamBlue, 2, 1, 12), // KDA 14.0, best KDA, most assists
		makeStat("p3", teamRed, 4, 8, 3),   // most deaths
	}

	awards := ComputeMatchAwards(match, stats)

	if a := awardByType(awards, models.AwardBestKDA); a == nil || a.PlayerID != "p2" {
		t.Errorf("best KDA should go to p2, got %+v", a)
	}
	if a := awardByType(awards, models.AwardMostKills); a == nil || a.PlayerID != "p1" || a.StatValue != 10 {
		t.Errorf("most kills should go to p1 with 10, got %+v", a)
	}
	if a := awardByType(awards, models.AwardMostAssists); a == nil || a.PlayerID != "p2" {
		t.Errorf("most assists should go to p2, got %+v", a)
	}
	if a := awardByType(awards, models.AwardLeastDeaths); a == nil || a.PlayerID != "p2" || a.StatValue != 1 {
		t.Errorf("least deaths should go to p2 with 1, got %+v", a)
	}
}

func TestComputeMatchAwardsTieBreaksOnPlayerID(t *testing.T) {
	match := makeMatch()
	stats := []models.PlayerMatchStat{
		makeStat("p2", teamBlue, 8, 2, 2),
		makeStat("p1", teamRed, 8, 2, 2), // same kills, lower id wins
	}

	awards := ComputeMatchAwards(match, stats)
	if a := awardByType(awards, models.AwardMostKills); a == nil || a.PlayerID != "p1" {
		t.Errorf("tied kills should break to the lower player id, got %+v", a)
	}

	// Reordering the input must not change the winner.
	stats[0], stats[1] = stats[1], stats[0]
	awards = ComputeMatchAwards(match, stats)
	if a := awardByType(awards, models.AwardMostKills); a == nil || a.PlayerID != "p1" {
		t.Errorf("tie-break depends on input order, got %+v", a)
	}
}

func TestComputeMatchAwardsLeastDeathsExcludesZero(t *testing.T) {
	match := makeMatch()
	stats := []models.PlayerMatchStat{
		makeStat("p1", teamBlue, 3, 0, 2), // deathless, not eligible
		makeStat("p2", teamRed, 1, 3, 1),
	}
	awards := ComputeMatchAwards(match, stats)
	if a := awardByType(awards, models.AwardLeastDeaths); a == nil || a.PlayerID != "p2" {
		t.Errorf("deathless rows must not win least deaths, got %+v", a)
	}
}

func TestComputeMatchAwardsEconomyOmittedWhenAbsent(t *testing.T) {
	match := makeMatch()
	stats := []models.PlayerMatchStat{
		makeStat("p1", teamBlue, 3, 1, 2),
		makeStat("p2", teamRed, 1, 3, 1),
	}
	awards := ComputeMatchAwards(match, stats)
	for _, awardType := range []string{
		models.AwardMostDamage, models.AwardMostGold,
		models.AwardMostTurretDmg, models.AwardMostDamageTaken,
	} {
		if a := awardByType(awards, awardType); a != nil {
			t.Errorf("%s should not exist with no economy data, got %+v", awardType, a)
		}
	}

	stats[0].GoldEarned = intPtr(15000)
	awards = ComputeMatchAwards(match, stats)
	if a := awardByType(awards, models.AwardMostGold); a == nil || a.PlayerID != "p1" || a.StatValue != 15000 {
		t.Errorf("most gold should go to p1 with 15000, got %+v", a)
	}
}

func TestComputeMatchAwardsMVPFromSelection(t *testing.T) {
	match := makeMatch()
	match.MVPID = strPtr("p1")
	match.MVPLossID = strPtr("p3")
	stats := []models.PlayerMatchStat{
		makeStat("p1", teamBlue, 10, 2, 4),
		makeStat("p3", teamRed, 4, 8, 3),
	}

	awards := ComputeMatchAwards(match, stats)
	if a := awardByType(awards, models.AwardMVP); a == nil || a.PlayerID != "p1" || a.StatValue != 7.0 {
		t.Errorf("MVP should record p1's KDA 7.0, got %+v", a)
	}
	if a := awardByType(awards, models.AwardMVPLoss); a == nil || a.PlayerID != "p3" {
		t.Errorf("MVP loss should go to p3, got %+v", a)
	}
}

func TestComputeMatchAwardsMVPSkipsMissingStat(t *testing.T) {
	match := makeMatch()
	match.MVPID = strPtr("p-gone")
	stats := []models.PlayerMatchStat{makeStat("p1", teamBlue, 1, 1, 1)}

	awards := ComputeMatchAwards(match, stats)
	if a := awardByType(awards, models.AwardMVP); a != nil {
		t.Errorf("MVP referencing a player with no stat row should be skipped, got %+v", a)
	}
}

func TestComputeMatchAwardsIsIdempotent(t *testing.T) {
	match := makeMatch()
	stats := []models.PlayerMatchStat{
		makeStat("p1", teamBlue, 5, 2, 3),
		makeStat("p2", teamRed, 3, 4, 6),
	}
	first := ComputeMatchAwards(match, stats)
	second := ComputeMatchAwards(match, stats)
	if len(first) != len(second) {
		t.Fatalf("award count changed between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].AwardType != second[i].AwardType ||
			first[i].PlayerID != second[i].PlayerID ||
			first[i].StatValue != second[i].StatValue {
			t.Errorf("award %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
