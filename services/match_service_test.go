package services

import (
	"testing"

	"scrim-stats-system/models"
)

const (
	teamBlue  = "team-blue"
	teamRed   = "team-red"
	teamOther = "team-other"
)

// makeMatch builds a minimal match shell between teamBlue and teamRed with
// side teams preloaded the way the derivation code sees them.
func makeMatch() *models.Match {
	return &models.Match{
		ID:             "match-1",
		BlueSideTeamID: teamBlue,
		RedSideTeamID:  teamRed,
		BlueSideTeam:   models.Team{ID: teamBlue, TeamName: "Blue Team"},
		RedSideTeam:    models.Team{ID: teamRed, TeamName: "Red Team"},
		ScrimType:      models.ScrimTypeScrimmage,
	}
}

func makeStat(playerID, teamID string, kills, deaths, assists int) models.PlayerMatchStat {
	return models.PlayerMatchStat{
		ID:          "stat-" + playerID,
		MatchID:     "match-1",
		PlayerID:    playerID,
		TeamID:      teamID,
		Kills:       kills,
		Deaths:      deaths,
		Assists:     assists,
		ComputedKDA: ComputeKDA(kills, deaths, assists),
	}
}

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

func TestComputeKDA(t *testing.T) {
	cases := []struct {
		kills, deaths, assists int
		want                   float64
	}{
		{5, 2, 0, 2.5},
		{3, 4, 7, 2.5},
		{0, 0, 0, 0},
		{3, 0, 2, 5},  // deathless game counts raw kills + assists
		{10, 1, 0, 10},
	}
	for _, c := range cases {
		if got := ComputeKDA(c.kills, c.deaths, c.assists); got != c.want {
			t.Errorf("ComputeKDA(%d,%d,%d) = %v, want %v", c.kills, c.deaths, c.assists, got, c.want)
		}
	}
}

func TestBuildScoreDetailsSumsKillsPerSide(t *testing.T) {
	match := makeMatch()
	stats := []models.PlayerMatchStat{
		makeStat("p1", teamBlue, 5, 2, 3),
		makeStat("p2", teamBlue, 2, 1, 8),
		makeStat("p3", teamRed, 4, 3, 1),
	}
	stats[0].GoldEarned = intPtr(12000)
	stats[1].GoldEarned = intPtr(9000)

	sd := BuildScoreDetails(match, stats)

	if sd.BlueSide.Score != 7 {
		t.Errorf("blue score = %d, want 7", sd.BlueSide.Score)
	}
	if sd.RedSide.Score != 4 {
		t.Errorf("red score = %d, want 4", sd.RedSide.Score)
	}
	if sd.BlueSide.Totals.Assists != 11 {
		t.Errorf("blue assists = %d, want 11", sd.BlueSide.Totals.Assists)
	}
	if sd.BlueSide.Totals.GoldEarned != 21000 {
		t.Errorf("blue gold = %d, want 21000", sd.BlueSide.Totals.GoldEarned)
	}
	if sd.BlueSide.TeamName != "Blue Team" || sd.RedSide.TeamName != "Red Team" {
		t.Errorf("team names not carried: %q / %q", sd.BlueSide.TeamName, sd.RedSide.TeamName)
	}
	if sd.ScoredBy != "kills" {
		t.Errorf("scored_by = %q, want kills", sd.ScoredBy)
	}
}

func TestBuildScoreDetailsIsDeterministic(t *testing.T) {
	match := makeMatch()
	stats := []models.PlayerMatchStat{
		makeStat("p1", teamBlue, 5, 2, 3),
		makeStat("p3", teamRed, 4, 3, 1),
	}
	first := BuildScoreDetails(match, stats)
	second := BuildScoreDetails(match, stats)
	if first != second {
		t.Errorf("recomputation changed the result: %+v vs %+v", first, second)
	}
}

func TestBuildScoreDetailsEmptyStats(t *testing.T) {
	sd := BuildScoreDetails(makeMatch(), nil)
	if sd.BlueSide.Score != 0 || sd.RedSide.Score != 0 {
		t.Errorf("empty stats should score 0-0, got %d-%d", sd.BlueSide.Score, sd.RedSide.Score)
	}
}

func TestDetermineOutcome(t *testing.T) {
	match := makeMatch()

	if got := DetermineOutcome(match); got != nil {
		t.Errorf("no winner and no our-team should give nil outcome, got %q", *got)
	}

	match.OurTeamID = strPtr(teamBlue)
	if got := DetermineOutcome(match); got != nil {
		t.Errorf("no winner should give nil outcome, got %q", *got)
	}

	match.WinningTeamID = strPtr(teamBlue)
	if got := DetermineOutcome(match); got == nil || *got != models.OutcomeVictory {
		t.Errorf("our team winning should be VICTORY, got %v", got)
	}

	match.WinningTeamID = strPtr(teamRed)
	if got := DetermineOutcome(match); got == nil || *got != models.OutcomeDefeat {
		t.Errorf("our team losing should be DEFEAT, got %v", got)
	}

	match.OurTeamID = nil
	if got := DetermineOutcome(match); got != nil {
		t.Errorf("observational match should keep nil outcome, got %q", *got)
	}
}

func TestValidateStatTeamsRejectsThirdTeam(t *testing.T) {
	match := makeMatch()
	stats := []models.PlayerMatchStat{
		makeStat("p1", teamBlue, 1, 1, 1),
		makeStat("p2", teamOther, 2, 2, 2),
	}
	err := ValidateStatTeams(match, stats)
	if err == nil {
		t.Fatal("expected an error for a stat row on a non-side team")
	}
}

func TestValidateStatTeamsAcceptsBothSides(t *testing.T) {
	match := makeMatch()
	stats := []models.PlayerMatchStat{
		makeStat("p1", teamBlue, 1, 1, 1),
		makeStat("p2", teamRed, 2, 2, 2),
	}
	if err := ValidateStatTeams(match, stats); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateSideReference(t *testing.T) {
	match := makeMatch()

	err := validateSideReference(match, map[string]interface{}{"winning_team_id": teamOther})
	if err == nil {
		t.Error("a third team as winner must be rejected")
	}
	err = validateSideReference(match, map[string]interface{}{"our_team_id": teamOther})
	if err == nil {
		t.Error("a third team as our-team context must be rejected")
	}

	err = validateSideReference(match, map[string]interface{}{
		"winning_team_id": teamRed,
		"our_team_id":     teamBlue,
	})
	if err != nil {
		t.Errorf("side teams should pass: %v", err)
	}

	// Clearing a reference is a legal edit.
	if err := validateSideReference(match, map[string]interface{}{"winning_team_id": nil}); err != nil {
		t.Errorf("null should pass: %v", err)
	}
	// Untouched fields are not validated.
	if err := validateSideReference(match, map[string]interface{}{"general_notes": "x"}); err != nil {
		t.Errorf("unrelated fields should pass: %v", err)
	}
}

func TestRejectedReplaceKeepsCommittedStats(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestMatchService(db)
	match := seedMatch(t, db)
	seedStat(t, db, match, "p1", 5, 2, 3)

	status, _ := svc.commitStats(match, []StatSubmission{
		{IGN: "p-bad", PlayerID: "p-bad", Kills: -3},
	}, nil, true)
	if status != 400 {
		t.Fatalf("negative kills should be rejected with 400, got %d", status)
	}

	var count int64
	db.Model(&models.PlayerMatchStat{}).Where("match_id = ?", match.ID).Count(&count)
	if count != 1 {
		t.Fatalf("a rejected replace must leave committed rows intact, have %d want 1", count)
	}
}

func TestSuccessfulReplaceSwapsStatsAtomically(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestMatchService(db)
	match := seedMatch(t, db)
	old := seedStat(t, db, match, "p1", 5, 2, 3)

	status, msg := svc.commitStats(match, []StatSubmission{
		{IGN: "p2", PlayerID: "p2", Kills: 4, Deaths: 1, Assists: 6},
	}, nil, true)
	if status != 0 {
		t.Fatalf("valid replace failed: %d %s", status, msg)
	}

	var stats []models.PlayerMatchStat
	db.Where("match_id = ?", match.ID).Find(&stats)
	if len(stats) != 1 {
		t.Fatalf("replace should leave exactly the new rows, have %d", len(stats))
	}
	if stats[0].ID == old.ID || stats[0].PlayerID != "p2" {
		t.Errorf("old row survived the replace: %+v", stats[0])
	}

	// Pipeline reran over the replacement rows.
	db.First(match, "id = ?", match.ID)
	sd := match.ScoreDetails()
	if sd == nil || sd.BlueSide.Score != 4 {
		t.Errorf("score details not recomputed from replacement rows: %+v", sd)
	}
}
