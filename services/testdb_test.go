package services

import (
	"testing"
	"time"

	"scrim-stats-system/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory database with the full schema migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Team{},
		&models.Player{},
		&models.PlayerAlias{},
		&models.PlayerTeamHistory{},
		&models.Hero{},
		&models.ScrimGroup{},
		&models.Match{},
		&models.PlayerMatchStat{},
		&models.MatchAward{},
		&models.MatchEditHistory{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// newTestMatchService wires a MatchService with all its collaborators over
// the given database, including the history back-reference.
func newTestMatchService(db *gorm.DB) (*MatchService, *EditHistoryService) {
	players := NewPlayerService(db)
	groups := NewScrimGroupService(db)
	awards := NewAwardService(db)
	heroes := NewHeroService(db)
	history := NewEditHistoryService(db)
	matches := NewMatchService(db, players, groups, awards, heroes, history)
	history.Matches = matches
	return matches, history
}

// seedMatch creates two teams and a match between them.
func seedMatch(t *testing.T, db *gorm.DB) *models.Match {
	t.Helper()
	blue := models.Team{ID: uuid.NewString(), TeamName: "Blue Team", TeamAbbreviation: "BLU"}
	red := models.Team{ID: uuid.NewString(), TeamName: "Red Team", TeamAbbreviation: "RED"}
	for _, team := range []*models.Team{&blue, &red} {
		if err := db.Create(team).Error; err != nil {
			t.Fatalf("seed team: %v", err)
		}
	}
	match := models.Match{
		ID:             uuid.NewString(),
		SubmittedByID:  "seeder",
		MatchDate:      time.Date(2026, 8, 28, 19, 0, 0, 0, time.UTC),
		BlueSideTeamID: blue.ID,
		RedSideTeamID:  red.ID,
		ScrimType:      models.ScrimTypeScrimmage,
	}
	if err := db.Create(&match).Error; err != nil {
		t.Fatalf("seed match: %v", err)
	}
	return &match
}

// seedStat creates one committed stat row on the match's blue side.
func seedStat(t *testing.T, db *gorm.DB, match *models.Match, playerID string, kills, deaths, assists int) *models.PlayerMatchStat {
	t.Helper()
	stat := models.PlayerMatchStat{
		ID:          uuid.NewString(),
		MatchID:     match.ID,
		PlayerID:    playerID,
		TeamID:      match.BlueSideTeamID,
		Kills:       kills,
		Deaths:      deaths,
		Assists:     assists,
		ComputedKDA: ComputeKDA(kills, deaths, assists),
	}
	if err := db.Create(&stat).Error; err != nil {
		t.Fatalf("seed stat: %v", err)
	}
	return &stat
}
