package services

import (
	"testing"
	"time"

	"scrim-stats-system/models"
)

func TestWithinGroupWindow(t *testing.T) {
	base := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		prev time.Time
		next time.Time
		want bool
	}{
		{"thirty minutes apart", base, base.Add(30 * time.Minute), true},
		{"exactly six hours", base, base.Add(6 * time.Hour), true},
		{"six hours one second", base, base.Add(6*time.Hour + time.Second), false},
		{"seven hours", base, base.Add(7 * time.Hour), false},
		{"same instant", base, base, false},
		{"prev after next", base.Add(time.Hour), base, false},
	}
	for _, c := range cases {
		if got := WithinGroupWindow(c.prev, c.next); got != c.want {
			t.Errorf("%s: WithinGroupWindow = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestBuildGroupName(t *testing.T) {
	teamA := models.Team{TeamName: "Ateneo Blue Eagles", TeamAbbreviation: "ADMU"}
	teamB := models.Team{TeamName: "UST Tigers", TeamAbbreviation: "UST"}
	matchDate := time.Date(2026, 8, 28, 19, 30, 0, 0, time.UTC)

	got := BuildGroupName(teamA, teamB, matchDate, models.ScrimTypeScrimmage)
	want := "ADMU vs UST Scrimmage (2026-08-28)"
	if got != want {
		t.Errorf("BuildGroupName = %q, want %q", got, want)
	}
}

func TestBuildGroupNameFallsBackToTeamName(t *testing.T) {
	teamA := models.Team{TeamName: "No Abbrev Team"}
	teamB := models.Team{TeamName: "Other", TeamAbbreviation: "OTH"}
	matchDate := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

	got := BuildGroupName(teamA, teamB, matchDate, models.ScrimTypeTournament)
	want := "No Abbrev Team vs OTH Tournament (2026-01-02)"
	if got != want {
		t.Errorf("BuildGroupName = %q, want %q", got, want)
	}
}
