package services

import (
	"testing"

	"scrim-stats-system/models"
)

func candidate(playerID, matchType string) PlayerCandidate {
	return PlayerCandidate{PlayerID: playerID, CurrentIGN: "SomeIGN", MatchType: matchType}
}

func hasAction(r PlayerResolution, action string) bool {
	for _, a := range r.PossibleActions {
		if a == action {
			return true
		}
	}
	return false
}

func TestResolveIdentityExactMatch(t *testing.T) {
	exact := &models.Player{ID: "p1", CurrentIGN: "Kairos"}
	r := resolveIdentity("Kairos", "team-1", exact, nil, nil)
	if !r.Resolved || r.Player == nil || r.Player.ID != "p1" {
		t.Fatalf("exact match should resolve immediately, got %+v", r)
	}
}

func TestResolveIdentityNoCandidates(t *testing.T) {
	r := resolveIdentity("BrandNew", "team-1", nil, nil, nil)
	if r.Resolved || r.NeedsVerification {
		t.Fatalf("unknown IGN with no candidates should be a silent create, got %+v", r)
	}
	if !r.NewPlayer {
		t.Error("expected NewPlayer to be set")
	}
	if len(r.PossibleActions) != 1 || r.PossibleActions[0] != ActionCreateNew {
		t.Errorf("only create_new should be offered, got %v", r.PossibleActions)
	}
}

func TestResolveIdentityAliasMatchNeedsVerification(t *testing.T) {
	aliases := []PlayerCandidate{candidate("p1", "alias")}
	r := resolveIdentity("OldName", "team-1", nil, aliases, nil)
	if !r.NeedsVerification {
		t.Fatalf("alias hit must go through human verification, got %+v", r)
	}
	if !hasAction(r, ActionCreateNew) || !hasAction(r, ActionUseExisting) {
		t.Errorf("expected create_new and use_existing, got %v", r.PossibleActions)
	}
	if hasAction(r, ActionTransferPlayer) {
		t.Errorf("no other-team candidates, transfer should not be offered: %v", r.PossibleActions)
	}
}

func TestResolveIdentityOtherTeamOffersTransfer(t *testing.T) {
	others := []PlayerCandidate{candidate("p2", "other_team")}
	r := resolveIdentity("Kairos", "team-1", nil, nil, others)
	if !r.NeedsVerification {
		t.Fatalf("same IGN on another team must need verification, got %+v", r)
	}
	if !hasAction(r, ActionTransferPlayer) {
		t.Errorf("expected transfer_player to be offered, got %v", r.PossibleActions)
	}
	if hasAction(r, ActionUseExisting) {
		t.Errorf("no alias candidates, use_existing should not be offered: %v", r.PossibleActions)
	}
}

func TestResolveIdentityMergesCandidateLists(t *testing.T) {
	aliases := []PlayerCandidate{candidate("p1", "alias")}
	others := []PlayerCandidate{candidate("p2", "other_team")}
	r := resolveIdentity("Kairos", "team-1", nil, aliases, others)
	if len(r.PotentialMatches) != 2 {
		t.Fatalf("expected both candidates surfaced, got %d", len(r.PotentialMatches))
	}
	if len(r.PossibleActions) != 3 {
		t.Errorf("all three actions should be offered, got %v", r.PossibleActions)
	}
}

func TestTransferPlan(t *testing.T) {
	open := &models.PlayerTeamHistory{ID: "h1", PlayerID: "p1", TeamID: "team-1"}

	if closeCur, openNew := transferPlan(nil, "team-2"); closeCur || !openNew {
		t.Errorf("no open membership: want (false,true), got (%v,%v)", closeCur, openNew)
	}
	if closeCur, openNew := transferPlan(open, "team-1"); closeCur || openNew {
		t.Errorf("transfer to current team: want no-op, got (%v,%v)", closeCur, openNew)
	}
	if closeCur, openNew := transferPlan(open, "team-2"); !closeCur || !openNew {
		t.Errorf("real transfer: want (true,true), got (%v,%v)", closeCur, openNew)
	}
}
