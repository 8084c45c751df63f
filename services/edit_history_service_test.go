package services

import (
	"testing"

	"scrim-stats-system/models"
)

func TestChangedFieldsOnlyReportsDifferences(t *testing.T) {
	before := map[string]interface{}{
		"scrim_type":    "SCRIMMAGE",
		"general_notes": "first draft",
		"game_number":   1,
	}
	after := map[string]interface{}{
		"scrim_type":    "TOURNAMENT",
		"general_notes": "first draft",
		"game_number":   1,
	}

	previous, next := ChangedFields(before, after)
	if len(next) != 1 {
		t.Fatalf("expected one changed field, got %v", next)
	}
	if previous["scrim_type"] != "SCRIMMAGE" || next["scrim_type"] != "TOURNAMENT" {
		t.Errorf("wrong diff: previous=%v next=%v", previous, next)
	}
	if _, ok := next["general_notes"]; ok {
		t.Error("unchanged field leaked into the diff")
	}
}

func TestChangedFieldsIdenticalSnapshots(t *testing.T) {
	snap := map[string]interface{}{"kills": 5, "deaths": 2}
	previous, next := ChangedFields(snap, snap)
	if len(previous) != 0 || len(next) != 0 {
		t.Errorf("identical snapshots should diff empty, got %v / %v", previous, next)
	}
}

func TestChangedFieldsNilTransitions(t *testing.T) {
	var nilStr *string
	value := "UST"

	before := map[string]interface{}{"winning_team_id": nilStr}
	after := map[string]interface{}{"winning_team_id": &value}

	previous, next := ChangedFields(before, after)
	if len(next) != 1 {
		t.Fatalf("nil-to-value should register as a change, got %v", next)
	}
	if previous["winning_team_id"] != nilStr {
		t.Errorf("previous should carry the nil, got %v", previous)
	}
}

func TestChangedFieldsNumericTypesCompareEqual(t *testing.T) {
	// Snapshots built from structs carry int; snapshots decoded from JSON
	// carry float64. The diff must treat 5 and 5.0 as equal.
	before := map[string]interface{}{"kills": 5}
	after := map[string]interface{}{"kills": float64(5)}

	_, next := ChangedFields(before, after)
	if len(next) != 0 {
		t.Errorf("int 5 vs float64 5 should not diff, got %v", next)
	}
}

func TestChangedFieldsDroppedKey(t *testing.T) {
	before := map[string]interface{}{"medal": "gold", "kills": 3}
	after := map[string]interface{}{"kills": 3}

	previous, next := ChangedFields(before, after)
	if previous["medal"] != "gold" {
		t.Errorf("dropped key should appear in previous, got %v", previous)
	}
	if v, ok := next["medal"]; !ok || v != nil {
		t.Errorf("dropped key should map to nil in next, got %v", next)
	}
}

func TestRestoreStatEditReappliesPriorValues(t *testing.T) {
	db := newTestDB(t)
	_, history := newTestMatchService(db)
	match := seedMatch(t, db)
	stat := seedStat(t, db, match, "p1", 5, 2, 3)

	// Edit the row the way UpdateStat does: mutate, recompute KDA, ledger it.
	before := StatSnapshot(stat)
	if err := db.Model(stat).Updates(map[string]interface{}{"kills": 10, "deaths": 1}).Error; err != nil {
		t.Fatalf("apply edit: %v", err)
	}
	db.First(stat, "id = ?", stat.ID)
	db.Model(stat).Update("computed_kda", ComputeKDA(stat.Kills, stat.Deaths, stat.Assists))
	db.First(stat, "id = ?", stat.ID)
	after := StatSnapshot(stat)

	entry, err := history.RecordEdit(match.ID, "editor-1", models.EditTypeStat, before, after, &stat.ID)
	if err != nil {
		t.Fatalf("record edit: %v", err)
	}
	if entry == nil {
		t.Fatal("a real edit must produce a ledger entry")
	}

	restoreEntry, err := history.RestoreEdit(entry.ID, "editor-2")
	if err != nil {
		t.Fatalf("restore edit: %v", err)
	}

	var restored models.PlayerMatchStat
	db.First(&restored, "id = ?", stat.ID)
	if restored.Kills != 5 || restored.Deaths != 2 || restored.Assists != 3 {
		t.Errorf("restore did not reapply prior values: got %d/%d/%d, want 5/2/3",
			restored.Kills, restored.Deaths, restored.Assists)
	}
	if restored.ComputedKDA != 4.0 {
		t.Errorf("KDA not recomputed after restore: got %v, want 4.0", restored.ComputedKDA)
	}

	if restoreEntry == nil || restoreEntry.EditType != models.EditTypeStatRestore {
		t.Fatalf("restore must append a STAT_RESTORE entry, got %+v", restoreEntry)
	}

	// The ledger grew; nothing was rewritten or deleted.
	var count int64
	db.Model(&models.MatchEditHistory{}).Where("match_id = ?", match.ID).Count(&count)
	if count != 2 {
		t.Errorf("ledger should hold the edit and the restore, have %d rows", count)
	}
	var original models.MatchEditHistory
	if err := db.First(&original, "id = ?", entry.ID).Error; err != nil {
		t.Errorf("original edit entry must survive the restore: %v", err)
	}
}
