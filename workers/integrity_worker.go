package workers

import (
	"context"
	"log"
	"time"

	"scrim-stats-system/models"
	"scrim-stats-system/services"

	"gorm.io/gorm"
)

// GroupIntegrityWorker merges duplicate scrim groups. Two matches submitted
// at nearly the same moment can each create a group before seeing the
// other's; the worker folds such duplicates into the oldest group and
// renumbers its games.
type GroupIntegrityWorker struct {
	DB     *gorm.DB
	Groups *services.ScrimGroupService
}

func NewGroupIntegrityWorker(db *gorm.DB, groups *services.ScrimGroupService) *GroupIntegrityWorker {
	return &GroupIntegrityWorker{DB: db, Groups: groups}
}

// duplicateKey identifies groups that can only be race artifacts of each
// other: same generated name, same start date.
type duplicateKey struct {
	Name      string
	StartDate string
}

// SweepDuplicateGroups performs one merge pass. Returns the number of groups
// merged away.
func (w *GroupIntegrityWorker) SweepDuplicateGroups() (int, error) {
	var groups []models.ScrimGroup
	if err := w.DB.Order("created_at ASC").Find(&groups).Error; err != nil {
		return 0, err
	}

	byKey := map[duplicateKey][]models.ScrimGroup{}
	for _, g := range groups {
		key := duplicateKey{Name: g.ScrimGroupName, StartDate: g.StartDate.Format("2006-01-02")}
		byKey[key] = append(byKey[key], g)
	}

	merged := 0
	for _, dupes := range byKey {
		if len(dupes) < 2 {
			continue
		}
		// Oldest group (first created) survives.
		keeper := dupes[0]
		for _, dupe := range dupes[1:] {
			err := w.DB.Transaction(func(tx *gorm.DB) error {
				if err := tx.Model(&models.Match{}).
					Where("scrim_group_id = ?", dupe.ID).
					Update("scrim_group_id", keeper.ID).Error; err != nil {
					return err
				}
				return tx.Delete(&models.ScrimGroup{}, "id = ?", dupe.ID).Error
			})
			if err != nil {
				log.Printf("❌ Failed to merge group %s into %s: %v", dupe.ID, keeper.ID, err)
				continue
			}
			merged++
			log.Printf("🔀 Merged duplicate scrim group %s into %s (%q)", dupe.ID, keeper.ID, keeper.ScrimGroupName)
		}
		if err := w.Groups.RenumberGroup(keeper.ID); err != nil {
			log.Printf("❌ Failed to renumber group %s after merge: %v", keeper.ID, err)
		}
	}
	return merged, nil
}

// PollScrimGroups runs the duplicate sweep on a fixed interval until the
// context is cancelled.
func PollScrimGroups(ctx context.Context, worker *GroupIntegrityWorker, pollInterval time.Duration) {
	log.Println("Starting scrim group integrity polling...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Scrim group integrity polling stopped.")
			return
		case <-ticker.C:
			merged, err := worker.SweepDuplicateGroups()
			if err != nil {
				log.Printf("❌ Error sweeping scrim groups: %v", err)
				continue
			}
			if merged > 0 {
				log.Printf("✅ Merged %d duplicate scrim group(s).", merged)
			}
		}
	}
}
