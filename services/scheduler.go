// services/scheduler.go
package services

import (
	"log"
	"time"

	"scrim-stats-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartRecomputeScheduler sweeps recently updated matches and re-derives
// their score details, outcome and awards. Catches anything a failed
// pipeline run left stale.
func (s *MatchService) StartRecomputeScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every 15 minutes: recompute matches touched in the last hour
	_, _ = sched.NewJob(
		gocron.DurationJob(15*time.Minute),
		gocron.NewTask(func() {
			var matches []models.Match
			cutoff := time.Now().Add(-1 * time.Hour)
			err := s.DB.Where("updated_at >= ?", cutoff).
				Find(&matches).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}

			for _, m := range matches {
				if err := s.ProcessMatchWrite(m.ID); err != nil {
					log.Printf("[Scheduler] Failed to recompute match %s: %v", m.ID, err)
				}
			}
			if len(matches) > 0 {
				log.Printf("✅ Recompute sweep covered %d match(es)", len(matches))
			}
		}),
	)
}
