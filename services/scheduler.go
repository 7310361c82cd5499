// services/scheduler.go
package services

import (
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartResetTicker refreshes the cached streak reset timers once per minute.
// The job performs no store access.
func (s *StreakService) StartResetTicker() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			s.RefreshResetTimers(time.Now())
		}),
	)
}
