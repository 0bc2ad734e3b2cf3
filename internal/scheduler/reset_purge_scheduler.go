package scheduler

import (
	"github.com/ikkim/tubemark-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// DefaultPurgeSchedule runs the purge at minute 0 of every hour
const DefaultPurgeSchedule = "@hourly"

// ResetPurger removes password resets that can no longer be used
type ResetPurger interface {
	PurgeExpired() (int64, error)
}

// ResetPurgeScheduler periodically deletes expired password reset tokens
type ResetPurgeScheduler struct {
	cron     *cron.Cron
	purger   ResetPurger
	schedule string
}

// NewResetPurgeScheduler builds the scheduler. An empty schedule uses DefaultPurgeSchedule.
func NewResetPurgeScheduler(purger ResetPurger, schedule string) *ResetPurgeScheduler {
	if schedule == "" {
		schedule = DefaultPurgeSchedule
	}
	return &ResetPurgeScheduler{
		cron:     cron.New(),
		purger:   purger,
		schedule: schedule,
	}
}

// Start registers the purge job and starts the cron runner
func (s *ResetPurgeScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.RunOnce); err != nil {
		logger.Error("Failed to add cron job for reset purge", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Reset purge scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

// RunOnce performs a single purge
func (s *ResetPurgeScheduler) RunOnce() {
	logger.Debug("Starting scheduled reset purge")

	count, err := s.purger.PurgeExpired()
	if err != nil {
		logger.Error("Failed to purge expired password resets", err)
		return
	}

	logger.Debug("Scheduled reset purge finished", map[string]interface{}{
		"purged": count,
	})
}

// Stop waits for a running purge to finish, then stops the runner
func (s *ResetPurgeScheduler) Stop() {
	logger.Info("Stopping reset purge scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Reset purge scheduler stopped")
}
