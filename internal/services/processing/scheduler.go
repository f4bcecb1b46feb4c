package processing

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

// Scheduler runs the re-embedding sweep on a cron schedule
type Scheduler struct {
	service *Service
	cron    *cron.Cron
	logger  arbor.ILogger
}

// NewScheduler creates a new processing scheduler
func NewScheduler(service *Service, logger arbor.ILogger) *Scheduler {
	return &Scheduler{
		service: service,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger,
	}
}

// Start begins the scheduled sweeps
func (s *Scheduler) Start(schedule string) error {
	if schedule == "" {
		// Default: every 15 minutes
		schedule = "0 */15 * * * *"
	}

	_, err := s.cron.AddFunc(schedule, func() {
		s.runSweep()
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().
		Str("schedule", schedule).
		Msg("Re-embedding scheduler started")

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info().Msg("Re-embedding scheduler stopped")
}

// RunNow triggers an immediate sweep
func (s *Scheduler) RunNow() {
	s.logger.Info().Msg("Triggering immediate re-embedding sweep")
	go s.runSweep()
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	stats, err := s.service.ProcessPending(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("Re-embedding sweep failed")
		return
	}

	if stats.Scanned == 0 {
		return
	}

	s.logger.Info().
		Int("scanned", stats.Scanned).
		Int("embedded", stats.Embedded).
		Int("failed", stats.Failed).
		Dur("duration", stats.Duration).
		Msg("Re-embedding sweep completed")
}
