package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

const scanTimeout = 5 * time.Minute

// Scheduler runs the morning scan on the configured cron schedule so the
// watchlist is already warm when the first request of the day arrives.
type Scheduler struct {
	app  *App
	cron *cron.Cron
}

// NewScheduler creates a scheduler bound to the app's scan service.
func NewScheduler(a *App) *Scheduler {
	return &Scheduler{
		app:  a,
		cron: cron.New(),
	}
}

// Start registers the scan job and begins the cron loop. An empty schedule
// disables the scheduler.
func (s *Scheduler) Start() error {
	schedule := s.app.Config.Scan.Schedule
	if schedule == "" {
		s.app.Logger.Info().Msg("Scan scheduler disabled (no schedule configured)")
		return nil
	}

	if _, err := s.cron.AddFunc(schedule, s.runScan); err != nil {
		return fmt.Errorf("register scan schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	s.app.Logger.Info().Str("schedule", schedule).Msg("Scan scheduler started")
	return nil
}

// Stop halts the cron loop, waiting for a running scan to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runScan() {
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	resp, err := s.app.ScanService.MorningScan(ctx)
	if err != nil {
		s.app.Logger.Error().Err(err).Msg("Scheduled morning scan failed")
		return
	}

	s.app.Logger.Info().
		Int("analyzed", resp.TotalAnalyzed).
		Int("recommendations", len(resp.Recommendations)).
		Msg("Scheduled morning scan complete")
}
