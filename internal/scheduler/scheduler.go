// Package scheduler drives periodic scout runs.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"eventscout/internal/model"
)

// Runner executes one full pipeline run.
type Runner interface {
	Run(ctx context.Context) (*model.RunSummary, error)
}

// Scheduler runs the scout once at startup and then on a fixed interval.
type Scheduler struct {
	runner   Runner
	log      *slog.Logger
	interval time.Duration
}

// New creates a Scheduler with the given run interval.
func New(runner Runner, interval time.Duration, log *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		log:      log,
		interval: interval,
	}
}

// Run starts the scheduler loop, blocking until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// runOnce executes a single run. A failed run is logged; recovery is simply
// the next scheduled invocation.
func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := s.runner.Run(ctx); err != nil {
		s.log.Error("scout run failed", "error", err)
	}
}
