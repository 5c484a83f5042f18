// Package scheduler wires up the cron job that periodically refreshes the
// job listings so the store stays fresh even when no client asks for it.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/remotedeck/jobboard-api/internal/listing"
)

// Refresher runs one refresh cycle. Satisfied by *listing.Service.
type Refresher interface {
	Refresh(ctx context.Context, force bool) (*listing.RefreshResult, error)
}

// Scheduler wraps robfig/cron around the refresher.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	spec      string
	disabled  bool
}

// New creates a Scheduler firing every interval. A disabled scheduler still
// starts but every tick is a logged no-op, mirroring the DISABLE_UPDATES
// switch.
func New(refresher Refresher, interval time.Duration, disabled bool) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		refresher: refresher,
		spec:      fmt.Sprintf("@every %s", interval),
		disabled:  disabled,
	}
}

// Start registers the job and starts the scheduler. Also runs one refresh
// immediately so storage is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.run(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	slog.Info("scheduler started", "spec", s.spec, "disabled", s.disabled)

	// Run immediately on startup (non-blocking).
	go s.run(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	slog.Info("scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	if s.disabled {
		slog.Info("job updates disabled, skipping scheduled refresh")
		return
	}
	if ctx.Err() != nil {
		return
	}

	result, err := s.refresher.Refresh(ctx, false)
	if err != nil {
		slog.Error("scheduled refresh", "error", err)
		return
	}
	if result.Skipped {
		return
	}
	slog.Info("scheduled refresh complete", "jobCount", result.JobCount)
}
