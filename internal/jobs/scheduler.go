// Package jobs runs the storefront's background tasks on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Refresher reloads the catalog snapshot.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Sweeper drops expired cache entries and reports how many went.
type Sweeper interface {
	CleanAll() int
}

// Config holds scheduler intervals.
type Config struct {
	RefreshEvery time.Duration
	CleanupEvery time.Duration
}

// Scheduler owns the cron runner.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	sweeper   Sweeper
	config    Config
}

// NewScheduler creates a scheduler. Either dependency may be nil.
func NewScheduler(refresher Refresher, sweeper Sweeper, config Config) *Scheduler {
	if config.CleanupEvery <= 0 {
		config.CleanupEvery = 5 * time.Minute
	}
	return &Scheduler{
		cron:      cron.New(cron.WithChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{}))),
		refresher: refresher,
		sweeper:   sweeper,
		config:    config,
	}
}

// Start registers the jobs and starts the runner. ctx is handed to every run.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.refresher != nil && s.config.RefreshEvery > 0 {
		if _, err := s.cron.AddFunc(every(s.config.RefreshEvery), func() { s.refresh(ctx) }); err != nil {
			return fmt.Errorf("schedule catalog refresh: %w", err)
		}
	}
	if s.sweeper != nil {
		if _, err := s.cron.AddFunc(every(s.config.CleanupEvery), s.sweep); err != nil {
			return fmt.Errorf("schedule cache cleanup: %w", err)
		}
	}

	s.cron.Start()
	slog.InfoContext(ctx, "Scheduler started",
		"component", "jobs",
		"jobs", len(s.cron.Entries()),
		"refresh_every", s.config.RefreshEvery.String(),
		"cleanup_every", s.config.CleanupEvery.String())
	return nil
}

func (s *Scheduler) refresh(ctx context.Context) {
	if err := s.refresher.Refresh(ctx); err != nil {
		slog.ErrorContext(ctx, "Scheduled catalog refresh failed", "component", "jobs", "error", err)
	}
}

func (s *Scheduler) sweep() {
	if n := s.sweeper.CleanAll(); n > 0 {
		slog.Debug("Expired cache entries removed", "component", "jobs", "removed", n)
	}
}

// Stop stops the runner and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("Scheduler stopped", "component", "jobs")
}

func every(d time.Duration) string {
	return "@every " + d.String()
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug(msg, append([]any{"component", "jobs"}, keysAndValues...)...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error(msg, append([]any{"component", "jobs", "error", err}, keysAndValues...)...)
}
