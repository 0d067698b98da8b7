package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"BiasFeed/internal/ports"
	"BiasFeed/internal/state"
)

// Refresher reloads the story feed on a schedule.
type Refresher struct {
	driver ports.Scheduler
	feed   *StoryFeed
	logger *slog.Logger
}

// NewRefresher pairs a scheduler with the story feed.
func NewRefresher(driver ports.Scheduler, feed *StoryFeed, logger *slog.Logger) *Refresher {
	return &Refresher{driver: driver, feed: feed, logger: logger}
}

// Start registers the refresh job.
func (r *Refresher) Start(ctx context.Context) error {
	if r.driver == nil || r.feed == nil {
		return nil
	}

	job := func(trigger time.Time) {
		_, err := r.feed.Refresh(ctx)
		if err != nil && !errors.Is(err, state.ErrSuperseded) && r.logger != nil {
			r.logger.Warn("scheduled refresh failed", "at", trigger, "error", err)
		}
	}

	return r.driver.Start(ctx, job)
}

// Stop tears down the schedule.
func (r *Refresher) Stop(ctx context.Context) error {
	if r.driver == nil {
		return nil
	}
	return r.driver.Stop(ctx)
}
