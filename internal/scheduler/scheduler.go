// Package scheduler periodically closes out bookings whose stay has ended.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type bookingCompleter interface {
	CompleteFinishedBookings(ctx context.Context, now time.Time) (int, error)
}

type Scheduler struct {
	bookings bookingCompleter
	interval time.Duration
	log      *zap.Logger
	now      func() time.Time
}

func New(bookings bookingCompleter, interval time.Duration, log *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		bookings: bookings,
		interval: interval,
		log:      log.With(zap.String("component", "scheduler")),
		now:      time.Now,
	}
}

// Start blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("Scheduler started", zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	count, err := s.bookings.CompleteFinishedBookings(ctx, s.now())
	if err != nil {
		s.log.Error("Failed to complete finished bookings", zap.Error(err))
		return
	}
	if count > 0 {
		s.log.Info("Finished bookings completed", zap.Int("count", count))
	}
}
