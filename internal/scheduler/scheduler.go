package scheduler

import (
	"context"
	"time"

	"github.com/kanenguyen264-cyber/do-an/internal/log"
	"github.com/kanenguyen264-cyber/do-an/internal/service"
)

// Scheduler drives the time-dependent state transitions: overdue borrowings
// and expired reservations. Both sweeps are idempotent, so overlapping with
// live traffic or an external cron trigger is harmless.
type Scheduler struct {
	borrowings   *service.BorrowingService
	reservations *service.ReservationService
	interval     time.Duration
}

func New(borrowings *service.BorrowingService, reservations *service.ReservationService, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{
		borrowings:   borrowings,
		reservations: reservations,
		interval:     interval,
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *Scheduler) Run(ctx context.Context) {
	logger := log.GetLogger(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.Infof("starting sweep scheduler, interval %s", s.interval)
	for {
		select {
		case <-ctx.Done():
			logger.Infoln("sweep scheduler stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	logger := log.GetLogger(ctx)
	if count, err := s.borrowings.SweepOverdue(ctx); err != nil {
		logger.WithError(err).Errorf("overdue sweep finished with errors, %d transitioned", count)
	} else if count > 0 {
		logger.Infof("overdue sweep transitioned %d borrowings", count)
	}
	if count, err := s.reservations.SweepExpired(ctx); err != nil {
		logger.WithError(err).Errorf("reservation expiry sweep finished with errors, %d expired", count)
	} else if count > 0 {
		logger.Infof("reservation expiry sweep expired %d reservations", count)
	}
}
