// Package expiry persists the expired status on pending bookings
// whose decision window has closed. Reads already derive expiry, the
// sweep makes it durable so offline consumers of the store see it too.
package expiry

import (
	"context"
	"time"

	"nestbay/internal/bookings/repository"
	"nestbay/pkg/logger"

	"github.com/robfig/cron/v3"
)

const sweepTimeout = 30 * time.Second

type Sweeper struct {
	repo repository.BookingRepository
	log  *logger.Logger
	spec string
	cron *cron.Cron
	now  func() time.Time
}

func NewSweeper(repo repository.BookingRepository, log *logger.Logger, spec string) *Sweeper {
	return &Sweeper{
		repo: repo,
		log:  log,
		spec: spec,
		cron: cron.New(),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Sweeper) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("Booking expiry sweeper started", "spec", s.spec)
	return nil
}

// Stop halts scheduling and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Booking expiry sweeper stopped")
}

// RunOnce flips every overdue pending booking to expired. Safe to run
// concurrently with host decisions, the store update is conditional
// on the pending status.
func (s *Sweeper) RunOnce(ctx context.Context) {
	expired, err := s.repo.ExpireOverdue(ctx, s.now())
	if err != nil {
		s.log.Error("Booking expiry sweep failed", "error", err)
		return
	}
	if expired > 0 {
		s.log.Info("Booking expiry sweep completed", "expired", expired)
	}
}
