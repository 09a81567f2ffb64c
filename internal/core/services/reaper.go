package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bookstay/hotel-booking-engine/internal/core/domain"
	"github.com/bookstay/hotel-booking-engine/internal/core/ports"
)

const reaperBatchSize = 100

// Reaper sweeps bookings whose hold window lapsed before payment and
// returns their reserved inventory. Expiry stays a read-time guard on
// every mutating call regardless; the sweep only reclaims capacity.
type Reaper struct {
	bookingRepo ports.BookingRepository
	log         *logrus.Logger
	interval    time.Duration
	now         func() time.Time
}

func NewReaper(bookingRepo ports.BookingRepository, log *logrus.Logger) *Reaper {
	return &Reaper{
		bookingRepo: bookingRepo,
		log:         log,
		interval:    time.Minute,
		now:         time.Now,
	}
}

// Run blocks until the context is cancelled, sweeping once per tick.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.Info("expiry reaper started, sweeping every minute")

	for {
		select {
		case <-ctx.Done():
			r.log.Info("expiry reaper stopped")
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reaper) sweep(ctx context.Context) {
	cutoff := r.now().Add(-domain.HoldWindow)

	expired, err := r.bookingRepo.ListExpired(ctx, cutoff, reaperBatchSize)
	if err != nil {
		r.log.WithError(err).Error("failed to fetch expired bookings")
		return
	}

	if len(expired) == 0 {
		return
	}

	r.log.WithField("count", len(expired)).Info("reclaiming expired booking holds")

	for i := range expired {
		if err := r.bookingRepo.Expire(ctx, &expired[i]); err != nil {
			r.log.WithError(err).WithField("booking_id", expired[i].ID).Error("failed to expire booking")
			continue
		}

		r.log.WithField("booking_id", expired[i].ID).Info("booking expired and hold released")
	}
}
