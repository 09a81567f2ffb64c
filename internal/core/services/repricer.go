package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/bookstay/hotel-booking-engine/internal/core/domain"
	"github.com/bookstay/hotel-booking-engine/internal/core/pricing"
	"github.com/bookstay/hotel-booking-engine/internal/core/ports"
)

const (
	repricerBatchSize = 100
	repricerLockTTL   = 30 * time.Minute
)

func repricerLockKey(hotelID uuid.UUID) string {
	return fmt.Sprintf("repricer:lock:%s", hotelID)
}

// Repricer recomputes a rolling year of inventory prices for every
// hotel and rebuilds the per-date minimum-price index consumed by
// search. It mutates price fields only, never reservation counts.
type Repricer struct {
	hotelRepo     ports.HotelRepository
	inventoryRepo ports.InventoryRepository
	minPriceRepo  ports.MinPriceRepository
	pricing       *pricing.Service
	cache         *redis.Client
	log           *logrus.Logger
	now           func() time.Time
}

func NewRepricer(
	hotelRepo ports.HotelRepository,
	inventoryRepo ports.InventoryRepository,
	minPriceRepo ports.MinPriceRepository,
	pricingSvc *pricing.Service,
	cache *redis.Client,
	log *logrus.Logger,
) *Repricer {
	return &Repricer{
		hotelRepo:     hotelRepo,
		inventoryRepo: inventoryRepo,
		minPriceRepo:  minPriceRepo,
		pricing:       pricingSvc,
		cache:         cache,
		log:           log,
		now:           time.Now,
	}
}

// WithClock overrides the repricer's reference clock.
func (r *Repricer) WithClock(now func() time.Time) *Repricer {
	r.now = now
	return r
}

// Start registers the hourly schedule and returns the running cron.
// The caller stops it on shutdown.
func (r *Repricer) Start(ctx context.Context) (*cron.Cron, error) {
	c := cron.New()

	if _, err := c.AddFunc("0 * * * *", func() {
		r.RepriceAll(ctx)
	}); err != nil {
		return nil, fmt.Errorf("register repricer schedule: %w", err)
	}

	c.Start()
	r.log.Info("repricer scheduled hourly")

	return c, nil
}

// RepriceAll walks every active hotel in bounded pages so a large
// catalog never sits in memory at once.
func (r *Repricer) RepriceAll(ctx context.Context) {
	started := r.now()
	offset := 0

	for {
		hotels, err := r.hotelRepo.ListActive(ctx, offset, repricerBatchSize)
		if err != nil {
			r.log.WithError(err).Error("repricer failed to page hotels")
			return
		}

		if len(hotels) == 0 {
			break
		}

		for i := range hotels {
			r.repriceHotel(ctx, &hotels[i])
		}

		offset += repricerBatchSize
	}

	r.log.WithField("took", r.now().Sub(started).String()).Info("repricing run finished")
}

func (r *Repricer) repriceHotel(ctx context.Context, hotel *domain.Hotel) {
	// At most one run per hotel may be in flight across overlapping
	// schedules and instances.
	lockKey := repricerLockKey(hotel.ID)

	acquired, err := r.cache.SetNX(ctx, lockKey, "1", repricerLockTTL).Result()
	if err != nil {
		r.log.WithError(err).WithField("hotel_id", hotel.ID).Error("repricer lock acquire failed")
		return
	}

	if !acquired {
		r.log.WithField("hotel_id", hotel.ID).Info("repricing already in flight, skipping hotel")
		return
	}

	defer func() {
		if err := r.cache.Del(ctx, lockKey).Err(); err != nil {
			r.log.WithError(err).WithField("hotel_id", hotel.ID).Warn("repricer lock release failed")
		}
	}()

	ref := r.now()
	from := domain.TruncateToDay(ref)
	to := from.AddDate(1, 0, 0)

	rows, err := r.inventoryRepo.FindByHotelBetween(ctx, hotel.ID, from, to)
	if err != nil {
		r.log.WithError(err).WithField("hotel_id", hotel.ID).Error("repricer failed to load inventory")
		return
	}

	if len(rows) == 0 {
		return
	}

	for i := range rows {
		rows[i].Price = r.pricing.CalculateDynamicPrice(&rows[i], ref)
	}

	if err := r.inventoryRepo.UpdatePrices(ctx, rows); err != nil {
		r.log.WithError(err).WithField("hotel_id", hotel.ID).Error("repricer failed to persist prices")
		return
	}

	if err := r.minPriceRepo.Upsert(ctx, hotel.ID, minPricePerDate(rows)); err != nil {
		r.log.WithError(err).WithField("hotel_id", hotel.ID).Error("repricer failed to upsert min-price index")
		return
	}

	if err := r.cache.Del(ctx, hotelInfoCacheKey(hotel.ID)).Err(); err != nil {
		r.log.WithError(err).WithField("hotel_id", hotel.ID).Warn("failed to invalidate hotel info cache")
	}

	r.log.WithFields(logrus.Fields{
		"hotel_id": hotel.ID,
		"rows":     len(rows),
	}).Info("hotel repriced")
}

func minPricePerDate(rows []domain.Inventory) map[time.Time]decimal.Decimal {
	minByDate := make(map[time.Time]decimal.Decimal)

	for i := range rows {
		date := rows[i].Date
		if current, ok := minByDate[date]; !ok || rows[i].Price.LessThan(current) {
			minByDate[date] = rows[i].Price
		}
	}

	return minByDate
}
