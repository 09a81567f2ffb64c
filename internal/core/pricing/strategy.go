package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bookstay/hotel-booking-engine/internal/core/domain"
)

// Strategy computes the nightly price of a single inventory row.
// Strategies wrap each other so new pricing signals can be layered in
// without touching the callers.
type Strategy interface {
	CalculatePrice(inv *domain.Inventory) decimal.Decimal
}

// BaseStrategy prices a night at the room's static base price,
// ignoring demand.
type BaseStrategy struct{}

func (BaseStrategy) CalculatePrice(inv *domain.Inventory) decimal.Decimal {
	return inv.BasePrice
}

var (
	occupancyThreshold  = 0.8
	occupancyMultiplier = decimal.NewFromFloat(1.2)
)

// OccupancyStrategy marks up nights on rows whose capacity is mostly
// committed already.
type OccupancyStrategy struct {
	Wrapped Strategy
}

func (s OccupancyStrategy) CalculatePrice(inv *domain.Inventory) decimal.Decimal {
	price := s.Wrapped.CalculatePrice(inv)

	if inv.OccupancyRatio() >= occupancyThreshold {
		price = price.Mul(occupancyMultiplier)
	}

	return price
}

var urgencyMultiplier = decimal.NewFromFloat(1.15)

// UrgencyStrategy marks up nights close to the reference date. The
// reference is injected rather than read from the clock so a repricing
// run is deterministic for a given inventory snapshot.
type UrgencyStrategy struct {
	Wrapped   Strategy
	Reference time.Time
}

func (s UrgencyStrategy) CalculatePrice(inv *domain.Inventory) decimal.Decimal {
	price := s.Wrapped.CalculatePrice(inv)

	today := domain.TruncateToDay(s.Reference)
	if !inv.Date.Before(today) && inv.Date.Before(today.AddDate(0, 0, 7)) {
		price = price.Mul(urgencyMultiplier)
	}

	return price
}
