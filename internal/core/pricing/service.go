package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bookstay/hotel-booking-engine/internal/core/domain"
)

// Service exposes the two pricing entry points the rest of the core
// uses: the booking-time total snapshot and the repricer's dynamic
// per-row computation.
type Service struct {
	snapshot Strategy
	dynamic  func(ref time.Time) Strategy
}

func NewService() *Service {
	return &Service{
		snapshot: BaseStrategy{},
		dynamic: func(ref time.Time) Strategy {
			return UrgencyStrategy{
				Wrapped:   OccupancyStrategy{Wrapped: BaseStrategy{}},
				Reference: ref,
			}
		},
	}
}

// CalculateTotalPrice sums the nightly snapshot price of one room
// across a date range. The result is fixed on the booking at creation
// time; later repricing never changes it.
func (s *Service) CalculateTotalPrice(rows []domain.Inventory) decimal.Decimal {
	total := decimal.Zero
	for i := range rows {
		total = total.Add(s.snapshot.CalculatePrice(&rows[i]))
	}

	return total
}

// CalculateDynamicPrice derives a fresh nightly price for one row from
// its occupancy and its proximity to the reference date.
func (s *Service) CalculateDynamicPrice(inv *domain.Inventory, ref time.Time) decimal.Decimal {
	return s.dynamic(ref).CalculatePrice(inv)
}
