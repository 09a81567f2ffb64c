package pricing_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/bookstay/hotel-booking-engine/internal/core/domain"
	"github.com/bookstay/hotel-booking-engine/internal/core/pricing"
)

func row(date time.Time, total, reserved, booked int) *domain.Inventory {
	return &domain.Inventory{
		ID:        uuid.New(),
		Date:      date,
		Total:     total,
		Reserved:  reserved,
		Booked:    booked,
		BasePrice: decimal.NewFromInt(100),
	}
}

func TestBaseStrategy_ReturnsBasePrice(t *testing.T) {
	inv := row(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 10, 9, 0)

	price := pricing.BaseStrategy{}.CalculatePrice(inv)

	assert.True(t, price.Equal(decimal.NewFromInt(100)), "got %s", price)
}

func TestOccupancyStrategy_MarksUpAtThreshold(t *testing.T) {
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	strategy := pricing.OccupancyStrategy{Wrapped: pricing.BaseStrategy{}}

	cases := []struct {
		name     string
		inv      *domain.Inventory
		expected string
	}{
		{"below threshold", row(date, 10, 5, 2), "100"},
		{"just under", row(date, 10, 4, 3), "100"},
		{"exactly at threshold", row(date, 10, 4, 4), "120"},
		{"fully committed", row(date, 10, 0, 10), "120"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			price := strategy.CalculatePrice(tc.inv)
			assert.True(t, price.Equal(decimal.RequireFromString(tc.expected)), "got %s", price)
		})
	}
}

func TestUrgencyStrategy_MarksUpNearDates(t *testing.T) {
	ref := time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC)
	strategy := pricing.UrgencyStrategy{Wrapped: pricing.BaseStrategy{}, Reference: ref}

	cases := []struct {
		name     string
		date     time.Time
		expected string
	}{
		{"same day", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "115"},
		{"six days out", time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC), "115"},
		{"seven days out", time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), "100"},
		{"in the past", time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC), "100"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			price := strategy.CalculatePrice(row(tc.date, 10, 0, 0))
			assert.True(t, price.Equal(decimal.RequireFromString(tc.expected)), "got %s", price)
		})
	}
}

func TestCalculateDynamicPrice_StacksMultipliers(t *testing.T) {
	svc := pricing.NewService()
	ref := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// High occupancy and an imminent date: 100 x 1.2 x 1.15.
	inv := row(time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), 10, 8, 0)

	price := svc.CalculateDynamicPrice(inv, ref)

	assert.True(t, price.Equal(decimal.RequireFromString("138")), "got %s", price)
}

func TestCalculateDynamicPrice_Deterministic(t *testing.T) {
	svc := pricing.NewService()
	ref := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	inv := row(time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), 10, 8, 0)

	first := svc.CalculateDynamicPrice(inv, ref)
	for i := 0; i < 10; i++ {
		assert.True(t, first.Equal(svc.CalculateDynamicPrice(inv, ref)))
	}
}

func TestCalculateTotalPrice_SumsSnapshotNights(t *testing.T) {
	svc := pricing.NewService()
	checkIn := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	rows := []domain.Inventory{
		*row(checkIn, 10, 8, 0),
		*row(checkIn.AddDate(0, 0, 1), 10, 0, 0),
		*row(checkIn.AddDate(0, 0, 2), 10, 0, 0),
	}

	total := svc.CalculateTotalPrice(rows)

	// The booking snapshot uses the static base price; occupancy and
	// urgency only apply to repricing runs.
	assert.True(t, total.Equal(decimal.NewFromInt(300)), "got %s", total)
}

func TestCalculateTotalPrice_EmptyRange(t *testing.T) {
	svc := pricing.NewService()

	assert.True(t, svc.CalculateTotalPrice(nil).IsZero())
}
