package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Inventory is one room's capacity ledger for a single calendar date.
// reserved counts soft holds awaiting payment, booked counts paid
// capacity. The row invariant is 0 <= reserved+booked <= total.
type Inventory struct {
	ID        uuid.UUID
	HotelID   uuid.UUID
	RoomID    uuid.UUID
	Date      time.Time
	Total     int
	Reserved  int
	Booked    int
	BasePrice decimal.Decimal
	Price     decimal.Decimal
	City      string
	Closed    bool
}

func (i *Inventory) HasCapacity(count int) bool {
	return !i.Closed && i.Total-i.Reserved-i.Booked >= count
}

// OccupancyRatio is the committed share of the row's capacity,
// holds included.
func (i *Inventory) OccupancyRatio() float64 {
	if i.Total == 0 {
		return 0
	}

	return float64(i.Reserved+i.Booked) / float64(i.Total)
}

// NightCount is the inclusive number of date rows a stay touches:
// both check-in and check-out days consume inventory.
func NightCount(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours()/24) + 1
}

// TruncateToDay normalizes a timestamp to its UTC calendar date.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
