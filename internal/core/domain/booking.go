package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingReserved        BookingStatus = "RESERVED"
	BookingGuestsAdded     BookingStatus = "GUESTS_ADDED"
	BookingPaymentsPending BookingStatus = "PAYMENTS_PENDING"
	BookingConfirmed       BookingStatus = "CONFIRMED"
	BookingCancelled       BookingStatus = "CANCELLED"
	BookingExpired         BookingStatus = "EXPIRED"
)

// HoldWindow is how long a booking may sit unpaid before its
// inventory hold stops being honored.
const HoldWindow = 10 * time.Minute

type Booking struct {
	ID               uuid.UUID
	HotelID          uuid.UUID
	RoomID           uuid.UUID
	UserID           uuid.UUID
	CheckIn          time.Time
	CheckOut         time.Time
	RoomsCount       int
	Amount           decimal.Decimal
	Status           BookingStatus
	CreatedAt        time.Time
	PaymentSessionID *string
	Guests           []Guest
}

// HasExpired reports whether the hold window has elapsed. Terminal
// bookings never expire; CONFIRMED capacity is permanent.
func (b *Booking) HasExpired(now time.Time) bool {
	if b.IsTerminal() {
		return false
	}

	return b.CreatedAt.Add(HoldWindow).Before(now)
}

func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case BookingConfirmed, BookingCancelled, BookingExpired:
		return true
	}

	return false
}

type Guest struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Name   string
	Age    int
}

// HotelReport aggregates a hotel's confirmed revenue over a window of
// booking-creation dates.
type HotelReport struct {
	ConfirmedCount int
	TotalRevenue   decimal.Decimal
	AverageRevenue decimal.Decimal
}
