package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bookstay/hotel-booking-engine/internal/core/domain"
)

// InventoryRepository is the capacity ledger for room-nights. Every
// range operation covers the inclusive date range [checkIn, checkOut]
// for one room and must be all-or-nothing: implementations lock the
// date rows in ascending order before reading counts, and a failed
// operation leaves every row untouched.
type InventoryRepository interface {
	// CheckAvailability reports whether every date row in range has
	// at least count free units, observed under one snapshot.
	CheckAvailability(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, count int) (bool, error)

	// Hold increments reserved by count on every row in range and
	// returns the rows as they were locked (the pricing snapshot).
	// domain.ErrUnavailable when any night is short, missing, or lost
	// to a concurrent hold.
	Hold(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, count int) ([]domain.Inventory, error)

	// Confirm moves count units per row from reserved to booked.
	// Rows whose reserved units are already gone are left alone, so a
	// retry after a crash cannot double-apply.
	Confirm(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, count int) error

	// Release gives reserved units back (hold abandonment or expiry).
	Release(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, count int) error

	// Cancel gives booked units back (post-confirmation cancellation).
	Cancel(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, count int) error

	// InitializeRoom bulk-creates one row per day for the room,
	// starting at from. Existing rows are kept as-is.
	InitializeRoom(ctx context.Context, room domain.Room, city string, from time.Time, days int) error

	DeleteByRoom(ctx context.Context, roomID uuid.UUID) error

	FindByHotelBetween(ctx context.Context, hotelID uuid.UUID, from, to time.Time) ([]domain.Inventory, error)

	// UpdatePrices bulk-writes price fields only; reservation counts
	// are never touched by this path.
	UpdatePrices(ctx context.Context, rows []domain.Inventory) error

	// RoomSummaries returns, per room of the hotel, whether count
	// units fit every night of the range and the average nightly
	// price over it.
	RoomSummaries(ctx context.Context, hotelID uuid.UUID, checkIn, checkOut time.Time, count int) ([]domain.RoomSummary, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error)
	GetByPaymentSessionID(ctx context.Context, sessionID string) (*domain.Booking, error)

	// AddGuests appends guest associations and moves the booking to
	// GUESTS_ADDED in one transaction.
	AddGuests(ctx context.Context, bookingID uuid.UUID, guestIDs []uuid.UUID) error

	// SetPaymentSession records the checkout session handle and moves
	// the booking to PAYMENTS_PENDING.
	SetPaymentSession(ctx context.Context, bookingID uuid.UUID, sessionID string) error

	// Confirm flips the booking from PAYMENTS_PENDING to CONFIRMED and
	// converts its held inventory to booked, atomically. Any other
	// current status fails the transition and leaves both untouched.
	Confirm(ctx context.Context, booking *domain.Booking) error

	// Cancel flips the booking to CANCELLED and returns its booked
	// inventory, atomically. Callers must have secured the refund
	// before invoking this.
	Cancel(ctx context.Context, booking *domain.Booking) error

	// Expire flips the booking to EXPIRED and releases its reserved
	// inventory, atomically.
	Expire(ctx context.Context, booking *domain.Booking) error

	ListByHotel(ctx context.Context, hotelID uuid.UUID) ([]domain.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
	ListByHotelCreatedBetween(ctx context.Context, hotelID uuid.UUID, from, to time.Time) ([]domain.Booking, error)

	// ListExpired returns non-terminal, pre-confirmation bookings
	// created before the cutoff, oldest first, bounded by limit.
	ListExpired(ctx context.Context, cutoff time.Time, limit int) ([]domain.Booking, error)
}

type HotelRepository interface {
	GetByID(ctx context.Context, hotelID uuid.UUID) (*domain.Hotel, error)
	SetActive(ctx context.Context, hotelID uuid.UUID, active bool) error
	ListActive(ctx context.Context, offset, limit int) ([]domain.Hotel, error)
}

type RoomRepository interface {
	GetByID(ctx context.Context, roomID uuid.UUID) (*domain.Room, error)
	ListByHotel(ctx context.Context, hotelID uuid.UUID) ([]domain.Room, error)
}

type GuestRepository interface {
	GetByID(ctx context.Context, guestID uuid.UUID) (*domain.Guest, error)
}

// MinPriceRepository maintains the derived per-hotel per-date minimum
// nightly price index. Written only by the repricer, read by search.
type MinPriceRepository interface {
	Upsert(ctx context.Context, hotelID uuid.UUID, prices map[time.Time]decimal.Decimal) error

	// Search returns hotels in the city having an index row for every
	// date in range, with the average of those per-date minimums.
	Search(ctx context.Context, city string, from, to time.Time, offset, limit int) ([]domain.HotelPrice, error)
}
