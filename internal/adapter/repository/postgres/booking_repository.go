package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bookstay/hotel-booking-engine/internal/core/domain"
)

type BookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `
	id, hotel_id, room_id, user_id, check_in, check_out,
	rooms_count, amount, status, created_at, payment_session_id
`

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO bookings (id, hotel_id, room_id, user_id, check_in, check_out, rooms_count, amount, status, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		booking.ID, booking.HotelID, booking.RoomID, booking.UserID,
		booking.CheckIn, booking.CheckOut, booking.RoomsCount,
		booking.Amount, booking.Status, booking.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, bookingID)

	booking, err := scanBooking(row)
	if err != nil {
		return nil, err
	}

	if err := r.loadGuests(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

func (r *BookingRepository) GetByPaymentSessionID(ctx context.Context, sessionID string) (*domain.Booking, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE payment_session_id = $1`, sessionID)

	return scanBooking(row)
}

func (r *BookingRepository) AddGuests(ctx context.Context, bookingID uuid.UUID, guestIDs []uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO booking_guests (booking_id, guest_id) VALUES ($1, $2)
	ON CONFLICT DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("prepare guest insert: %w", err)
	}

	defer stmt.Close()

	for _, guestID := range guestIDs {
		if _, err := stmt.ExecContext(ctx, bookingID, guestID); err != nil {
			return fmt.Errorf("attach guest %s: %w", guestID, err)
		}
	}

	if err := updateStatus(ctx, tx, bookingID, domain.BookingReserved, domain.BookingGuestsAdded); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *BookingRepository) SetPaymentSession(ctx context.Context, bookingID uuid.UUID, sessionID string) error {
	result, err := r.db.ExecContext(ctx, `
	UPDATE bookings SET payment_session_id = $1, status = $2 WHERE id = $3
	`, sessionID, domain.BookingPaymentsPending, bookingID)
	if err != nil {
		return err
	}

	return requireAffected(result)
}

// Confirm flips the booking to CONFIRMED and converts its held
// inventory to booked in one transaction, with the date rows locked in
// ascending order first. The status CAS accepts PAYMENTS_PENDING only:
// a checkout session exists from that state onward, and anything later
// is terminal and must not be overwritten by a stale event.
func (r *BookingRepository) Confirm(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	if _, err := lockInventoryRange(ctx, tx, booking.RoomID, booking.CheckIn, booking.CheckOut); err != nil {
		return err
	}

	if err := updateStatus(ctx, tx, booking.ID, domain.BookingPaymentsPending, domain.BookingConfirmed); err != nil {
		return err
	}

	if err := confirmInventory(ctx, tx, booking.RoomID, booking.CheckIn, booking.CheckOut, booking.RoomsCount); err != nil {
		return fmt.Errorf("convert hold to booked: %w", err)
	}

	return tx.Commit()
}

func (r *BookingRepository) Cancel(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	if _, err := lockInventoryRange(ctx, tx, booking.RoomID, booking.CheckIn, booking.CheckOut); err != nil {
		return err
	}

	if err := updateStatus(ctx, tx, booking.ID, domain.BookingConfirmed, domain.BookingCancelled); err != nil {
		return err
	}

	if err := cancelInventory(ctx, tx, booking.RoomID, booking.CheckIn, booking.CheckOut, booking.RoomsCount); err != nil {
		return fmt.Errorf("return booked inventory: %w", err)
	}

	return tx.Commit()
}

func (r *BookingRepository) Expire(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	if _, err := lockInventoryRange(ctx, tx, booking.RoomID, booking.CheckIn, booking.CheckOut); err != nil {
		return err
	}

	if err := updateStatus(ctx, tx, booking.ID, booking.Status, domain.BookingExpired); err != nil {
		return err
	}

	if err := releaseInventory(ctx, tx, booking.RoomID, booking.CheckIn, booking.CheckOut, booking.RoomsCount); err != nil {
		return fmt.Errorf("release held inventory: %w", err)
	}

	return tx.Commit()
}

func (r *BookingRepository) ListByHotel(ctx context.Context, hotelID uuid.UUID) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE hotel_id = $1 ORDER BY created_at DESC`, hotelID)
	if err != nil {
		return nil, err
	}

	return scanBookings(rows)
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}

	return scanBookings(rows)
}

func (r *BookingRepository) ListByHotelCreatedBetween(ctx context.Context, hotelID uuid.UUID, from, to time.Time) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		WHERE hotel_id = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at`, hotelID, from, to)
	if err != nil {
		return nil, err
	}

	return scanBookings(rows)
}

func (r *BookingRepository) ListExpired(ctx context.Context, cutoff time.Time, limit int) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		WHERE status IN ($1, $2, $3) AND created_at < $4
		ORDER BY created_at
		LIMIT $5`,
		domain.BookingReserved, domain.BookingGuestsAdded, domain.BookingPaymentsPending,
		cutoff, limit)
	if err != nil {
		return nil, err
	}

	return scanBookings(rows)
}

func (r *BookingRepository) loadGuests(ctx context.Context, booking *domain.Booking) error {
	rows, err := r.db.QueryContext(ctx, `
	SELECT g.id, g.user_id, g.name, g.age
	FROM guests g
	JOIN booking_guests bg ON bg.guest_id = g.id
	WHERE bg.booking_id = $1
	`, booking.ID)
	if err != nil {
		return err
	}

	defer rows.Close()

	for rows.Next() {
		var guest domain.Guest
		if err := rows.Scan(&guest.ID, &guest.UserID, &guest.Name, &guest.Age); err != nil {
			return err
		}

		booking.Guests = append(booking.Guests, guest)
	}

	return rows.Err()
}

// updateStatus transitions a booking only out of the state the caller
// observed, so two racing transitions cannot both apply.
func updateStatus(ctx context.Context, tx *sql.Tx, bookingID uuid.UUID, from, to domain.BookingStatus) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = $1 WHERE id = $2 AND status = $3`, to, bookingID, from)
	if err != nil {
		return err
	}

	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var sessionID sql.NullString

	err := row.Scan(
		&booking.ID,
		&booking.HotelID,
		&booking.RoomID,
		&booking.UserID,
		&booking.CheckIn,
		&booking.CheckOut,
		&booking.RoomsCount,
		&booking.Amount,
		&booking.Status,
		&booking.CreatedAt,
		&sessionID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}

		return nil, err
	}

	if sessionID.Valid {
		booking.PaymentSessionID = &sessionID.String
	}

	return &booking, nil
}

func scanBookings(rows *sql.Rows) ([]domain.Booking, error) {
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}

		bookings = append(bookings, *booking)
	}

	return bookings, rows.Err()
}
