package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bookstay/hotel-booking-engine/internal/core/domain"
)

type HotelRepository struct {
	db *sql.DB
}

func NewHotelRepository(db *sql.DB) *HotelRepository {
	return &HotelRepository{db: db}
}

func (r *HotelRepository) GetByID(ctx context.Context, hotelID uuid.UUID) (*domain.Hotel, error) {
	var hotel domain.Hotel

	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, city, owner_id, active FROM hotels WHERE id = $1`, hotelID).
		Scan(&hotel.ID, &hotel.Name, &hotel.City, &hotel.OwnerID, &hotel.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}

		return nil, err
	}

	return &hotel, nil
}

func (r *HotelRepository) SetActive(ctx context.Context, hotelID uuid.UUID, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE hotels SET active = $1 WHERE id = $2`, active, hotelID)
	if err != nil {
		return err
	}

	return requireAffected(result)
}

func (r *HotelRepository) ListActive(ctx context.Context, offset, limit int) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, name, city, owner_id, active FROM hotels
	WHERE active
	ORDER BY id
	OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var hotels []domain.Hotel
	for rows.Next() {
		var hotel domain.Hotel
		if err := rows.Scan(&hotel.ID, &hotel.Name, &hotel.City, &hotel.OwnerID, &hotel.Active); err != nil {
			return nil, err
		}

		hotels = append(hotels, hotel)
	}

	return hotels, rows.Err()
}

type RoomRepository struct {
	db *sql.DB
}

func NewRoomRepository(db *sql.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) GetByID(ctx context.Context, roomID uuid.UUID) (*domain.Room, error) {
	var room domain.Room

	err := r.db.QueryRowContext(ctx,
		`SELECT id, hotel_id, kind, base_price, total_count FROM rooms WHERE id = $1`, roomID).
		Scan(&room.ID, &room.HotelID, &room.Kind, &room.BasePrice, &room.TotalCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}

		return nil, err
	}

	return &room, nil
}

func (r *RoomRepository) ListByHotel(ctx context.Context, hotelID uuid.UUID) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, hotel_id, kind, base_price, total_count FROM rooms WHERE hotel_id = $1 ORDER BY kind`, hotelID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(&room.ID, &room.HotelID, &room.Kind, &room.BasePrice, &room.TotalCount); err != nil {
			return nil, err
		}

		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}

type GuestRepository struct {
	db *sql.DB
}

func NewGuestRepository(db *sql.DB) *GuestRepository {
	return &GuestRepository{db: db}
}

func (r *GuestRepository) GetByID(ctx context.Context, guestID uuid.UUID) (*domain.Guest, error) {
	var guest domain.Guest

	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, age FROM guests WHERE id = $1`, guestID).
		Scan(&guest.ID, &guest.UserID, &guest.Name, &guest.Age)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}

		return nil, err
	}

	return &guest, nil
}

// MinPriceRepository persists the derived per-hotel per-date minimum
// nightly price index.
type MinPriceRepository struct {
	db *sql.DB
}

func NewMinPriceRepository(db *sql.DB) *MinPriceRepository {
	return &MinPriceRepository{db: db}
}

func (r *MinPriceRepository) Upsert(ctx context.Context, hotelID uuid.UUID, prices map[time.Time]decimal.Decimal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO hotel_min_price (id, hotel_id, date, price)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (hotel_id, date) DO UPDATE SET price = EXCLUDED.price
	`)
	if err != nil {
		return err
	}

	defer stmt.Close()

	for date, price := range prices {
		if _, err := stmt.ExecContext(ctx, uuid.New(), hotelID, date, price); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *MinPriceRepository) Search(ctx context.Context, city string, from, to time.Time, offset, limit int) ([]domain.HotelPrice, error) {
	nights := domain.NightCount(from, to)

	rows, err := r.db.QueryContext(ctx, `
	SELECT h.id, h.name, h.city, h.owner_id, h.active, AVG(m.price) AS price
	FROM hotels h
	JOIN hotel_min_price m ON m.hotel_id = h.id AND m.date BETWEEN $2 AND $3
	WHERE h.city = $1 AND h.active
	GROUP BY h.id, h.name, h.city, h.owner_id, h.active
	HAVING COUNT(m.id) = $4
	ORDER BY price
	OFFSET $5 LIMIT $6
	`, city, from, to, nights, offset, limit)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var hits []domain.HotelPrice
	for rows.Next() {
		var hit domain.HotelPrice
		if err := rows.Scan(&hit.Hotel.ID, &hit.Hotel.Name, &hit.Hotel.City,
			&hit.Hotel.OwnerID, &hit.Hotel.Active, &hit.Price); err != nil {
			return nil, err
		}

		hit.Price = hit.Price.Round(2)
		hits = append(hits, hit)
	}

	return hits, rows.Err()
}
