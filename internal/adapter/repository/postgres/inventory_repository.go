package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bookstay/hotel-booking-engine/internal/core/domain"
)

type InventoryRepository struct {
	db *sql.DB
}

func NewInventoryRepository(db *sql.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// lockInventoryRange takes row-level exclusive locks on every date row
// of the range, in ascending date order. Every mutation of reservation
// counts goes through this first so concurrent holds on overlapping
// ranges always acquire locks in the same order and cannot deadlock.
func lockInventoryRange(ctx context.Context, tx *sql.Tx, roomID uuid.UUID, checkIn, checkOut time.Time) (int, error) {
	rows, err := tx.QueryContext(ctx, `
	SELECT id FROM room_inventory
	WHERE room_id = $1 AND date BETWEEN $2 AND $3
	ORDER BY date
	FOR UPDATE
	`, roomID, checkIn, checkOut)
	if err != nil {
		return 0, err
	}

	defer rows.Close()

	locked := 0
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}

		locked++
	}

	return locked, rows.Err()
}

func (r *InventoryRepository) CheckAvailability(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, count int) (bool, error) {
	// A single statement reads the whole range under one snapshot.
	var available int

	err := r.db.QueryRowContext(ctx, `
	SELECT COUNT(*) FROM room_inventory
	WHERE room_id = $1 AND date BETWEEN $2 AND $3
		AND NOT closed
		AND total - reserved - booked >= $4
	`, roomID, checkIn, checkOut, count).Scan(&available)
	if err != nil {
		return false, err
	}

	return available == domain.NightCount(checkIn, checkOut), nil
}

func (r *InventoryRepository) Hold(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, count int) ([]domain.Inventory, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
	SELECT id, hotel_id, room_id, date, total, reserved, booked, base_price, price, city, closed
	FROM room_inventory
	WHERE room_id = $1 AND date BETWEEN $2 AND $3
	ORDER BY date
	FOR UPDATE
	`, roomID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	inventories, err := scanInventories(rows)
	if err != nil {
		return nil, err
	}

	// All-or-nothing: a missing date row or a single short night
	// aborts the hold with no row mutated.
	if len(inventories) != domain.NightCount(checkIn, checkOut) {
		return nil, fmt.Errorf("only %d of the requested nights exist: %w", len(inventories), domain.ErrUnavailable)
	}

	for i := range inventories {
		if !inventories[i].HasCapacity(count) {
			return nil, fmt.Errorf("no capacity on %s: %w",
				inventories[i].Date.Format(time.DateOnly), domain.ErrUnavailable)
		}
	}

	if _, err := tx.ExecContext(ctx, `
	UPDATE room_inventory
	SET reserved = reserved + $1
	WHERE room_id = $2 AND date BETWEEN $3 AND $4
	`, count, roomID, checkIn, checkOut); err != nil {
		return nil, fmt.Errorf("reserve inventory: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit hold: %w", err)
	}

	return inventories, nil
}

func (r *InventoryRepository) Confirm(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, count int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	if _, err := lockInventoryRange(ctx, tx, roomID, checkIn, checkOut); err != nil {
		return err
	}

	if err := confirmInventory(ctx, tx, roomID, checkIn, checkOut, count); err != nil {
		return err
	}

	return tx.Commit()
}

// confirmInventory moves count units per row from reserved to booked.
// The reserved >= count guard makes a retried confirm a no-op on rows
// already converted, so a crash between commit and acknowledgement
// cannot double-count.
func confirmInventory(ctx context.Context, tx *sql.Tx, roomID uuid.UUID, checkIn, checkOut time.Time, count int) error {
	_, err := tx.ExecContext(ctx, `
	UPDATE room_inventory
	SET reserved = reserved - $1, booked = booked + $1
	WHERE room_id = $2 AND date BETWEEN $3 AND $4 AND reserved >= $1
	`, count, roomID, checkIn, checkOut)

	return err
}

func (r *InventoryRepository) Release(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, count int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	if _, err := lockInventoryRange(ctx, tx, roomID, checkIn, checkOut); err != nil {
		return err
	}

	if err := releaseInventory(ctx, tx, roomID, checkIn, checkOut, count); err != nil {
		return err
	}

	return tx.Commit()
}

func releaseInventory(ctx context.Context, tx *sql.Tx, roomID uuid.UUID, checkIn, checkOut time.Time, count int) error {
	_, err := tx.ExecContext(ctx, `
	UPDATE room_inventory
	SET reserved = reserved - $1
	WHERE room_id = $2 AND date BETWEEN $3 AND $4 AND reserved >= $1
	`, count, roomID, checkIn, checkOut)

	return err
}

func (r *InventoryRepository) Cancel(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, count int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	if _, err := lockInventoryRange(ctx, tx, roomID, checkIn, checkOut); err != nil {
		return err
	}

	if err := cancelInventory(ctx, tx, roomID, checkIn, checkOut, count); err != nil {
		return err
	}

	return tx.Commit()
}

func cancelInventory(ctx context.Context, tx *sql.Tx, roomID uuid.UUID, checkIn, checkOut time.Time, count int) error {
	_, err := tx.ExecContext(ctx, `
	UPDATE room_inventory
	SET booked = booked - $1
	WHERE room_id = $2 AND date BETWEEN $3 AND $4 AND booked >= $1
	`, count, roomID, checkIn, checkOut)

	return err
}

func (r *InventoryRepository) InitializeRoom(ctx context.Context, room domain.Room, city string, from time.Time, days int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO room_inventory (id, hotel_id, room_id, date, total, reserved, booked, base_price, price, city, closed)
	VALUES ($1, $2, $3, $4, $5, 0, 0, $6, $6, $7, FALSE)
	ON CONFLICT (room_id, date) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("prepare inventory insert: %w", err)
	}

	defer stmt.Close()

	for day := 0; day < days; day++ {
		date := from.AddDate(0, 0, day)

		if _, err := stmt.ExecContext(ctx, uuid.New(), room.HotelID, room.ID, date,
			room.TotalCount, room.BasePrice, city); err != nil {
			return fmt.Errorf("insert inventory for %s: %w", date.Format(time.DateOnly), err)
		}
	}

	return tx.Commit()
}

func (r *InventoryRepository) DeleteByRoom(ctx context.Context, roomID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM room_inventory WHERE room_id = $1`, roomID)
	return err
}

func (r *InventoryRepository) FindByHotelBetween(ctx context.Context, hotelID uuid.UUID, from, to time.Time) ([]domain.Inventory, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, hotel_id, room_id, date, total, reserved, booked, base_price, price, city, closed
	FROM room_inventory
	WHERE hotel_id = $1 AND date BETWEEN $2 AND $3
	ORDER BY room_id, date
	`, hotelID, from, to)
	if err != nil {
		return nil, err
	}

	return scanInventories(rows)
}

func (r *InventoryRepository) UpdatePrices(ctx context.Context, inventories []domain.Inventory) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE room_inventory SET price = $1 WHERE id = $2`)
	if err != nil {
		return fmt.Errorf("prepare price update: %w", err)
	}

	defer stmt.Close()

	for i := range inventories {
		if _, err := stmt.ExecContext(ctx, inventories[i].Price, inventories[i].ID); err != nil {
			return fmt.Errorf("update price for row %s: %w", inventories[i].ID, err)
		}
	}

	return tx.Commit()
}

func (r *InventoryRepository) RoomSummaries(ctx context.Context, hotelID uuid.UUID, checkIn, checkOut time.Time, count int) ([]domain.RoomSummary, error) {
	nights := domain.NightCount(checkIn, checkOut)

	rows, err := r.db.QueryContext(ctx, `
	SELECT r.id, r.hotel_id, r.kind, r.base_price, r.total_count,
		COUNT(i.id) FILTER (WHERE NOT i.closed AND i.total - i.reserved - i.booked >= $4) AS open_nights,
		COALESCE(AVG(i.price), 0) AS avg_price
	FROM rooms r
	LEFT JOIN room_inventory i ON i.room_id = r.id AND i.date BETWEEN $2 AND $3
	WHERE r.hotel_id = $1
	GROUP BY r.id, r.hotel_id, r.kind, r.base_price, r.total_count
	ORDER BY r.kind
	`, hotelID, checkIn, checkOut, count)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var summaries []domain.RoomSummary
	for rows.Next() {
		var summary domain.RoomSummary
		var openNights int

		if err := rows.Scan(
			&summary.Room.ID,
			&summary.Room.HotelID,
			&summary.Room.Kind,
			&summary.Room.BasePrice,
			&summary.Room.TotalCount,
			&openNights,
			&summary.Price,
		); err != nil {
			return nil, err
		}

		summary.Available = openNights == nights
		summary.Price = summary.Price.Round(2)

		summaries = append(summaries, summary)
	}

	return summaries, rows.Err()
}

func scanInventories(rows *sql.Rows) ([]domain.Inventory, error) {
	defer rows.Close()

	var inventories []domain.Inventory
	for rows.Next() {
		var inv domain.Inventory
		if err := rows.Scan(
			&inv.ID,
			&inv.HotelID,
			&inv.RoomID,
			&inv.Date,
			&inv.Total,
			&inv.Reserved,
			&inv.Booked,
			&inv.BasePrice,
			&inv.Price,
			&inv.City,
			&inv.Closed,
		); err != nil {
			return nil, err
		}

		inventories = append(inventories, inv)
	}

	return inventories, rows.Err()
}
