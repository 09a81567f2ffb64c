// Package memory holds mutex-guarded implementations of the core
// ports. They honor the same atomicity contract as the postgres
// adapter and back the concurrency tests, which need a real ledger
// without a live database.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bookstay/hotel-booking-engine/internal/core/domain"
)

type inventoryKey struct {
	roomID uuid.UUID
	date   time.Time
}

type InventoryRepository struct {
	mu   sync.Mutex
	rows map[inventoryKey]*domain.Inventory
}

func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{rows: make(map[inventoryKey]*domain.Inventory)}
}

// Seed installs a row directly, bypassing the ledger operations.
func (r *InventoryRepository) Seed(inv domain.Inventory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := inv
	r.rows[inventoryKey{roomID: inv.RoomID, date: inv.Date}] = &row
}

// Snapshot returns a copy of one row for assertions.
func (r *InventoryRepository) Snapshot(roomID uuid.UUID, date time.Time) (domain.Inventory, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[inventoryKey{roomID: roomID, date: date}]
	if !ok {
		return domain.Inventory{}, false
	}

	return *row, true
}

// rangeRows collects the rows of [checkIn, checkOut] in date order.
// The caller holds the mutex. A nil slice means the range has a gap.
func (r *InventoryRepository) rangeRows(roomID uuid.UUID, checkIn, checkOut time.Time) []*domain.Inventory {
	nights := domain.NightCount(checkIn, checkOut)
	rows := make([]*domain.Inventory, 0, nights)

	for day := 0; day < nights; day++ {
		row, ok := r.rows[inventoryKey{roomID: roomID, date: checkIn.AddDate(0, 0, day)}]
		if !ok {
			return nil
		}

		rows = append(rows, row)
	}

	return rows
}

func (r *InventoryRepository) CheckAvailability(_ context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, count int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.rangeRows(roomID, checkIn, checkOut)
	if rows == nil {
		return false, nil
	}

	for _, row := range rows {
		if !row.HasCapacity(count) {
			return false, nil
		}
	}

	return true, nil
}

func (r *InventoryRepository) Hold(_ context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, count int) ([]domain.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.rangeRows(roomID, checkIn, checkOut)
	if rows == nil {
		return nil, fmt.Errorf("inventory gap in range: %w", domain.ErrUnavailable)
	}

	// Check the entire range before mutating anything.
	for _, row := range rows {
		if !row.HasCapacity(count) {
			return nil, fmt.Errorf("no capacity on %s: %w",
				row.Date.Format(time.DateOnly), domain.ErrUnavailable)
		}
	}

	snapshot := make([]domain.Inventory, 0, len(rows))
	for _, row := range rows {
		snapshot = append(snapshot, *row)
		row.Reserved += count
	}

	return snapshot, nil
}

func (r *InventoryRepository) Confirm(_ context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rangeRows(roomID, checkIn, checkOut) {
		// Skip rows already converted; a retried confirm must not
		// double-count.
		if row.Reserved >= count {
			row.Reserved -= count
			row.Booked += count
		}
	}

	return nil
}

func (r *InventoryRepository) Release(_ context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rangeRows(roomID, checkIn, checkOut) {
		if row.Reserved >= count {
			row.Reserved -= count
		}
	}

	return nil
}

func (r *InventoryRepository) Cancel(_ context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rangeRows(roomID, checkIn, checkOut) {
		if row.Booked >= count {
			row.Booked -= count
		}
	}

	return nil
}

func (r *InventoryRepository) InitializeRoom(_ context.Context, room domain.Room, city string, from time.Time, days int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for day := 0; day < days; day++ {
		date := from.AddDate(0, 0, day)
		key := inventoryKey{roomID: room.ID, date: date}

		if _, exists := r.rows[key]; exists {
			continue
		}

		r.rows[key] = &domain.Inventory{
			ID:        uuid.New(),
			HotelID:   room.HotelID,
			RoomID:    room.ID,
			Date:      date,
			Total:     room.TotalCount,
			BasePrice: room.BasePrice,
			Price:     room.BasePrice,
			City:      city,
		}
	}

	return nil
}

func (r *InventoryRepository) DeleteByRoom(_ context.Context, roomID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.rows {
		if key.roomID == roomID {
			delete(r.rows, key)
		}
	}

	return nil
}

func (r *InventoryRepository) FindByHotelBetween(_ context.Context, hotelID uuid.UUID, from, to time.Time) ([]domain.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []domain.Inventory
	for _, row := range r.rows {
		if row.HotelID == hotelID && !row.Date.Before(from) && !row.Date.After(to) {
			result = append(result, *row)
		}
	}

	return result, nil
}

func (r *InventoryRepository) UpdatePrices(_ context.Context, inventories []domain.Inventory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range inventories {
		key := inventoryKey{roomID: inventories[i].RoomID, date: inventories[i].Date}
		if row, ok := r.rows[key]; ok {
			row.Price = inventories[i].Price
		}
	}

	return nil
}

func (r *InventoryRepository) RoomSummaries(_ context.Context, hotelID uuid.UUID, checkIn, checkOut time.Time, count int) ([]domain.RoomSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	type agg struct {
		summary domain.RoomSummary
		nights  int
		open    int
	}

	nights := domain.NightCount(checkIn, checkOut)
	byRoom := make(map[uuid.UUID]*agg)

	for _, row := range r.rows {
		if row.HotelID != hotelID || row.Date.Before(checkIn) || row.Date.After(checkOut) {
			continue
		}

		entry, ok := byRoom[row.RoomID]
		if !ok {
			entry = &agg{summary: domain.RoomSummary{
				Room: domain.Room{ID: row.RoomID, HotelID: row.HotelID, BasePrice: row.BasePrice, TotalCount: row.Total},
			}}
			byRoom[row.RoomID] = entry
		}

		entry.nights++
		entry.summary.Price = entry.summary.Price.Add(row.Price)

		if row.HasCapacity(count) {
			entry.open++
		}
	}

	var summaries []domain.RoomSummary
	for _, entry := range byRoom {
		entry.summary.Available = entry.open == nights
		if entry.nights > 0 {
			entry.summary.Price = entry.summary.Price.DivRound(decimal.NewFromInt(int64(entry.nights)), 2)
		}

		summaries = append(summaries, entry.summary)
	}

	return summaries, nil
}
