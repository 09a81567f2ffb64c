package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Hotel struct {
	ID      uuid.UUID
	Name    string
	City    string
	OwnerID uuid.UUID
	Active  bool
}

type Room struct {
	ID         uuid.UUID
	HotelID    uuid.UUID
	Kind       string
	BasePrice  decimal.Decimal
	TotalCount int
}

// RoomSummary is the browse-time view of one room over a date range:
// whether the requested count fits every night, and the average
// nightly price across the range.
type RoomSummary struct {
	Room      Room
	Available bool
	Price     decimal.Decimal
}

// HotelPrice is one search hit: a hotel and the average of its
// per-date minimum nightly prices over the requested range.
type HotelPrice struct {
	Hotel Hotel
	Price decimal.Decimal
}
