package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/bookstay/hotel-booking-engine/internal/core/domain"
	"github.com/bookstay/hotel-booking-engine/internal/core/ports"
)

// InventoryHorizonDays is the rolling window of date rows kept per
// room: today through one year ahead.
const InventoryHorizonDays = 365

const hotelInfoCacheTTL = 10 * time.Minute

func hotelInfoCacheKey(hotelID uuid.UUID) string {
	return fmt.Sprintf("hotel:info:%s", hotelID)
}

type RoomInfo struct {
	RoomID    string `json:"room_id"`
	Kind      string `json:"kind"`
	Available bool   `json:"available"`
	Price     string `json:"price"`
}

type HotelInfoResponse struct {
	HotelID string     `json:"hotel_id"`
	Name    string     `json:"name"`
	City    string     `json:"city"`
	Rooms   []RoomInfo `json:"rooms"`
}

type HotelSearchResult struct {
	HotelID string `json:"hotel_id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Price   string `json:"price"`
}

type InventoryService struct {
	hotelRepo     ports.HotelRepository
	roomRepo      ports.RoomRepository
	inventoryRepo ports.InventoryRepository
	minPriceRepo  ports.MinPriceRepository
	cache         *redis.Client
	log           *logrus.Logger
	now           func() time.Time
}

func NewInventoryService(
	hotelRepo ports.HotelRepository,
	roomRepo ports.RoomRepository,
	inventoryRepo ports.InventoryRepository,
	minPriceRepo ports.MinPriceRepository,
	cache *redis.Client,
	log *logrus.Logger,
) *InventoryService {
	return &InventoryService{
		hotelRepo:     hotelRepo,
		roomRepo:      roomRepo,
		inventoryRepo: inventoryRepo,
		minPriceRepo:  minPriceRepo,
		cache:         cache,
		log:           log,
		now:           time.Now,
	}
}

// ActivateHotel marks the hotel active and bulk-creates a year of
// inventory rows for each of its rooms. Rows that already exist are
// kept, so re-activating is harmless.
func (s *InventoryService) ActivateHotel(ctx context.Context, actorID, hotelID uuid.UUID) error {
	hotel, err := s.hotelRepo.GetByID(ctx, hotelID)
	if err != nil {
		return fmt.Errorf("hotel %s: %w", hotelID, err)
	}

	if hotel.OwnerID != actorID {
		return fmt.Errorf("hotel %s: %w", hotelID, domain.ErrUnauthorized)
	}

	rooms, err := s.roomRepo.ListByHotel(ctx, hotelID)
	if err != nil {
		return fmt.Errorf("list rooms: %w", err)
	}

	from := domain.TruncateToDay(s.now())

	for _, room := range rooms {
		if err := s.inventoryRepo.InitializeRoom(ctx, room, hotel.City, from, InventoryHorizonDays); err != nil {
			return fmt.Errorf("initialize inventory for room %s: %w", room.ID, err)
		}
	}

	if err := s.hotelRepo.SetActive(ctx, hotelID, true); err != nil {
		return fmt.Errorf("activate hotel: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"hotel_id": hotelID,
		"rooms":    len(rooms),
	}).Info("hotel activated with a year of inventory")

	return nil
}

// RemoveRoomInventory tears down every date row owned by the room.
func (s *InventoryService) RemoveRoomInventory(ctx context.Context, actorID, hotelID, roomID uuid.UUID) error {
	hotel, err := s.hotelRepo.GetByID(ctx, hotelID)
	if err != nil {
		return fmt.Errorf("hotel %s: %w", hotelID, err)
	}

	if hotel.OwnerID != actorID {
		return fmt.Errorf("hotel %s: %w", hotelID, domain.ErrUnauthorized)
	}

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return fmt.Errorf("room %s: %w", roomID, err)
	}

	if room.HotelID != hotelID {
		return fmt.Errorf("room %s is not part of hotel %s: %w", roomID, hotelID, domain.ErrNotFound)
	}

	if err := s.inventoryRepo.DeleteByRoom(ctx, roomID); err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}

	s.invalidate(ctx, hotelID)

	return nil
}

// GetHotelInfo returns per-room availability and average nightly price
// over the range, served through a short-lived redis cache.
func (s *InventoryService) GetHotelInfo(ctx context.Context, hotelID uuid.UUID, checkIn, checkOut time.Time, roomsCount int) (*HotelInfoResponse, error) {
	if roomsCount < 1 {
		return nil, fmt.Errorf("rooms_count must be at least 1: %w", domain.ErrInvalidInput)
	}

	key := hotelInfoCacheKey(hotelID)

	if cached, err := s.cache.Get(ctx, key).Result(); err == nil {
		var resp HotelInfoResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			return &resp, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.WithError(err).Warn("hotel info cache read failed")
	}

	hotel, err := s.hotelRepo.GetByID(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("hotel %s: %w", hotelID, err)
	}

	summaries, err := s.inventoryRepo.RoomSummaries(ctx, hotelID, checkIn, checkOut, roomsCount)
	if err != nil {
		return nil, fmt.Errorf("room summaries: %w", err)
	}

	resp := &HotelInfoResponse{
		HotelID: hotel.ID.String(),
		Name:    hotel.Name,
		City:    hotel.City,
		Rooms:   make([]RoomInfo, 0, len(summaries)),
	}

	for _, summary := range summaries {
		resp.Rooms = append(resp.Rooms, RoomInfo{
			RoomID:    summary.Room.ID.String(),
			Kind:      summary.Room.Kind,
			Available: summary.Available,
			Price:     summary.Price.StringFixed(2),
		})
	}

	if payload, err := json.Marshal(resp); err == nil {
		if err := s.cache.Set(ctx, key, payload, hotelInfoCacheTTL).Err(); err != nil {
			s.log.WithError(err).Warn("hotel info cache write failed")
		}
	}

	return resp, nil
}

// SearchHotels lists hotels in a city priced from the derived
// min-price index: the average of per-date minimums over the range.
func (s *InventoryService) SearchHotels(ctx context.Context, city string, from, to time.Time, page, size int) ([]HotelSearchResult, error) {
	if size < 1 || size > 100 {
		size = 20
	}

	if page < 0 {
		page = 0
	}

	hits, err := s.minPriceRepo.Search(ctx, city, from, to, page*size, size)
	if err != nil {
		return nil, fmt.Errorf("search hotels: %w", err)
	}

	results := make([]HotelSearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, HotelSearchResult{
			HotelID: hit.Hotel.ID.String(),
			Name:    hit.Hotel.Name,
			City:    hit.Hotel.City,
			Price:   hit.Price.StringFixed(2),
		})
	}

	return results, nil
}

func (s *InventoryService) invalidate(ctx context.Context, hotelID uuid.UUID) {
	if err := s.cache.Del(ctx, hotelInfoCacheKey(hotelID)).Err(); err != nil {
		s.log.WithError(err).WithField("hotel_id", hotelID).Warn("failed to invalidate hotel info cache")
	}
}
