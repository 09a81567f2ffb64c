package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/bookstay/hotel-booking-engine/internal/core/domain"
	"github.com/bookstay/hotel-booking-engine/internal/core/pricing"
	"github.com/bookstay/hotel-booking-engine/internal/core/ports"
)

// PaymentEventCheckoutCompleted is the only webhook event kind that
// drives a state transition; everything else is logged and ignored.
const PaymentEventCheckoutCompleted = "checkout.session.completed"

type CreateBookingRequest struct {
	HotelID    string `json:"hotel_id"`
	RoomID     string `json:"room_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	RoomsCount int    `json:"rooms_count"`
}

type BookingResponse struct {
	BookingID string `json:"booking_id"`
	Amount    string `json:"amount"`
	Status    string `json:"status"`
	ExpiresAt string `json:"expires_at"`
}

type PaymentInitResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// PaymentEvent is the inbound webhook payload after the transport
// layer has verified and decoded it.
type PaymentEvent struct {
	Kind      string
	SessionID string
}

type BookingService struct {
	hotelRepo     ports.HotelRepository
	roomRepo      ports.RoomRepository
	guestRepo     ports.GuestRepository
	bookingRepo   ports.BookingRepository
	inventoryRepo ports.InventoryRepository
	gateway       ports.PaymentGateway
	pricing       *pricing.Service
	cache         *redis.Client
	log           *logrus.Logger
	frontendURL   string
	now           func() time.Time
}

func NewBookingService(
	hotelRepo ports.HotelRepository,
	roomRepo ports.RoomRepository,
	guestRepo ports.GuestRepository,
	bookingRepo ports.BookingRepository,
	inventoryRepo ports.InventoryRepository,
	gateway ports.PaymentGateway,
	pricingSvc *pricing.Service,
	cache *redis.Client,
	log *logrus.Logger,
	frontendURL string,
) *BookingService {
	return &BookingService{
		hotelRepo:     hotelRepo,
		roomRepo:      roomRepo,
		guestRepo:     guestRepo,
		bookingRepo:   bookingRepo,
		inventoryRepo: inventoryRepo,
		gateway:       gateway,
		pricing:       pricingSvc,
		cache:         cache,
		log:           log,
		frontendURL:   frontendURL,
		now:           time.Now,
	}
}

// WithClock overrides the service clock. Tests use it to move a
// booking past its hold window.
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

func (s *BookingService) CreateBooking(ctx context.Context, actorID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error) {
	hotelID, err := uuid.Parse(req.HotelID)
	if err != nil {
		return nil, fmt.Errorf("hotel id: %w", domain.ErrInvalidInput)
	}

	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		return nil, fmt.Errorf("room id: %w", domain.ErrInvalidInput)
	}

	checkIn, checkOut, err := parseDateRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	if req.RoomsCount < 1 {
		return nil, fmt.Errorf("rooms_count must be at least 1: %w", domain.ErrInvalidInput)
	}

	s.log.WithFields(logrus.Fields{
		"hotel_id":  hotelID,
		"room_id":   roomID,
		"check_in":  req.CheckIn,
		"check_out": req.CheckOut,
	}).Info("initialising booking")

	if _, err := s.hotelRepo.GetByID(ctx, hotelID); err != nil {
		return nil, fmt.Errorf("hotel %s: %w", hotelID, err)
	}

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("room %s: %w", roomID, err)
	}

	if room.HotelID != hotelID {
		return nil, fmt.Errorf("room %s is not part of hotel %s: %w", roomID, hotelID, domain.ErrNotFound)
	}

	// The ledger fails closed on any night that is short or outside the
	// initialized horizon, so rows arriving here cover the whole range.
	rows, err := s.inventoryRepo.Hold(ctx, roomID, checkIn, checkOut, req.RoomsCount)
	if err != nil {
		return nil, fmt.Errorf("hold inventory: %w", err)
	}

	perRoom := s.pricing.CalculateTotalPrice(rows)
	amount := perRoom.Mul(decimal.NewFromInt(int64(req.RoomsCount)))

	booking := &domain.Booking{
		ID:         uuid.New(),
		HotelID:    hotelID,
		RoomID:     roomID,
		UserID:     actorID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		RoomsCount: req.RoomsCount,
		Amount:     amount,
		Status:     domain.BookingReserved,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		s.releaseHold(ctx, roomID, checkIn, checkOut, req.RoomsCount)
		return nil, fmt.Errorf("save booking: %w", err)
	}

	s.invalidateHotelInfo(ctx, hotelID)

	return &BookingResponse{
		BookingID: booking.ID.String(),
		Amount:    booking.Amount.StringFixed(2),
		Status:    string(booking.Status),
		ExpiresAt: booking.CreatedAt.Add(domain.HoldWindow).Format(time.RFC3339),
	}, nil
}

// releaseHold is the compensating step when a later stage of booking
// creation fails after the hold already committed.
func (s *BookingService) releaseHold(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, count int) {
	if err := s.inventoryRepo.Release(ctx, roomID, checkIn, checkOut, count); err != nil {
		s.log.WithError(err).WithField("room_id", roomID).Error("failed to release inventory hold")
	}
}

func (s *BookingService) AddGuests(ctx context.Context, actorID, bookingID uuid.UUID, guestIDs []uuid.UUID) error {
	if len(guestIDs) == 0 {
		return fmt.Errorf("provide at least one guest: %w", domain.ErrInvalidInput)
	}

	booking, err := s.guardedBooking(ctx, actorID, bookingID)
	if err != nil {
		return err
	}

	if booking.Status != domain.BookingReserved {
		return fmt.Errorf("booking %s is not under reserved state: %w", bookingID, domain.ErrInvalidState)
	}

	for _, guestID := range guestIDs {
		guest, err := s.guestRepo.GetByID(ctx, guestID)
		if err != nil {
			return fmt.Errorf("guest %s: %w", guestID, err)
		}

		if guest.UserID != actorID {
			return fmt.Errorf("guest %s: %w", guestID, domain.ErrUnauthorized)
		}
	}

	if err := s.bookingRepo.AddGuests(ctx, bookingID, guestIDs); err != nil {
		return fmt.Errorf("add guests: %w", err)
	}

	s.log.WithField("booking_id", bookingID).Info("guests added to booking")

	return nil
}

func (s *BookingService) InitiatePayment(ctx context.Context, actorID, bookingID uuid.UUID) (*PaymentInitResponse, error) {
	booking, err := s.guardedBooking(ctx, actorID, bookingID)
	if err != nil {
		return nil, err
	}

	successURL := fmt.Sprintf("%s/payments/%s/status", s.frontendURL, bookingID)
	cancelURL := fmt.Sprintf("%s/payments/%s/status", s.frontendURL, bookingID)

	// Gateway I/O happens here with no inventory locks held; the hold
	// itself was committed at creation time.
	session, err := s.gateway.CreateSession(ctx, booking.Amount, successURL, cancelURL)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	if err := s.bookingRepo.SetPaymentSession(ctx, bookingID, session.ID); err != nil {
		return nil, fmt.Errorf("record payment session: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"session_id": session.ID,
	}).Info("payment initiated")

	return &PaymentInitResponse{SessionID: session.ID, URL: session.URL}, nil
}

// HandlePaymentEvent consumes an asynchronous gateway event. Unknown
// event kinds are ignored; an unknown session id drops the event with
// ErrNotFound, relying on the gateway's own delivery retries.
func (s *BookingService) HandlePaymentEvent(ctx context.Context, event PaymentEvent) error {
	if event.Kind != PaymentEventCheckoutCompleted {
		s.log.WithField("kind", event.Kind).Warn("unhandled payment event type")
		return nil
	}

	booking, err := s.bookingRepo.GetByPaymentSessionID(ctx, event.SessionID)
	if err != nil {
		return fmt.Errorf("booking for session %s: %w", event.SessionID, err)
	}

	if booking.IsTerminal() {
		if booking.Status == domain.BookingConfirmed {
			// Duplicate delivery after a completed confirm.
			return nil
		}

		// A late completion can land after the cancellation refund went
		// out or after the expiry sweep reclaimed the hold. Confirming
		// now would resurrect a terminal booking with no inventory
		// behind it, so the event is dropped.
		s.log.WithFields(logrus.Fields{
			"booking_id": booking.ID,
			"status":     booking.Status,
			"session_id": event.SessionID,
		}).Warn("payment event for terminal booking dropped")

		return nil
	}

	if err := s.bookingRepo.Confirm(ctx, booking); err != nil {
		return fmt.Errorf("confirm booking %s: %w", booking.ID, err)
	}

	s.invalidateHotelInfo(ctx, booking.HotelID)

	s.log.WithField("booking_id", booking.ID).Info("booking confirmed")

	return nil
}

// CancelBooking cancels a confirmed booking. The refund is secured
// first; only then are the status flip and the inventory release
// committed, so a gateway failure leaves everything as it was.
func (s *BookingService) CancelBooking(ctx context.Context, actorID, bookingID uuid.UUID) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("booking %s: %w", bookingID, err)
	}

	if booking.UserID != actorID {
		return fmt.Errorf("booking %s: %w", bookingID, domain.ErrUnauthorized)
	}

	if booking.Status != domain.BookingConfirmed {
		return fmt.Errorf("only confirmed bookings can be cancelled: %w", domain.ErrInvalidState)
	}

	if booking.PaymentSessionID == nil {
		return fmt.Errorf("booking %s has no payment session: %w", bookingID, domain.ErrInvalidState)
	}

	if err := s.gateway.Refund(ctx, *booking.PaymentSessionID); err != nil {
		return fmt.Errorf("refund booking %s: %w", bookingID, err)
	}

	if err := s.bookingRepo.Cancel(ctx, booking); err != nil {
		// The refund has already gone out. This must not pass silently.
		s.log.WithError(err).WithField("booking_id", bookingID).Error("refund issued but cancellation commit failed")
		return fmt.Errorf("cancel booking %s after refund: %w", bookingID, err)
	}

	s.invalidateHotelInfo(ctx, booking.HotelID)

	s.log.WithField("booking_id", bookingID).Info("booking cancelled and refunded")

	return nil
}

func (s *BookingService) GetBookingStatus(ctx context.Context, actorID, bookingID uuid.UUID) (domain.BookingStatus, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return "", fmt.Errorf("booking %s: %w", bookingID, err)
	}

	if booking.UserID != actorID {
		return "", fmt.Errorf("booking %s: %w", bookingID, domain.ErrUnauthorized)
	}

	if booking.HasExpired(s.now()) {
		return domain.BookingExpired, nil
	}

	return booking.Status, nil
}

func (s *BookingService) ListMyBookings(ctx context.Context, actorID uuid.UUID) ([]domain.Booking, error) {
	return s.bookingRepo.ListByUser(ctx, actorID)
}

func (s *BookingService) ListBookingsForHotel(ctx context.Context, actorID, hotelID uuid.UUID) ([]domain.Booking, error) {
	hotel, err := s.hotelRepo.GetByID(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("hotel %s: %w", hotelID, err)
	}

	if hotel.OwnerID != actorID {
		return nil, fmt.Errorf("hotel %s: %w", hotelID, domain.ErrUnauthorized)
	}

	return s.bookingRepo.ListByHotel(ctx, hotelID)
}

// GetHotelReport aggregates the hotel's CONFIRMED bookings created
// within [from, to]. Zero confirmed bookings yields zeros, not an
// error; the average rounds half-up at cent precision.
func (s *BookingService) GetHotelReport(ctx context.Context, actorID, hotelID uuid.UUID, from, to time.Time) (*domain.HotelReport, error) {
	hotel, err := s.hotelRepo.GetByID(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("hotel %s: %w", hotelID, err)
	}

	if hotel.OwnerID != actorID {
		return nil, fmt.Errorf("hotel %s: %w", hotelID, domain.ErrUnauthorized)
	}

	bookings, err := s.bookingRepo.ListByHotelCreatedBetween(ctx, hotelID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	report := &domain.HotelReport{
		TotalRevenue:   decimal.Zero,
		AverageRevenue: decimal.Zero,
	}

	for i := range bookings {
		if bookings[i].Status != domain.BookingConfirmed {
			continue
		}

		report.ConfirmedCount++
		report.TotalRevenue = report.TotalRevenue.Add(bookings[i].Amount)
	}

	if report.ConfirmedCount > 0 {
		report.AverageRevenue = report.TotalRevenue.DivRound(decimal.NewFromInt(int64(report.ConfirmedCount)), 2)
	}

	return report, nil
}

// guardedBooking applies the shared pre-payment mutation guards:
// the booking must exist, belong to the actor, and still be inside
// its hold window.
func (s *BookingService) guardedBooking(ctx context.Context, actorID, bookingID uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, err)
	}

	if booking.UserID != actorID {
		return nil, fmt.Errorf("booking %s: %w", bookingID, domain.ErrUnauthorized)
	}

	if booking.HasExpired(s.now()) {
		return nil, fmt.Errorf("booking %s: %w", bookingID, domain.ErrExpired)
	}

	return booking, nil
}

func (s *BookingService) invalidateHotelInfo(ctx context.Context, hotelID uuid.UUID) {
	if err := s.cache.Del(ctx, hotelInfoCacheKey(hotelID)).Err(); err != nil {
		s.log.WithError(err).WithField("hotel_id", hotelID).Warn("failed to invalidate hotel info cache")
	}
}

func parseDateRange(in, out string) (time.Time, time.Time, error) {
	checkIn, err := time.ParseInLocation(time.DateOnly, in, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("check_in must be YYYY-MM-DD: %w", domain.ErrInvalidInput)
	}

	checkOut, err := time.ParseInLocation(time.DateOnly, out, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("check_out must be YYYY-MM-DD: %w", domain.ErrInvalidInput)
	}

	if checkOut.Before(checkIn) {
		return time.Time{}, time.Time{}, fmt.Errorf("check_out must not be before check_in: %w", domain.ErrInvalidInput)
	}

	return checkIn, checkOut, nil
}
