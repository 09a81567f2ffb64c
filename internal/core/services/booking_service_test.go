package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bookstay/hotel-booking-engine/internal/core/domain"
	"github.com/bookstay/hotel-booking-engine/internal/core/ports"
	"github.com/bookstay/hotel-booking-engine/internal/core/ports/mocks"
	"github.com/bookstay/hotel-booking-engine/internal/core/pricing"
	"github.com/bookstay/hotel-booking-engine/internal/core/services"
)

type bookingFixture struct {
	hotelRepo     *mocks.HotelRepository
	roomRepo      *mocks.RoomRepository
	guestRepo     *mocks.GuestRepository
	bookingRepo   *mocks.BookingRepository
	inventoryRepo *mocks.InventoryRepository
	gateway       *mocks.PaymentGateway
	redis         redismock.ClientMock
	svc           *services.BookingService
}

func newBookingFixture(t *testing.T) *bookingFixture {
	f := &bookingFixture{
		hotelRepo:     mocks.NewHotelRepository(t),
		roomRepo:      mocks.NewRoomRepository(t),
		guestRepo:     mocks.NewGuestRepository(t),
		bookingRepo:   mocks.NewBookingRepository(t),
		inventoryRepo: mocks.NewInventoryRepository(t),
		gateway:       mocks.NewPaymentGateway(t),
	}

	db, redisMock := redismock.NewClientMock()
	f.redis = redisMock

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	f.svc = services.NewBookingService(
		f.hotelRepo, f.roomRepo, f.guestRepo, f.bookingRepo, f.inventoryRepo,
		f.gateway, pricing.NewService(), db, log, "http://localhost:3000",
	)

	return f
}

func inventoryRows(roomID uuid.UUID, checkIn time.Time, nights int, basePrice int64) []domain.Inventory {
	rows := make([]domain.Inventory, 0, nights)
	for day := 0; day < nights; day++ {
		rows = append(rows, domain.Inventory{
			ID:        uuid.New(),
			RoomID:    roomID,
			Date:      checkIn.AddDate(0, 0, day),
			Total:     5,
			BasePrice: decimal.NewFromInt(basePrice),
			Price:     decimal.NewFromInt(basePrice),
		})
	}

	return rows
}

func TestCreateBooking_Success(t *testing.T) {
	f := newBookingFixture(t)

	ctx := context.Background()
	userID := uuid.New()
	hotelID := uuid.New()
	roomID := uuid.New()
	checkIn := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	f.hotelRepo.On("GetByID", ctx, hotelID).Return(&domain.Hotel{ID: hotelID, OwnerID: uuid.New()}, nil)
	f.roomRepo.On("GetByID", ctx, roomID).Return(&domain.Room{ID: roomID, HotelID: hotelID}, nil)
	f.inventoryRepo.On("Hold", ctx, roomID, checkIn, checkOut, 2).
		Return(inventoryRows(roomID, checkIn, 3, 100), nil)
	f.bookingRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)

	f.redis.ExpectDel(fmt.Sprintf("hotel:info:%s", hotelID)).SetVal(1)

	resp, err := f.svc.CreateBooking(ctx, userID, services.CreateBookingRequest{
		HotelID:    hotelID.String(),
		RoomID:     roomID.String(),
		CheckIn:    "2025-06-01",
		CheckOut:   "2025-06-03",
		RoomsCount: 2,
	})

	assert.NoError(t, err)
	if assert.NotNil(t, resp) {
		// 3 nights x 100 per night x 2 rooms.
		assert.Equal(t, "600.00", resp.Amount)
		assert.Equal(t, string(domain.BookingReserved), resp.Status)
	}

	if err := f.redis.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestCreateBooking_Fail_Unavailable(t *testing.T) {
	f := newBookingFixture(t)

	ctx := context.Background()
	hotelID := uuid.New()
	roomID := uuid.New()

	f.hotelRepo.On("GetByID", ctx, hotelID).Return(&domain.Hotel{ID: hotelID}, nil)
	f.roomRepo.On("GetByID", ctx, roomID).Return(&domain.Room{ID: roomID, HotelID: hotelID}, nil)
	f.inventoryRepo.On("Hold", ctx, roomID, mock.Anything, mock.Anything, 1).
		Return(nil, fmt.Errorf("no capacity on 2025-06-02: %w", domain.ErrUnavailable))

	resp, err := f.svc.CreateBooking(ctx, uuid.New(), services.CreateBookingRequest{
		HotelID:    hotelID.String(),
		RoomID:     roomID.String(),
		CheckIn:    "2025-06-01",
		CheckOut:   "2025-06-03",
		RoomsCount: 1,
	})

	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Nil(t, resp)
}

func TestCreateBooking_RoomNotInHotel(t *testing.T) {
	f := newBookingFixture(t)

	ctx := context.Background()
	hotelID := uuid.New()
	roomID := uuid.New()

	f.hotelRepo.On("GetByID", ctx, hotelID).Return(&domain.Hotel{ID: hotelID}, nil)
	f.roomRepo.On("GetByID", ctx, roomID).Return(&domain.Room{ID: roomID, HotelID: uuid.New()}, nil)

	_, err := f.svc.CreateBooking(ctx, uuid.New(), services.CreateBookingRequest{
		HotelID:    hotelID.String(),
		RoomID:     roomID.String(),
		CheckIn:    "2025-06-01",
		CheckOut:   "2025-06-03",
		RoomsCount: 1,
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateBooking_MalformedRequest(t *testing.T) {
	f := newBookingFixture(t)

	cases := []struct {
		name string
		req  services.CreateBookingRequest
	}{
		{"bad hotel id", services.CreateBookingRequest{
			HotelID: "not-a-uuid", RoomID: uuid.New().String(),
			CheckIn: "2025-06-01", CheckOut: "2025-06-03", RoomsCount: 1,
		}},
		{"bad check_in", services.CreateBookingRequest{
			HotelID: uuid.New().String(), RoomID: uuid.New().String(),
			CheckIn: "June 1st", CheckOut: "2025-06-03", RoomsCount: 1,
		}},
		{"check_out before check_in", services.CreateBookingRequest{
			HotelID: uuid.New().String(), RoomID: uuid.New().String(),
			CheckIn: "2025-06-03", CheckOut: "2025-06-01", RoomsCount: 1,
		}},
		{"zero rooms", services.CreateBookingRequest{
			HotelID: uuid.New().String(), RoomID: uuid.New().String(),
			CheckIn: "2025-06-01", CheckOut: "2025-06-03", RoomsCount: 0,
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateBooking(context.Background(), uuid.New(), tc.req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreateBooking_ReleasesHoldWhenSaveFails(t *testing.T) {
	f := newBookingFixture(t)

	ctx := context.Background()
	hotelID := uuid.New()
	roomID := uuid.New()
	checkIn := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	f.hotelRepo.On("GetByID", ctx, hotelID).Return(&domain.Hotel{ID: hotelID}, nil)
	f.roomRepo.On("GetByID", ctx, roomID).Return(&domain.Room{ID: roomID, HotelID: hotelID}, nil)
	f.inventoryRepo.On("Hold", ctx, roomID, checkIn, checkOut, 1).
		Return(inventoryRows(roomID, checkIn, 3, 100), nil)
	f.bookingRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).
		Return(fmt.Errorf("insert booking: connection reset"))
	f.inventoryRepo.On("Release", ctx, roomID, checkIn, checkOut, 1).Return(nil)

	_, err := f.svc.CreateBooking(ctx, uuid.New(), services.CreateBookingRequest{
		HotelID:    hotelID.String(),
		RoomID:     roomID.String(),
		CheckIn:    "2025-06-01",
		CheckOut:   "2025-06-03",
		RoomsCount: 1,
	})

	assert.Error(t, err)
	f.inventoryRepo.AssertCalled(t, "Release", ctx, roomID, checkIn, checkOut, 1)
}

func TestAddGuests_Success(t *testing.T) {
	f := newBookingFixture(t)

	ctx := context.Background()
	userID := uuid.New()
	bookingID := uuid.New()
	guestID := uuid.New()

	f.bookingRepo.On("GetByID", ctx, bookingID).Return(&domain.Booking{
		ID:        bookingID,
		UserID:    userID,
		Status:    domain.BookingReserved,
		CreatedAt: time.Now().UTC(),
	}, nil)
	f.guestRepo.On("GetByID", ctx, guestID).Return(&domain.Guest{ID: guestID, UserID: userID}, nil)
	f.bookingRepo.On("AddGuests", ctx, bookingID, []uuid.UUID{guestID}).Return(nil)

	err := f.svc.AddGuests(ctx, userID, bookingID, []uuid.UUID{guestID})

	assert.NoError(t, err)
}

func TestAddGuests_ExpiredNotInvalidState(t *testing.T) {
	f := newBookingFixture(t)

	ctx := context.Background()
	userID := uuid.New()
	bookingID := uuid.New()
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	f.bookingRepo.On("GetByID", ctx, bookingID).Return(&domain.Booking{
		ID:        bookingID,
		UserID:    userID,
		Status:    domain.BookingReserved,
		CreatedAt: createdAt,
	}, nil)

	// 11 minutes after creation the hold window is gone, so the call
	// must fail with Expired even though the stored state is RESERVED.
	f.svc.WithClock(func() time.Time { return createdAt.Add(11 * time.Minute) })

	err := f.svc.AddGuests(ctx, userID, bookingID, []uuid.UUID{uuid.New()})

	assert.ErrorIs(t, err, domain.ErrExpired)
	assert.NotErrorIs(t, err, domain.ErrInvalidState)
}

func TestAddGuests_WrongUser(t *testing.T) {
	f := newBookingFixture(t)

	ctx := context.Background()
	bookingID := uuid.New()

	f.bookingRepo.On("GetByID", ctx, bookingID).Return(&domain.Booking{
		ID:        bookingID,
		UserID:    uuid.New(),
		Status:    domain.BookingReserved,
		CreatedAt: time.Now().UTC(),
	}, nil)

	err := f.svc.AddGuests(ctx, uuid.New(), bookingID, []uuid.UUID{uuid.New()})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAddGuests_WrongState(t *testing.T) {
	f := newBookingFixture(t)

	ctx := context.Background()
	userID := uuid.New()
	bookingID := uuid.New()

	f.bookingRepo.On("GetByID", ctx, bookingID).Return(&domain.Booking{
		ID:        bookingID,
		UserID:    userID,
		Status:    domain.BookingGuestsAdded,
		CreatedAt: time.Now().UTC(),
	}, nil)

	err := f.svc.AddGuests(ctx, userID, bookingID, []uuid.UUID{uuid.New()})

	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestInitiatePayment_Success(t *testing.T) {
	f := newBookingFixture(t)

	ctx := context.Background()
	userID := uuid.New()
	bookingID := uuid.New()
	amount := decimal.NewFromInt(300)

	f.bookingRepo.On("GetByID", ctx, bookingID).Return(&domain.Booking{
		ID:        bookingID,
		UserID:    userID,
		Amount:    amount,
		Status:    domain.BookingGuestsAdded,
		CreatedAt: time.Now().UTC(),
	}, nil)
	f.gateway.On("CreateSession", ctx, amount, mock.AnythingOfType("string"), mock.AnythingOfType("string")).
		Return(&ports.CheckoutSession{ID: "cs_test_123", URL: "https://pay.example/cs_test_123"}, nil)
	f.bookingRepo.On("SetPaymentSession", ctx, bookingID, "cs_test_123").Return(nil)

	resp, err := f.svc.InitiatePayment(ctx, userID, bookingID)

	assert.NoError(t, err)
	if assert.NotNil(t, resp) {
		assert.Equal(t, "cs_test_123", resp.SessionID)
	}
}

func TestHandlePaymentEvent_ConfirmsBooking(t *testing.T) {
	f := newBookingFixture(t)

	ctx := context.Background()
	hotelID := uuid.New()
	booking := &domain.Booking{
		ID:         uuid.New(),
		HotelID:    hotelID,
		RoomID:     uuid.New(),
		RoomsCount: 1,
		Status:     domain.BookingPaymentsPending,
		CreatedAt:  time.Now().UTC(),
	}

	f.bookingRepo.On("GetByPaymentSessionID", ctx, "cs_test_123").Return(booking, nil)
	f.bookingRepo.On("Confirm", ctx, booking).Return(nil)

	f.redis.ExpectDel(fmt.Sprintf("hotel:info:%s", hotelID)).SetVal(1)

	err := f.svc.HandlePaymentEvent(ctx, services.PaymentEvent{
		Kind:      services.PaymentEventCheckoutCompleted,
		SessionID: "cs_test_123",
	})

	assert.NoError(t, err)
}

func TestHandlePaymentEvent_UnknownKindIgnored(t *testing.T) {
	f := newBookingFixture(t)

	err := f.svc.HandlePaymentEvent(context.Background(), services.PaymentEvent{
		Kind:      "payment_intent.created",
		SessionID: "cs_test_123",
	})

	// Ignored, not an error, and the booking repo is never touched.
	assert.NoError(t, err)
}

func TestHandlePaymentEvent_UnknownSessionDropped(t *testing.T) {
	f := newBookingFixture(t)

	ctx := context.Background()

	f.bookingRepo.On("GetByPaymentSessionID", ctx, "cs_unknown").Return(nil, domain.ErrNotFound)

	err := f.svc.HandlePaymentEvent(ctx, services.PaymentEvent{
		Kind:      services.PaymentEventCheckoutCompleted,
		SessionID: "cs_unknown",
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHandlePaymentEvent_DuplicateDeliveryIsNoOp(t *testing.T) {
	f := newBookingFixture(t)

	ctx := context.Background()

	f.bookingRepo.On("GetByPaymentSessionID", ctx, "cs_test_123").Return(&domain.Booking{
		ID:     uuid.New(),
		Status: domain.BookingConfirmed,
	}, nil)

	err := f.svc.HandlePaymentEvent(ctx, services.PaymentEvent{
		Kind:      services.PaymentEventCheckoutCompleted,
		SessionID: "cs_test_123",
	})

	assert.NoError(t, err)
	f.bookingRepo.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
}

func TestHandlePaymentEvent_LateEventAfterCancellationDropped(t *testing.T) {
	f := newBookingFixture(t)

	ctx := context.Background()

	// The refund already went out; a replayed completion must not
	// resurrect the booking.
	f.bookingRepo.On("GetByPaymentSessionID", ctx, "cs_test_123").Return(&domain.Booking{
		ID:     uuid.New(),
		Status: domain.BookingCancelled,
	}, nil)

	err := f.svc.HandlePaymentEvent(ctx, services.PaymentEvent{
		Kind:      services.PaymentEventCheckoutCompleted,
		SessionID: "cs_test_123",
	})

	assert.NoError(t, err)
	f.bookingRepo.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
}

func TestHandlePaymentEvent_LateEventAfterExpiryDropped(t *testing.T) {
	f := newBookingFixture(t)

	ctx := context.Background()

	// The reaper reclaimed the hold before the completion arrived.
	f.bookingRepo.On("GetByPaymentSessionID", ctx, "cs_test_123").Return(&domain.Booking{
		ID:     uuid.New(),
		Status: domain.BookingExpired,
	}, nil)

	err := f.svc.HandlePaymentEvent(ctx, services.PaymentEvent{
		Kind:      services.PaymentEventCheckoutCompleted,
		SessionID: "cs_test_123",
	})

	assert.NoError(t, err)
	f.bookingRepo.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
}

func TestCancelBooking_Success(t *testing.T) {
	f := newBookingFixture(t)

	ctx := context.Background()
	userID := uuid.New()
	hotelID := uuid.New()
	sessionID := "cs_test_123"
	booking := &domain.Booking{
		ID:               uuid.New(),
		HotelID:          hotelID,
		UserID:           userID,
		RoomsCount:       1,
		Status:           domain.BookingConfirmed,
		PaymentSessionID: &sessionID,
	}

	f.bookingRepo.On("GetByID", ctx, booking.ID).Return(booking, nil)
	f.gateway.On("Refund", ctx, sessionID).Return(nil)
	f.bookingRepo.On("Cancel", ctx, booking).Return(nil)

	f.redis.ExpectDel(fmt.Sprintf("hotel:info:%s", hotelID)).SetVal(1)

	err := f.svc.CancelBooking(ctx, userID, booking.ID)

	assert.NoError(t, err)
}

func TestCancelBooking_RefundFailureLeavesBookingConfirmed(t *testing.T) {
	f := newBookingFixture(t)

	ctx := context.Background()
	userID := uuid.New()
	sessionID := "cs_test_123"
	booking := &domain.Booking{
		ID:               uuid.New(),
		UserID:           userID,
		RoomsCount:       1,
		Status:           domain.BookingConfirmed,
		PaymentSessionID: &sessionID,
	}

	f.bookingRepo.On("GetByID", ctx, booking.ID).Return(booking, nil)
	f.gateway.On("Refund", ctx, sessionID).
		Return(fmt.Errorf("provider rejected refund: %w", domain.ErrGateway))

	err := f.svc.CancelBooking(ctx, userID, booking.ID)

	assert.ErrorIs(t, err, domain.ErrGateway)
	// No local state may change when the refund fails.
	f.bookingRepo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
}

func TestCancelBooking_OnlyConfirmed(t *testing.T) {
	f := newBookingFixture(t)

	ctx := context.Background()
	userID := uuid.New()
	booking := &domain.Booking{
		ID:     uuid.New(),
		UserID: userID,
		Status: domain.BookingReserved,
	}

	f.bookingRepo.On("GetByID", ctx, booking.ID).Return(booking, nil)

	err := f.svc.CancelBooking(ctx, userID, booking.ID)

	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestGetBookingStatus_ReportsExpiry(t *testing.T) {
	f := newBookingFixture(t)

	ctx := context.Background()
	userID := uuid.New()
	bookingID := uuid.New()
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	f.bookingRepo.On("GetByID", ctx, bookingID).Return(&domain.Booking{
		ID:        bookingID,
		UserID:    userID,
		Status:    domain.BookingReserved,
		CreatedAt: createdAt,
	}, nil)

	f.svc.WithClock(func() time.Time { return createdAt.Add(11 * time.Minute) })

	status, err := f.svc.GetBookingStatus(ctx, userID, bookingID)

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingExpired, status)
}

func TestGetHotelReport_AggregatesConfirmedOnly(t *testing.T) {
	f := newBookingFixture(t)

	ctx := context.Background()
	ownerID := uuid.New()
	hotelID := uuid.New()
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	f.hotelRepo.On("GetByID", ctx, hotelID).Return(&domain.Hotel{ID: hotelID, OwnerID: ownerID}, nil)
	f.bookingRepo.On("ListByHotelCreatedBetween", ctx, hotelID, from, to).Return([]domain.Booking{
		{Status: domain.BookingConfirmed, Amount: decimal.RequireFromString("100.00")},
		{Status: domain.BookingConfirmed, Amount: decimal.RequireFromString("150.00")},
		{Status: domain.BookingCancelled, Amount: decimal.RequireFromString("200.00")},
	}, nil)

	report, err := f.svc.GetHotelReport(ctx, ownerID, hotelID, from, to)

	assert.NoError(t, err)
	if assert.NotNil(t, report) {
		assert.Equal(t, 2, report.ConfirmedCount)
		assert.Equal(t, "250.00", report.TotalRevenue.StringFixed(2))
		assert.Equal(t, "125.00", report.AverageRevenue.StringFixed(2))
	}
}

func TestGetHotelReport_EmptyWindowYieldsZeros(t *testing.T) {
	f := newBookingFixture(t)

	ctx := context.Background()
	ownerID := uuid.New()
	hotelID := uuid.New()
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	f.hotelRepo.On("GetByID", ctx, hotelID).Return(&domain.Hotel{ID: hotelID, OwnerID: ownerID}, nil)
	f.bookingRepo.On("ListByHotelCreatedBetween", ctx, hotelID, from, to).Return(nil, nil)

	report, err := f.svc.GetHotelReport(ctx, ownerID, hotelID, from, to)

	assert.NoError(t, err)
	if assert.NotNil(t, report) {
		assert.Equal(t, 0, report.ConfirmedCount)
		assert.True(t, report.TotalRevenue.IsZero())
		assert.True(t, report.AverageRevenue.IsZero())
	}
}

func TestListBookingsForHotel_OwnerOnly(t *testing.T) {
	f := newBookingFixture(t)

	ctx := context.Background()
	hotelID := uuid.New()

	f.hotelRepo.On("GetByID", ctx, hotelID).Return(&domain.Hotel{ID: hotelID, OwnerID: uuid.New()}, nil)

	_, err := f.svc.ListBookingsForHotel(ctx, uuid.New(), hotelID)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
