package handler

import (
	"time"

	"github.com/bookstay/hotel-booking-engine/internal/core/domain"
)

type BookingView struct {
	ID         string   `json:"id"`
	HotelID    string   `json:"hotel_id"`
	RoomID     string   `json:"room_id"`
	CheckIn    string   `json:"check_in"`
	CheckOut   string   `json:"check_out"`
	RoomsCount int      `json:"rooms_count"`
	Amount     string   `json:"amount"`
	Status     string   `json:"status"`
	CreatedAt  string   `json:"created_at"`
	GuestNames []string `json:"guest_names,omitempty"`
}

func toBookingView(b *domain.Booking) BookingView {
	view := BookingView{
		ID:         b.ID.String(),
		HotelID:    b.HotelID.String(),
		RoomID:     b.RoomID.String(),
		CheckIn:    b.CheckIn.Format(time.DateOnly),
		CheckOut:   b.CheckOut.Format(time.DateOnly),
		RoomsCount: b.RoomsCount,
		Amount:     b.Amount.StringFixed(2),
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
	}

	for _, guest := range b.Guests {
		view.GuestNames = append(view.GuestNames, guest.Name)
	}

	return view
}

func toBookingViews(bookings []domain.Booking) []BookingView {
	views := make([]BookingView, 0, len(bookings))
	for i := range bookings {
		views = append(views, toBookingView(&bookings[i]))
	}

	return views
}
