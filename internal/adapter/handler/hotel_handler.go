package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/bookstay/hotel-booking-engine/internal/core/services"
)

type HotelHandler struct {
	bookingSvc   *services.BookingService
	inventorySvc *services.InventoryService
}

func NewHotelHandler(bookingSvc *services.BookingService, inventorySvc *services.InventoryService) *HotelHandler {
	return &HotelHandler{bookingSvc: bookingSvc, inventorySvc: inventorySvc}
}

func parseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, raw, time.UTC)
}

func (h *HotelHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing or invalid user id"})
		return
	}

	hotelID, err := uuid.Parse(r.PathValue("hotelID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid hotel id"})
		return
	}

	bookings, err := h.bookingSvc.ListBookingsForHotel(r.Context(), actor, hotelID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBookingViews(bookings))
}

func (h *HotelHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing or invalid user id"})
		return
	}

	hotelID, err := uuid.Parse(r.PathValue("hotelID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid hotel id"})
		return
	}

	from, err := parseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid from date, expected YYYY-MM-DD"})
		return
	}

	to, err := parseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid to date, expected YYYY-MM-DD"})
		return
	}

	// The window covers whole days: bookings created any time on the
	// end date are included.
	report, err := h.bookingSvc.GetHotelReport(r.Context(), actor, hotelID, from, to.AddDate(0, 0, 1).Add(-time.Nanosecond))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"confirmed_count": report.ConfirmedCount,
		"total_revenue":   report.TotalRevenue.StringFixed(2),
		"average_revenue": report.AverageRevenue.StringFixed(2),
	})
}

func (h *HotelHandler) GetInfo(w http.ResponseWriter, r *http.Request) {
	hotelID, err := uuid.Parse(r.PathValue("hotelID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid hotel id"})
		return
	}

	query := r.URL.Query()

	checkIn, err := parseDate(query.Get("check_in"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid check_in date, expected YYYY-MM-DD"})
		return
	}

	checkOut, err := parseDate(query.Get("check_out"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid check_out date, expected YYYY-MM-DD"})
		return
	}

	roomsCount := 1
	if raw := query.Get("rooms_count"); raw != "" {
		roomsCount, err = strconv.Atoi(raw)
		if err != nil || roomsCount < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid rooms_count"})
			return
		}
	}

	info, err := h.inventorySvc.GetHotelInfo(r.Context(), hotelID, checkIn, checkOut, roomsCount)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, info)
}

func (h *HotelHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	city := query.Get("city")
	if city == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "city is required"})
		return
	}

	from, err := parseDate(query.Get("from"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid from date, expected YYYY-MM-DD"})
		return
	}

	to, err := parseDate(query.Get("to"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid to date, expected YYYY-MM-DD"})
		return
	}

	page := 0
	if raw := query.Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid page"})
			return
		}
	}

	results, err := h.inventorySvc.SearchHotels(r.Context(), city, from, to, page, 20)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

func (h *HotelHandler) RemoveRoom(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing or invalid user id"})
		return
	}

	hotelID, err := uuid.Parse(r.PathValue("hotelID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid hotel id"})
		return
	}

	roomID, err := uuid.Parse(r.PathValue("roomID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid room id"})
		return
	}

	if err := h.inventorySvc.RemoveRoomInventory(r.Context(), actor, hotelID, roomID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *HotelHandler) Activate(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing or invalid user id"})
		return
	}

	hotelID, err := uuid.Parse(r.PathValue("hotelID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid hotel id"})
		return
	}

	if err := h.inventorySvc.ActivateHotel(r.Context(), actor, hotelID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "active"})
}
