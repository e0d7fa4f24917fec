package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mahirathood/movie-ticket-booking/internal/queue"
	"github.com/mahirathood/movie-ticket-booking/internal/repository"
	"github.com/mahirathood/movie-ticket-booking/internal/service"
)

// EventPublisher sends a booking event to the broker. Wired to
// queue.PublishBookingEvent in production; nil disables publishing.
type EventPublisher func(ctx context.Context, ev queue.BookingEvent) error

// BookingHandler serves seat claims, cancellations and booking
// history. All reservation semantics live in the engine; the handler
// only binds input, maps errors and publishes events.
type BookingHandler struct {
	Engine  *service.ReservationEngine
	Shows   ShowCatalog
	Publish EventPublisher
}

func NewBookingHandler(engine *service.ReservationEngine, shows ShowCatalog, publish EventPublisher) *BookingHandler {
	return &BookingHandler{Engine: engine, Shows: shows, Publish: publish}
}

type bookReq struct {
	SeatNumber int `json:"seat_number"`
}

// BookSeat claims one seat on a show for the authenticated user.
func (h *BookingHandler) BookSeat(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized", "unauthorized")
	}
	showID, ok := pathID(c, "id")
	if !ok {
		return jsonError(c, http.StatusNotFound, "show_not_found", "show not found")
	}
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid_body", "invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, err := h.Engine.ClaimSeat(ctx, uid, showID, req.SeatNumber)
	if err != nil {
		return reservationError(c, err)
	}

	detail, err := h.Shows.GetDetail(ctx, showID)
	if err != nil {
		// The booking already exists; degrade to a response without
		// the embedded show rather than fail the claim.
		return c.JSON(http.StatusCreated, echo.Map{
			"id":          b.ID,
			"seat_number": b.SeatNumber,
			"status":      b.Status,
			"created_at":  b.CreatedAt,
		})
	}

	h.publish(c, queue.BookingEvent{
		Kind:       queue.KindBookingConfirmed,
		BookingID:  b.ID,
		UserID:     uid,
		ShowID:     showID,
		SeatNumber: b.SeatNumber,
		MovieTitle: detail.Movie.Title,
		ScreenName: detail.ScreenName,
		StartsAt:   detail.StartsAt.UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, repository.BookingDetail{
		ID:         b.ID,
		SeatNumber: b.SeatNumber,
		Status:     b.Status,
		CreatedAt:  b.CreatedAt,
		Show:       *detail,
	})
}

// CancelBooking cancels one of the user's bookings.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized", "unauthorized")
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return jsonError(c, http.StatusNotFound, "booking_not_found", "booking not found")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	detail, err := h.Engine.CancelBooking(ctx, uid, bookingID)
	if err != nil {
		return reservationError(c, err)
	}

	h.publish(c, queue.BookingEvent{
		Kind:       queue.KindBookingCancelled,
		BookingID:  detail.ID,
		UserID:     uid,
		ShowID:     detail.Show.ID,
		SeatNumber: detail.SeatNumber,
		MovieTitle: detail.Show.Movie.Title,
		ScreenName: detail.Show.ScreenName,
		StartsAt:   detail.Show.StartsAt.UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, detail)
}

// ListMyBookings returns the user's booking history, newest first.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized", "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bookings, err := h.Engine.ListUserBookings(ctx, uid)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "internal", "list bookings failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// ShowSeats reports seat availability for a show: the seat count,
// which seats are taken, and which are free.
func (h *BookingHandler) ShowSeats(c echo.Context) error {
	showID, ok := pathID(c, "id")
	if !ok {
		return jsonError(c, http.StatusNotFound, "show_not_found", "show not found")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	total, booked, err := h.Engine.SeatAvailability(ctx, showID)
	if err != nil {
		return reservationError(c, err)
	}

	taken := make(map[uint32]bool, len(booked))
	for _, n := range booked {
		taken[n] = true
	}
	available := make([]uint32, 0, int(total)-len(booked))
	for n := uint32(1); n <= total; n++ {
		if !taken[n] {
			available = append(available, n)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"show_id":         showID,
		"total_seats":     total,
		"booked_seats":    booked,
		"available_seats": available,
	})
}

// publish fires a booking event in the background. Event delivery is
// best effort and never affects the HTTP response.
func (h *BookingHandler) publish(c echo.Context, ev queue.BookingEvent) {
	if h.Publish == nil {
		return
	}
	ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	pub := h.Publish
	// The echo context is pooled; grab the logger before leaving the
	// request goroutine.
	logger := c.Logger()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := pub(ctx, ev); err != nil {
			logger.Warnf("booking event publish failed: %v", err)
		}
	}()
}
