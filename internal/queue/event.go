// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// Event kinds carried on the booking events queue.
const (
	KindBookingConfirmed = "booking.confirmed"
	KindBookingCancelled = "booking.cancelled"
)

// BookingEvent is published whenever a booking is confirmed or
// cancelled. It carries enough context for downstream consumers to
// log or notify without querying the primary database.
type BookingEvent struct {
	Kind       string `json:"kind"`
	BookingID  uint64 `json:"booking_id"`
	UserID     uint64 `json:"user_id"`
	ShowID     uint64 `json:"show_id"`
	SeatNumber uint32 `json:"seat_number"`
	MovieTitle string `json:"movie_title"`
	ScreenName string `json:"screen_name"`
	StartsAt   string `json:"starts_at"`
	OccurredAt string `json:"occurred_at"`
}
