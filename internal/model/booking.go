package model

import "time"

// Booking statuses. A booking is created as BOOKED and transitions to
// CANCELLED exactly once; it is never deleted or otherwise mutated.
const (
	BookingStatusBooked    = "BOOKED"
	BookingStatusCancelled = "CANCELLED"
)

// Booking records a user's claim on one numbered seat of one show.
// For any show at most one booking with status BOOKED may exist per
// seat number; cancelling a booking frees the seat for future claims
// but the cancelled booking itself stays on record.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – user who owns the booking.
//  ShowID     – show the seat belongs to.
//  SeatNumber – claimed seat, in [1, show.total_seats].
//  Status     – BOOKED or CANCELLED.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last status change timestamp.
type Booking struct {
	ID         uint64    // bookings.id
	UserID     uint64    // bookings.user_id
	ShowID     uint64    // bookings.show_id
	SeatNumber uint32    // bookings.seat_number
	Status     string    // bookings.status
	CreatedAt  time.Time // bookings.created_at
	UpdatedAt  time.Time // bookings.updated_at
}
