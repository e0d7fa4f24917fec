// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as the reservation engine and handlers to distinguish between
// different failure scenarios with errors.Is. Every precondition
// failure of the seat-claim protocol maps to exactly one sentinel so
// that transports can expose a distinct, stable error code per kind.
package repository

import "errors"

// ErrShowNotFound indicates that a show was not located in the DB.
var ErrShowNotFound = errors.New("show not found")

// ErrMovieNotFound indicates that a movie was not located in the DB.
var ErrMovieNotFound = errors.New("movie not found")

// ErrSeatOutOfRange is returned when the requested seat number is not
// within [1, show.total_seats].
var ErrSeatOutOfRange = errors.New("seat number out of range")

// ErrSeatAlreadyBooked is returned when an active booking already
// exists for the requested (show, seat_number) pair.
var ErrSeatAlreadyBooked = errors.New("seat already booked")

// ErrShowFullyBooked is returned when the show has no remaining
// capacity. With per-seat uniqueness holding this is implied, but the
// engine still evaluates it as a guard against pathological states.
var ErrShowFullyBooked = errors.New("show fully booked")

// ErrBookingNotFound is returned when a booking does not exist or
// belongs to a different user. Ownership and existence are collapsed
// into one error on purpose so that the API does not leak whether
// another user's booking exists.
var ErrBookingNotFound = errors.New("booking not found")

// ErrAlreadyCancelled is returned when a cancellation is attempted on
// a booking that is no longer BOOKED. Handlers should translate this
// into an HTTP 409 response.
var ErrAlreadyCancelled = errors.New("booking already cancelled")

// ErrUsernameTaken is returned when a signup collides with an
// existing username.
var ErrUsernameTaken = errors.New("username already exists")
