package model

import "time"

// Show represents a scheduled screening of a movie on a particular
// screen. TotalSeats is fixed at creation and is the capacity ceiling
// for all bookings against this show; seats are numbered 1..TotalSeats.
// Shows are created and destroyed by an external admin process and are
// immutable as far as the reservation engine is concerned.
//
// Fields:
//  ID         – primary key identifier.
//  MovieID    – movie being screened.
//  ScreenName – designation of the screen (e.g. "Screen 1").
//  StartsAt   – when the show begins (UTC).
//  TotalSeats – number of numbered seats available for this show.
//  CreatedAt  – creation timestamp.
type Show struct {
	ID         uint64    // shows.id
	MovieID    uint64    // shows.movie_id
	ScreenName string    // shows.screen_name
	StartsAt   time.Time // shows.starts_at
	TotalSeats uint32    // shows.total_seats
	CreatedAt  time.Time // shows.created_at
}
