// Package handler defines the HTTP handlers.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mahirathood/movie-ticket-booking/internal/repository"
)

// getUserID extracts the authenticated user's ID from the context.
// The JWT middleware stores the raw subject claim, which arrives as
// float64 after JSON decoding.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// jsonError writes the common error envelope: a stable machine code
// plus a human-readable message.
func jsonError(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, echo.Map{"error": code, "message": msg})
}

// reservationError maps repository sentinels onto HTTP responses.
// Unknown errors become a generic 500 so internals never leak.
func reservationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrShowNotFound):
		return jsonError(c, http.StatusNotFound, "show_not_found", "show not found")
	case errors.Is(err, repository.ErrSeatOutOfRange):
		return jsonError(c, http.StatusBadRequest, "seat_out_of_range", "seat number out of range for this show")
	case errors.Is(err, repository.ErrSeatAlreadyBooked):
		return jsonError(c, http.StatusConflict, "seat_already_booked", "seat is already booked")
	case errors.Is(err, repository.ErrShowFullyBooked):
		return jsonError(c, http.StatusConflict, "show_fully_booked", "show is fully booked")
	case errors.Is(err, repository.ErrBookingNotFound):
		return jsonError(c, http.StatusNotFound, "booking_not_found", "booking not found")
	case errors.Is(err, repository.ErrAlreadyCancelled):
		return jsonError(c, http.StatusConflict, "booking_already_cancelled", "booking is already cancelled")
	case errors.Is(err, repository.ErrMovieNotFound):
		return jsonError(c, http.StatusNotFound, "movie_not_found", "movie not found")
	}
	return jsonError(c, http.StatusInternalServerError, "internal", "internal error")
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}
