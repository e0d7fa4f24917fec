package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/mahirathood/movie-ticket-booking/internal/model"
)

// BookingRepo provides persistence for bookings. All writes go
// through the reservation engine, which serializes claims per show;
// on top of that the bookings table carries a uniqueness guard on
// (show_id, seat_number) for active rows, so even a write that slips
// past the engine (e.g. a second server process) cannot double-book a
// seat. Timestamps are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// BookingDetail is a booking joined with its show and movie, shaped
// for API responses. It is returned by ListByUser and CancelActive so
// clients always see the full context of a booking.
type BookingDetail struct {
	ID         uint64     `json:"id"`
	SeatNumber uint32     `json:"seat_number"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	Show       ShowDetail `json:"show"`
}

// SeatTaken reports whether an active (BOOKED) booking exists for the
// given show and seat number.
func (r *BookingRepo) SeatTaken(ctx context.Context, showID uint64, seatNumber uint32) (bool, error) {
	const q = `SELECT 1 FROM bookings WHERE show_id = ? AND seat_number = ? AND status = 'BOOKED' LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, q, showID, seatNumber).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CountActive returns the number of BOOKED bookings for a show.
func (r *BookingRepo) CountActive(ctx context.Context, showID uint64) (uint32, error) {
	const q = `SELECT COUNT(*) FROM bookings WHERE show_id = ? AND status = 'BOOKED'`
	var n uint32
	if err := r.db.QueryRowContext(ctx, q, showID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Create inserts a new BOOKED booking and populates the generated ID
// and DB-default timestamps on the provided record. A duplicate-key
// violation on the (show, active seat) unique index is translated to
// ErrSeatAlreadyBooked; with the engine serializing claims per show
// this only fires when another process won the same seat first.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings (user_id, show_id, seat_number, status) VALUES (?, ?, ?, 'BOOKED')`
	res, err := r.db.ExecContext(ctx, q, b.UserID, b.ShowID, b.SeatNumber)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrSeatAlreadyBooked
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	const sel = `SELECT id, user_id, show_id, seat_number, status, created_at, updated_at FROM bookings WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, b.ID).Scan(
		&b.ID, &b.UserID, &b.ShowID, &b.SeatNumber, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
}

// CancelActive transitions a booking from BOOKED to CANCELLED on
// behalf of its owner and returns the updated detail. The update is
// conditional on the current status, so concurrent cancel calls on
// the same booking yield exactly one success. When the row was not
// updated, a follow-up select decides between ErrBookingNotFound (no
// such booking for this user; missing and not-owned are deliberately
// indistinguishable) and ErrAlreadyCancelled.
func (r *BookingRepo) CancelActive(ctx context.Context, bookingID, userID uint64) (*BookingDetail, error) {
	const upd = `UPDATE bookings SET status = 'CANCELLED', updated_at = CURRENT_TIMESTAMP
                 WHERE id = ? AND user_id = ? AND status = 'BOOKED'`
	res, err := r.db.ExecContext(ctx, upd, bookingID, userID)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		const qExists = `SELECT status FROM bookings WHERE id = ? AND user_id = ? LIMIT 1`
		var status string
		if err := r.db.QueryRowContext(ctx, qExists, bookingID, userID).Scan(&status); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrBookingNotFound
			}
			return nil, err
		}
		return nil, ErrAlreadyCancelled
	}
	return r.getDetail(ctx, bookingID)
}

// getDetail loads one booking with its show and movie.
func (r *BookingRepo) getDetail(ctx context.Context, bookingID uint64) (*BookingDetail, error) {
	const q = `SELECT b.id, b.seat_number, b.status, b.created_at,
                      s.id, s.screen_name, s.starts_at, s.total_seats,
                      m.id, m.title, m.duration_minutes
               FROM bookings b
               JOIN shows s ON s.id = b.show_id
               JOIN movies m ON m.id = s.movie_id
               WHERE b.id = ?`
	var d BookingDetail
	err := r.db.QueryRowContext(ctx, q, bookingID).Scan(
		&d.ID, &d.SeatNumber, &d.Status, &d.CreatedAt,
		&d.Show.ID, &d.Show.ScreenName, &d.Show.StartsAt, &d.Show.TotalSeats,
		&d.Show.Movie.ID, &d.Show.Movie.Title, &d.Show.Movie.DurationMinutes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ListByUser returns all bookings for the given user regardless of
// status, joined with show and movie details, ordered by creation
// time descending (newest first). When no bookings exist, an empty
// slice is returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = `SELECT b.id, b.seat_number, b.status, b.created_at,
                      s.id, s.screen_name, s.starts_at, s.total_seats,
                      m.id, m.title, m.duration_minutes
               FROM bookings b
               JOIN shows s ON s.id = b.show_id
               JOIN movies m ON m.id = s.movie_id
               WHERE b.user_id = ?
               ORDER BY b.created_at DESC, b.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		if err := rows.Scan(
			&d.ID, &d.SeatNumber, &d.Status, &d.CreatedAt,
			&d.Show.ID, &d.Show.ScreenName, &d.Show.StartsAt, &d.Show.TotalSeats,
			&d.Show.Movie.ID, &d.Show.Movie.Title, &d.Show.Movie.DurationMinutes,
		); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// BookedSeats returns the seat numbers currently BOOKED for a show in
// ascending order. Used by the public availability endpoint; the read
// is uncoordinated with the claim critical section and tolerates a
// slightly stale snapshot.
func (r *BookingRepo) BookedSeats(ctx context.Context, showID uint64) ([]uint32, error) {
	const q = `SELECT seat_number FROM bookings WHERE show_id = ? AND status = 'BOOKED' ORDER BY seat_number ASC`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]uint32, 0)
	for rows.Next() {
		var n uint32
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		seats = append(seats, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}
