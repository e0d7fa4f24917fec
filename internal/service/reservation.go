// Package service holds the reservation engine, the single choke
// point every seat claim and cancellation goes through.
package service

import (
	"context"
	"sync"

	"github.com/mahirathood/movie-ticket-booking/internal/model"
	"github.com/mahirathood/movie-ticket-booking/internal/repository"
)

// ShowStore is the catalog access the engine needs.
type ShowStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Show, error)
}

// BookingStore is the booking persistence the engine needs. Create
// must reject a duplicate active (show, seat) pair with
// repository.ErrSeatAlreadyBooked.
type BookingStore interface {
	SeatTaken(ctx context.Context, showID uint64, seatNumber uint32) (bool, error)
	CountActive(ctx context.Context, showID uint64) (uint32, error)
	Create(ctx context.Context, b *model.Booking) error
	CancelActive(ctx context.Context, bookingID, userID uint64) (*repository.BookingDetail, error)
	ListByUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error)
	BookedSeats(ctx context.Context, showID uint64) ([]uint32, error)
}

// ReservationEngine serializes seat claims per show. Claims against
// the same show take that show's mutex, so the check-then-insert
// sequence runs as one unit and exactly one of any set of concurrent
// claims for a seat can win. Claims against different shows never
// contend.
type ReservationEngine struct {
	shows    ShowStore
	bookings BookingStore

	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

func NewReservationEngine(shows ShowStore, bookings BookingStore) *ReservationEngine {
	return &ReservationEngine{
		shows:    shows,
		bookings: bookings,
		locks:    make(map[uint64]*sync.Mutex),
	}
}

// lockFor returns the mutex guarding a show, creating it on first
// use. Lock entries are never removed; shows are few and long-lived.
func (e *ReservationEngine) lockFor(showID uint64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[showID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[showID] = l
	}
	return l
}

// ClaimSeat books seatNumber on a show for a user. Checks run in a
// fixed order inside the show's critical section: the show must
// exist, the seat must lie in [1, total_seats], the seat must be
// free, and the show must not already be at capacity. A claim for an
// already-cancelled seat succeeds; cancellation frees the seat fully.
func (e *ReservationEngine) ClaimSeat(ctx context.Context, userID, showID uint64, seatNumber int) (*model.Booking, error) {
	show, err := e.shows.GetByID(ctx, showID)
	if err != nil {
		return nil, err
	}

	if seatNumber < 1 || seatNumber > int(show.TotalSeats) {
		return nil, repository.ErrSeatOutOfRange
	}
	seat := uint32(seatNumber)

	l := e.lockFor(showID)
	l.Lock()
	defer l.Unlock()

	taken, err := e.bookings.SeatTaken(ctx, showID, seat)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, repository.ErrSeatAlreadyBooked
	}

	// Unreachable when every seat check above is sound; kept so a
	// count drifting past capacity can never be made worse.
	active, err := e.bookings.CountActive(ctx, showID)
	if err != nil {
		return nil, err
	}
	if active >= show.TotalSeats {
		return nil, repository.ErrShowFullyBooked
	}

	b := &model.Booking{
		UserID:     userID,
		ShowID:     showID,
		SeatNumber: seat,
		Status:     model.BookingStatusBooked,
	}
	if err := e.bookings.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// CancelBooking cancels a user's active booking and returns the
// updated detail. The store's conditional update makes the
// transition atomic on its own, so no show lock is needed; a claim
// racing the cancel either sees the seat taken or free, both valid.
func (e *ReservationEngine) CancelBooking(ctx context.Context, userID, bookingID uint64) (*repository.BookingDetail, error) {
	d, err := e.bookings.CancelActive(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListUserBookings returns the user's booking history, newest first.
func (e *ReservationEngine) ListUserBookings(ctx context.Context, userID uint64) ([]repository.BookingDetail, error) {
	return e.bookings.ListByUser(ctx, userID)
}

// SeatAvailability reports the booked seat numbers and total seat
// count for a show.
func (e *ReservationEngine) SeatAvailability(ctx context.Context, showID uint64) (total uint32, booked []uint32, err error) {
	show, err := e.shows.GetByID(ctx, showID)
	if err != nil {
		return 0, nil, err
	}
	booked, err = e.bookings.BookedSeats(ctx, showID)
	if err != nil {
		return 0, nil, err
	}
	return show.TotalSeats, booked, nil
}
