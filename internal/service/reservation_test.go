package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahirathood/movie-ticket-booking/internal/model"
	"github.com/mahirathood/movie-ticket-booking/internal/repository"
)

// memShowStore is an in-memory ShowStore.
type memShowStore struct {
	shows map[uint64]*model.Show
}

func (s *memShowStore) GetByID(_ context.Context, id uint64) (*model.Show, error) {
	sh, ok := s.shows[id]
	if !ok {
		return nil, repository.ErrShowNotFound
	}
	cp := *sh
	return &cp, nil
}

// memBookingStore is an in-memory BookingStore with the same
// uniqueness guarantee the MySQL schema enforces: at most one BOOKED
// row per (show, seat).
type memBookingStore struct {
	mu     sync.Mutex
	nextID uint64
	rows   []model.Booking

	// countActive overrides CountActive when set, to simulate a
	// store whose count disagrees with its per-seat state.
	countActive func(showID uint64) (uint32, error)
}

func (s *memBookingStore) SeatTaken(_ context.Context, showID uint64, seat uint32) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.rows {
		if b.ShowID == showID && b.SeatNumber == seat && b.Status == model.BookingStatusBooked {
			return true, nil
		}
	}
	return false, nil
}

func (s *memBookingStore) CountActive(_ context.Context, showID uint64) (uint32, error) {
	if s.countActive != nil {
		return s.countActive(showID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var n uint32
	for _, b := range s.rows {
		if b.ShowID == showID && b.Status == model.BookingStatusBooked {
			n++
		}
	}
	return n, nil
}

func (s *memBookingStore) Create(_ context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.ShowID == b.ShowID && r.SeatNumber == b.SeatNumber && r.Status == model.BookingStatusBooked {
			return repository.ErrSeatAlreadyBooked
		}
	}
	s.nextID++
	b.ID = s.nextID
	s.rows = append(s.rows, *b)
	return nil
}

func (s *memBookingStore) CancelActive(_ context.Context, bookingID, userID uint64) (*repository.BookingDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		b := &s.rows[i]
		if b.ID != bookingID || b.UserID != userID {
			continue
		}
		if b.Status == model.BookingStatusCancelled {
			return nil, repository.ErrAlreadyCancelled
		}
		b.Status = model.BookingStatusCancelled
		return &repository.BookingDetail{
			ID:         b.ID,
			SeatNumber: b.SeatNumber,
			Status:     b.Status,
			Show:       repository.ShowDetail{ID: b.ShowID},
		}, nil
	}
	return nil, repository.ErrBookingNotFound
}

func (s *memBookingStore) ListByUser(_ context.Context, userID uint64) ([]repository.BookingDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]repository.BookingDetail, 0)
	// Rows are appended in creation order; newest first means
	// walking backwards.
	for i := len(s.rows) - 1; i >= 0; i-- {
		b := s.rows[i]
		if b.UserID != userID {
			continue
		}
		out = append(out, repository.BookingDetail{
			ID:         b.ID,
			SeatNumber: b.SeatNumber,
			Status:     b.Status,
			Show:       repository.ShowDetail{ID: b.ShowID},
		})
	}
	return out, nil
}

func (s *memBookingStore) BookedSeats(_ context.Context, showID uint64) ([]uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seats := make([]uint32, 0)
	for _, b := range s.rows {
		if b.ShowID == showID && b.Status == model.BookingStatusBooked {
			seats = append(seats, b.SeatNumber)
		}
	}
	sort.Slice(seats, func(i, j int) bool { return seats[i] < seats[j] })
	return seats, nil
}

func newTestEngine(shows ...*model.Show) (*ReservationEngine, *memBookingStore) {
	ss := &memShowStore{shows: map[uint64]*model.Show{}}
	for _, sh := range shows {
		ss.shows[sh.ID] = sh
	}
	bs := &memBookingStore{}
	return NewReservationEngine(ss, bs), bs
}

func TestClaimSeat(t *testing.T) {
	ctx := context.Background()

	t.Run("books a free seat", func(t *testing.T) {
		eng, _ := newTestEngine(&model.Show{ID: 1, TotalSeats: 10})

		b, err := eng.ClaimSeat(ctx, 7, 1, 4)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), b.UserID)
		assert.Equal(t, uint32(4), b.SeatNumber)
		assert.Equal(t, model.BookingStatusBooked, b.Status)
		assert.NotZero(t, b.ID)
	})

	t.Run("unknown show", func(t *testing.T) {
		eng, _ := newTestEngine()

		_, err := eng.ClaimSeat(ctx, 1, 99, 1)
		assert.ErrorIs(t, err, repository.ErrShowNotFound)
	})

	t.Run("seat out of range", func(t *testing.T) {
		eng, _ := newTestEngine(&model.Show{ID: 1, TotalSeats: 10})

		for _, seat := range []int{0, -3, 11, 1000} {
			_, err := eng.ClaimSeat(ctx, 1, 1, seat)
			assert.ErrorIs(t, err, repository.ErrSeatOutOfRange, "seat %d", seat)
		}
		// Boundaries are valid.
		_, err := eng.ClaimSeat(ctx, 1, 1, 1)
		assert.NoError(t, err)
		_, err = eng.ClaimSeat(ctx, 1, 1, 10)
		assert.NoError(t, err)
	})

	t.Run("seat already booked", func(t *testing.T) {
		eng, _ := newTestEngine(&model.Show{ID: 1, TotalSeats: 10})

		_, err := eng.ClaimSeat(ctx, 1, 1, 5)
		require.NoError(t, err)
		_, err = eng.ClaimSeat(ctx, 2, 1, 5)
		assert.ErrorIs(t, err, repository.ErrSeatAlreadyBooked)
		// Same user claiming their own seat again is still a conflict.
		_, err = eng.ClaimSeat(ctx, 1, 1, 5)
		assert.ErrorIs(t, err, repository.ErrSeatAlreadyBooked)
	})

	t.Run("capacity backstop", func(t *testing.T) {
		ss := &memShowStore{shows: map[uint64]*model.Show{1: {ID: 1, TotalSeats: 3}}}
		bs := &memBookingStore{countActive: func(uint64) (uint32, error) { return 3, nil }}
		eng := NewReservationEngine(ss, bs)

		_, err := eng.ClaimSeat(ctx, 1, 1, 2)
		assert.ErrorIs(t, err, repository.ErrShowFullyBooked)
	})
}

func TestClaimSeatConcurrent(t *testing.T) {
	ctx := context.Background()

	t.Run("one winner per seat", func(t *testing.T) {
		eng, _ := newTestEngine(&model.Show{ID: 1, TotalSeats: 50})

		const claimers = 32
		errs := make([]error, claimers)
		var wg sync.WaitGroup
		for i := 0; i < claimers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = eng.ClaimSeat(ctx, uint64(i+1), 1, 7)
			}(i)
		}
		wg.Wait()

		wins := 0
		for _, err := range errs {
			if err == nil {
				wins++
			} else {
				assert.ErrorIs(t, err, repository.ErrSeatAlreadyBooked)
			}
		}
		assert.Equal(t, 1, wins)
	})

	t.Run("distinct seats all succeed", func(t *testing.T) {
		const seats = 40
		eng, bs := newTestEngine(&model.Show{ID: 1, TotalSeats: seats})

		var wg sync.WaitGroup
		errs := make([]error, seats)
		for i := 1; i <= seats; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i-1] = eng.ClaimSeat(ctx, uint64(i), 1, i)
			}(i)
		}
		wg.Wait()

		for i, err := range errs {
			assert.NoError(t, err, "seat %d", i+1)
		}
		booked, err := bs.BookedSeats(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, booked, seats)
	})

	t.Run("shows are independent", func(t *testing.T) {
		eng, _ := newTestEngine(
			&model.Show{ID: 1, TotalSeats: 10},
			&model.Show{ID: 2, TotalSeats: 10},
		)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i, showID := range []uint64{1, 2} {
			wg.Add(1)
			go func(i int, showID uint64) {
				defer wg.Done()
				_, errs[i] = eng.ClaimSeat(ctx, uint64(i+1), showID, 3)
			}(i, showID)
		}
		wg.Wait()

		// Seat 3 exists on both shows; both claims win.
		assert.NoError(t, errs[0])
		assert.NoError(t, errs[1])
	})
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel frees the seat", func(t *testing.T) {
		eng, _ := newTestEngine(&model.Show{ID: 1, TotalSeats: 5})

		b, err := eng.ClaimSeat(ctx, 1, 1, 2)
		require.NoError(t, err)

		d, err := eng.CancelBooking(ctx, 1, b.ID)
		require.NoError(t, err)
		assert.Equal(t, model.BookingStatusCancelled, d.Status)

		// Another user can now take the same seat.
		b2, err := eng.ClaimSeat(ctx, 2, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), b2.UserID)
	})

	t.Run("only the owner can cancel", func(t *testing.T) {
		eng, _ := newTestEngine(&model.Show{ID: 1, TotalSeats: 5})

		b, err := eng.ClaimSeat(ctx, 1, 1, 2)
		require.NoError(t, err)

		_, err = eng.CancelBooking(ctx, 2, b.ID)
		assert.ErrorIs(t, err, repository.ErrBookingNotFound)
	})

	t.Run("double cancel", func(t *testing.T) {
		eng, _ := newTestEngine(&model.Show{ID: 1, TotalSeats: 5})

		b, err := eng.ClaimSeat(ctx, 1, 1, 2)
		require.NoError(t, err)

		_, err = eng.CancelBooking(ctx, 1, b.ID)
		require.NoError(t, err)
		_, err = eng.CancelBooking(ctx, 1, b.ID)
		assert.ErrorIs(t, err, repository.ErrAlreadyCancelled)
	})

	t.Run("unknown booking", func(t *testing.T) {
		eng, _ := newTestEngine(&model.Show{ID: 1, TotalSeats: 5})

		_, err := eng.CancelBooking(ctx, 1, 404)
		assert.ErrorIs(t, err, repository.ErrBookingNotFound)
	})

	t.Run("concurrent cancels have one winner", func(t *testing.T) {
		eng, _ := newTestEngine(&model.Show{ID: 1, TotalSeats: 5})

		b, err := eng.ClaimSeat(ctx, 1, 1, 2)
		require.NoError(t, err)

		const cancellers = 8
		errs := make([]error, cancellers)
		var wg sync.WaitGroup
		for i := 0; i < cancellers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = eng.CancelBooking(ctx, 1, b.ID)
			}(i)
		}
		wg.Wait()

		wins := 0
		for _, err := range errs {
			if err == nil {
				wins++
			} else {
				assert.True(t, errors.Is(err, repository.ErrAlreadyCancelled))
			}
		}
		assert.Equal(t, 1, wins)
	})
}

func TestListUserBookings(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(&model.Show{ID: 1, TotalSeats: 10})

	b1, err := eng.ClaimSeat(ctx, 1, 1, 1)
	require.NoError(t, err)
	b2, err := eng.ClaimSeat(ctx, 1, 1, 2)
	require.NoError(t, err)
	_, err = eng.ClaimSeat(ctx, 2, 1, 3)
	require.NoError(t, err)
	_, err = eng.CancelBooking(ctx, 1, b1.ID)
	require.NoError(t, err)

	list, err := eng.ListUserBookings(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Newest first; cancelled bookings remain in the history.
	assert.Equal(t, b2.ID, list[0].ID)
	assert.Equal(t, model.BookingStatusBooked, list[0].Status)
	assert.Equal(t, b1.ID, list[1].ID)
	assert.Equal(t, model.BookingStatusCancelled, list[1].Status)

	empty, err := eng.ListUserBookings(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSeatAvailability(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(&model.Show{ID: 1, TotalSeats: 4})

	_, err := eng.ClaimSeat(ctx, 1, 1, 2)
	require.NoError(t, err)
	_, err = eng.ClaimSeat(ctx, 2, 1, 4)
	require.NoError(t, err)

	total, booked, err := eng.SeatAvailability(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), total)
	assert.Equal(t, []uint32{2, 4}, booked)

	_, _, err = eng.SeatAvailability(ctx, 9)
	assert.ErrorIs(t, err, repository.ErrShowNotFound)
}

// TestSmallShowLifecycle walks a three-seat show through its whole
// life: fill it up, hit every rejection, cancel and rebook.
func TestSmallShowLifecycle(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(&model.Show{ID: 1, TotalSeats: 3})

	const alice, bob, carol = 1, 2, 3

	b1, err := eng.ClaimSeat(ctx, alice, 1, 1)
	require.NoError(t, err)
	_, err = eng.ClaimSeat(ctx, bob, 1, 2)
	require.NoError(t, err)
	_, err = eng.ClaimSeat(ctx, carol, 1, 3)
	require.NoError(t, err)

	// Show is full; every seat conflicts and out-of-range stays
	// out-of-range.
	_, err = eng.ClaimSeat(ctx, bob, 1, 1)
	assert.ErrorIs(t, err, repository.ErrSeatAlreadyBooked)
	_, err = eng.ClaimSeat(ctx, bob, 1, 4)
	assert.ErrorIs(t, err, repository.ErrSeatOutOfRange)

	// Alice cancels; only her freed seat becomes claimable.
	_, err = eng.CancelBooking(ctx, alice, b1.ID)
	require.NoError(t, err)

	total, booked, err := eng.SeatAvailability(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), total)
	assert.Equal(t, []uint32{2, 3}, booked)

	_, err = eng.ClaimSeat(ctx, bob, 1, 1)
	assert.NoError(t, err)
}
