// Package repository contains data access logic for the show catalog.
// A Show represents a scheduled screening of a movie on a screen with
// a fixed number of numbered seats. The reservation engine only ever
// calls GetByID; the listing methods serve the public browse
// endpoints.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mahirathood/movie-ticket-booking/internal/model"
)

// MovieSummary is the movie payload embedded in show and booking
// responses.
type MovieSummary struct {
	ID              uint64 `json:"id"`
	Title           string `json:"title"`
	DurationMinutes uint32 `json:"duration_minutes"`
}

// ShowDetail is a show joined with its movie, shaped for API
// responses. Business logic should use model.Show instead.
type ShowDetail struct {
	ID         uint64       `json:"id"`
	ScreenName string       `json:"screen_name"`
	StartsAt   time.Time    `json:"starts_at"`
	TotalSeats uint32       `json:"total_seats"`
	Movie      MovieSummary `json:"movie"`
}

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// Create inserts a new show and assigns the generated ID back to the
// struct. Shows are created by the external admin/seed process only;
// the HTTP surface never writes shows.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	const q = `INSERT INTO shows (movie_id, screen_name, starts_at, total_seats) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.MovieID, s.ScreenName, s.StartsAt.UTC(), s.TotalSeats)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID retrieves a show by its ID. It returns ErrShowNotFound if
// there is no matching row. This is the only catalog read performed
// by the reservation engine.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	const q = `SELECT id, movie_id, screen_name, starts_at, total_seats, created_at FROM shows WHERE id = ?`
	var s model.Show
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.MovieID, &s.ScreenName, &s.StartsAt, &s.TotalSeats, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetDetail retrieves a show joined with its movie for display. It
// returns ErrShowNotFound when no row matches.
func (r *ShowRepo) GetDetail(ctx context.Context, id uint64) (*ShowDetail, error) {
	const q = `SELECT s.id, s.screen_name, s.starts_at, s.total_seats,
                      m.id, m.title, m.duration_minutes
               FROM shows s
               JOIN movies m ON m.id = s.movie_id
               WHERE s.id = ?`
	var d ShowDetail
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.ScreenName, &d.StartsAt, &d.TotalSeats,
		&d.Movie.ID, &d.Movie.Title, &d.Movie.DurationMinutes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ListByMovie returns all shows for a given movie ordered by start
// time ascending. An unknown movie yields an empty slice, matching
// the catalog contract of the listing endpoints.
func (r *ShowRepo) ListByMovie(ctx context.Context, movieID uint64) ([]ShowDetail, error) {
	const q = `SELECT s.id, s.screen_name, s.starts_at, s.total_seats,
                      m.id, m.title, m.duration_minutes
               FROM shows s
               JOIN movies m ON m.id = s.movie_id
               WHERE s.movie_id = ?
               ORDER BY s.starts_at ASC`
	rows, err := r.db.QueryContext(ctx, q, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]ShowDetail, 0)
	for rows.Next() {
		var d ShowDetail
		if err := rows.Scan(
			&d.ID, &d.ScreenName, &d.StartsAt, &d.TotalSeats,
			&d.Movie.ID, &d.Movie.Title, &d.Movie.DurationMinutes,
		); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
