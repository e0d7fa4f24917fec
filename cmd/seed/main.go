// Command seed loads a small demo catalog into the database so the
// API has movies and shows to browse right after first startup. It is
// idempotent: an already seeded catalog is left alone.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/mahirathood/movie-ticket-booking/internal/config"
	"github.com/mahirathood/movie-ticket-booking/internal/database"
	"github.com/mahirathood/movie-ticket-booking/internal/model"
	"github.com/mahirathood/movie-ticket-booking/internal/repository"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database open: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("database migrate: %v", err)
	}

	movies := repository.NewMovieRepo(db)
	shows := repository.NewShowRepo(db)

	existing, err := movies.List(ctx)
	if err != nil {
		log.Fatalf("list movies: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("catalog already seeded (%d movies); nothing to do", len(existing))
		return
	}

	type seedShow struct {
		screen string
		in     time.Duration
		seats  uint32
	}
	catalog := []struct {
		movie model.Movie
		shows []seedShow
	}{
		{
			movie: model.Movie{Title: "The Long Goodbye", DurationMinutes: 112},
			shows: []seedShow{
				{screen: "Screen 1", in: 24 * time.Hour, seats: 60},
				{screen: "Screen 1", in: 27 * time.Hour, seats: 60},
			},
		},
		{
			movie: model.Movie{Title: "Night Train", DurationMinutes: 95},
			shows: []seedShow{
				{screen: "Screen 2", in: 25 * time.Hour, seats: 40},
			},
		},
		{
			movie: model.Movie{Title: "Paper Moon Rising", DurationMinutes: 128},
			shows: []seedShow{
				{screen: "Screen 3", in: 26 * time.Hour, seats: 3},
			},
		},
	}

	now := time.Now().UTC().Truncate(time.Minute)
	for _, entry := range catalog {
		m := entry.movie
		if err := movies.Create(ctx, &m); err != nil {
			log.Fatalf("create movie %q: %v", m.Title, err)
		}
		for _, s := range entry.shows {
			show := model.Show{
				MovieID:    m.ID,
				ScreenName: s.screen,
				StartsAt:   now.Add(s.in),
				TotalSeats: s.seats,
			}
			if err := shows.Create(ctx, &show); err != nil {
				log.Fatalf("create show for %q: %v", m.Title, err)
			}
		}
		log.Printf("seeded movie %q with %d show(s)", m.Title, len(entry.shows))
	}
}
