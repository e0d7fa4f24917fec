package database

import (
	"context"
	"database/sql"
)

// Migrate creates the schema when it does not exist yet. Statements
// are idempotent so every startup can run them.
//
// The bookings table carries a stored generated column, active_seat,
// that mirrors seat_number while the row is BOOKED and becomes NULL
// on cancellation. The unique key over (show_id, active_seat) then
// enforces at most one active booking per seat at the database level
// while letting any number of cancelled rows share a seat.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			username      VARCHAR(150)    NOT NULL,
			password_hash VARCHAR(255)    NOT NULL,
			created_at    DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			UNIQUE KEY uq_users_username (username)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			user_id    BIGINT UNSIGNED NOT NULL,
			token_hash CHAR(64)        NOT NULL,
			expires_at DATETIME        NOT NULL,
			revoked_at DATETIME        NULL,
			created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			UNIQUE KEY uq_refresh_tokens_hash (token_hash),
			KEY idx_refresh_tokens_user (user_id),
			CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users (id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS movies (
			id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			title            VARCHAR(255)    NOT NULL,
			duration_minutes INT UNSIGNED    NOT NULL,
			created_at       DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS shows (
			id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			movie_id    BIGINT UNSIGNED NOT NULL,
			screen_name VARCHAR(100)    NOT NULL,
			starts_at   DATETIME        NOT NULL,
			total_seats INT UNSIGNED    NOT NULL,
			created_at  DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			KEY idx_shows_movie (movie_id),
			CONSTRAINT fk_shows_movie FOREIGN KEY (movie_id) REFERENCES movies (id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS bookings (
			id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			user_id     BIGINT UNSIGNED NOT NULL,
			show_id     BIGINT UNSIGNED NOT NULL,
			seat_number INT UNSIGNED    NOT NULL,
			status      ENUM('BOOKED','CANCELLED') NOT NULL DEFAULT 'BOOKED',
			active_seat INT UNSIGNED GENERATED ALWAYS AS (IF(status = 'BOOKED', seat_number, NULL)) STORED,
			created_at  DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			UNIQUE KEY uq_bookings_active_seat (show_id, active_seat),
			KEY idx_bookings_user (user_id),
			KEY idx_bookings_show_status (show_id, status),
			CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users (id),
			CONSTRAINT fk_bookings_show FOREIGN KEY (show_id) REFERENCES shows (id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
