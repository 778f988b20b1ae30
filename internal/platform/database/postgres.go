package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
)

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func NewPostgresDB(cfg Config) (*sql.DB, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, sslMode)

	var db *sql.DB
	var err error
	maxRetries := 10

	for i := 1; i <= maxRetries; i++ {
		log.Printf("Connecting to database (Attempt %d/%d)...", i, maxRetries)
		db, err = sql.Open("postgres", connStr)
		if err == nil {
			err = db.Ping()
		}

		if err == nil {
			log.Println("Database connected successfully!")
			db.SetMaxOpenConns(cfg.MaxOpenConns)
			db.SetMaxIdleConns(cfg.MaxIdleConns)
			db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
			return db, nil
		}

		if db != nil {
			_ = db.Close()
		}

		log.Printf("Database not ready yet. Waiting 2 seconds...")
		time.Sleep(2 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to database: %w", err)
}

// schema creates the bookings table. properties and users belong to other services;
// only their id/owner_id and id/name/email columns are read.
//
// bookings_no_overlap: two half-open ranges [t-59m, t+59m) intersect exactly when the
// start times are less than 118 minutes apart.
var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id UUID PRIMARY KEY,
		property_id UUID NOT NULL,
		requester_id UUID NOT NULL,
		scheduled_at TIMESTAMPTZ NOT NULL,
		reserved_from TIMESTAMPTZ NOT NULL,
		reserved_until TIMESTAMPTZ NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('virtual', 'in_person')),
		status TEXT NOT NULL CHECK (status IN ('pending', 'confirmed', 'completed', 'cancelled')),
		notes TEXT CHECK (char_length(notes) <= 1000),
		version INT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		confirmed_at TIMESTAMPTZ,
		completed_at TIMESTAMPTZ,
		cancelled_at TIMESTAMPTZ,
		CONSTRAINT bookings_no_overlap EXCLUDE USING gist (
			property_id WITH =,
			tstzrange(reserved_from, reserved_until, '[)') WITH &&
		) WHERE (status <> 'cancelled')
	)`,
	`CREATE INDEX IF NOT EXISTS bookings_property_scheduled_idx ON bookings (property_id, scheduled_at)`,
	`CREATE INDEX IF NOT EXISTS bookings_requester_idx ON bookings (requester_id)`,
}

func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply migration: %w", err)
		}
	}
	log.Println("Database schema is up to date")
	return nil
}
