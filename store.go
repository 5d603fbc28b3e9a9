package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// CycleRecord describes how one cycle ended. Message content is never stored.
type CycleRecord struct {
	ID         uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time
	Attempts   int
	Succeeded  bool
}

// Journal records cycle outcomes
type Journal interface {
	Record(ctx context.Context, rec CycleRecord) error
	Close() error
}

// nopJournal is used when no database is configured
type nopJournal struct{}

func (nopJournal) Record(context.Context, CycleRecord) error { return nil }
func (nopJournal) Close() error                              { return nil }

// PostgresJournal stores cycle outcomes in Postgres
type PostgresJournal struct {
	db *sql.DB
}

// NewJournal returns a Postgres journal, or a no-op one when databaseURL is empty
func NewJournal(ctx context.Context, databaseURL string) (Journal, error) {
	if databaseURL == "" {
		return nopJournal{}, nil
	}
	return NewPostgresJournal(ctx, databaseURL)
}

// NewPostgresJournal connects and makes sure the schema exists
func NewPostgresJournal(ctx context.Context, databaseURL string) (*PostgresJournal, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	journal := &PostgresJournal{db: db}
	if err := journal.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return journal, nil
}

// initSchema creates the cycles table
func (j *PostgresJournal) initSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS cycles (
			id UUID PRIMARY KEY,
			started_at TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ NOT NULL,
			attempts INTEGER NOT NULL,
			succeeded BOOLEAN NOT NULL
		);`,

		`CREATE INDEX IF NOT EXISTS cycles_started_at_idx ON cycles (started_at);`,
	}

	for _, query := range queries {
		if _, err := j.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// Record inserts one cycle outcome
func (j *PostgresJournal) Record(ctx context.Context, rec CycleRecord) error {
	query := `
		INSERT INTO cycles (id, started_at, finished_at, attempts, succeeded)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := j.db.ExecContext(ctx, query, rec.ID.String(), rec.StartedAt, rec.FinishedAt, rec.Attempts, rec.Succeeded)
	if err != nil {
		return fmt.Errorf("failed to record cycle: %w", err)
	}
	return nil
}

// Close closes the database connection
func (j *PostgresJournal) Close() error {
	return j.db.Close()
}
