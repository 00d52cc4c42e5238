// Package store is the canonical PostgreSQL store for tours, itinerary
// days, system-generated pricing, and the append-only sync log.
package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Store wraps the canonical database. It is the only place SQL lives;
// the sync engine talks to it through an interface.
type Store struct {
	db *sqlx.DB
}

// Open connects to PostgreSQL and verifies the connection.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
