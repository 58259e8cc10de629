package services

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const resultsSchema = `
	CREATE TABLE IF NOT EXISTS results (
		session_id   UUID PRIMARY KEY,
		black_player TEXT NOT NULL,
		white_player TEXT NOT NULL,
		black_discs  INTEGER NOT NULL,
		white_discs  INTEGER NOT NULL,
		winner       TEXT NOT NULL,
		finished_at  TIMESTAMPTZ NOT NULL
	);
`

// InitPostgres initializes the database connection and creates missing tables.
func InitPostgres(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if _, err = db.Exec(resultsSchema); err != nil {
		return nil, fmt.Errorf("error creating schema: %w", err)
	}

	return db, nil
}
