package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lk16/reversi/internal/models"
)

// ResultRepository stores outcomes of finished games in Postgres.
type ResultRepository struct {
	db *sqlx.DB
}

func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// SaveResult records a result. Saving the same session twice is a no-op.
func (repo *ResultRepository) SaveResult(ctx context.Context, result models.Result) error {
	query := `
		INSERT INTO results (session_id, black_player, white_player, black_discs, white_discs, winner, finished_at)
		VALUES (:session_id, :black_player, :white_player, :black_discs, :white_discs, :winner, :finished_at)
		ON CONFLICT (session_id) DO NOTHING
	`

	if _, err := repo.db.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("error saving result: %w", err)
	}

	return nil
}

// GetStats aggregates all stored results.
func (repo *ResultRepository) GetStats(ctx context.Context) (models.ResultStats, error) {
	query := `
		SELECT
			COUNT(*) AS games,
			COUNT(*) FILTER (WHERE winner = 'black') AS black_wins,
			COUNT(*) FILTER (WHERE winner = 'white') AS white_wins,
			COUNT(*) FILTER (WHERE winner = 'draw') AS draws
		FROM results
	`

	var stats models.ResultStats
	if err := repo.db.GetContext(ctx, &stats, query); err != nil {
		return models.ResultStats{}, fmt.Errorf("error getting result stats: %w", err)
	}

	return stats, nil
}

// GetRecentResults returns the most recently finished games.
func (repo *ResultRepository) GetRecentResults(ctx context.Context, limit int) ([]models.Result, error) {
	query := `
		SELECT session_id, black_player, white_player, black_discs, white_discs, winner, finished_at
		FROM results
		ORDER BY finished_at DESC
		LIMIT $1
	`

	results := []models.Result{}
	if err := repo.db.SelectContext(ctx, &results, query, limit); err != nil {
		return nil, fmt.Errorf("error getting recent results: %w", err)
	}

	return results, nil
}
