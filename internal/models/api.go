package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/lk16/reversi/internal/game"
	"github.com/lk16/reversi/internal/othello"
)

// CreateGameRequest represents the payload for creating a game.
type CreateGameRequest struct {
	// Black and White are player kinds: "human", "ai" or "first". Empty means human.
	Black string `json:"black"`
	White string `json:"white"`

	// Seed makes automatic players reproducible. A random seed is used when missing.
	Seed *int64 `json:"seed,omitempty"`

	// Start is an optional custom start board, see othello.NewBoardFromString.
	Start string `json:"start,omitempty"`

	// SideToMove is the side to move on Start, "black" or "white".
	SideToMove string `json:"side_to_move,omitempty"`
}

// Validate checks the start board and side, if any.
func (r CreateGameRequest) Validate() error {
	if r.Start != "" {
		if _, err := othello.NewBoardFromString(r.Start); err != nil {
			return fmt.Errorf("invalid start board: %w", err)
		}
	}

	if r.SideToMove != "" {
		if _, err := othello.ParseSide(r.SideToMove); err != nil {
			return err
		}
	}

	return nil
}

// MoveRequest represents a move, either in field notation or as row and column.
type MoveRequest struct {
	Field string `json:"field,omitempty"`
	Row   *int   `json:"row,omitempty"`
	Col   *int   `json:"col,omitempty"`
}

// Position converts the request into a board position.
func (r MoveRequest) Position() (othello.Position, error) {
	if r.Field != "" {
		return othello.ParseField(r.Field)
	}

	if r.Row == nil || r.Col == nil {
		return othello.Position{}, errors.New("either field or both row and col are required")
	}

	pos := othello.Position{Row: *r.Row, Col: *r.Col}
	if !pos.IsOnBoard() {
		return othello.Position{}, fmt.Errorf("%w: %s", othello.ErrOutOfRange, pos)
	}

	return pos, nil
}

// GameResponse is the API representation of a hosted game.
type GameResponse struct {
	ID    string     `json:"id"`
	Black string     `json:"black"`
	White string     `json:"white"`
	State game.State `json:"state"`
}

// MoveResponse is returned after submitting a move. Rejected moves leave the state unchanged.
type MoveResponse struct {
	Accepted bool       `json:"accepted"`
	State    game.State `json:"state"`
}

// SessionInfo is the registry entry of a live game session.
type SessionInfo struct {
	ID         string    `json:"id"`
	Black      string    `json:"black"`
	White      string    `json:"white"`
	MoveCount  int       `json:"move_count"`
	IsOver     bool      `json:"is_over"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

// SessionsResponse lists live sessions, most recently active first.
type SessionsResponse struct {
	ActiveSessions int           `json:"active_sessions"`
	Sessions       []SessionInfo `json:"sessions"`
}

// Result is the outcome of a finished game.
type Result struct {
	SessionID  string    `json:"session_id"  db:"session_id"`
	Black      string    `json:"black"       db:"black_player"`
	White      string    `json:"white"       db:"white_player"`
	BlackDiscs int       `json:"black_discs" db:"black_discs"`
	WhiteDiscs int       `json:"white_discs" db:"white_discs"`
	Winner     string    `json:"winner"      db:"winner"`
	FinishedAt time.Time `json:"finished_at" db:"finished_at"`
}

// WinnerName returns "black", "white" or "draw" for a final score.
func WinnerName(score othello.Score) string {
	winner := score.Winner()
	if winner == othello.Empty {
		return "draw"
	}
	return winner.String()
}

// ResultStats aggregates the results of finished games.
type ResultStats struct {
	Games     int `json:"games"      db:"games"`
	BlackWins int `json:"black_wins" db:"black_wins"`
	WhiteWins int `json:"white_wins" db:"white_wins"`
	Draws     int `json:"draws"      db:"draws"`
}

// Add counts a result.
func (s *ResultStats) Add(result Result) {
	s.Games++
	switch result.Winner {
	case "black":
		s.BlackWins++
	case "white":
		s.WhiteWins++
	default:
		s.Draws++
	}
}

// VersionResponse contains the build version of the server and a summary of its games.
type VersionResponse struct {
	Commit         string `json:"commit"`
	GoVersion      string `json:"go_version"`
	ActiveSessions int    `json:"active_sessions"`
	FinishedGames  int    `json:"finished_games"`
}

// StatsResponse contains aggregated and recent results.
type StatsResponse struct {
	Stats  ResultStats `json:"stats"`
	Recent []Result    `json:"recent"`
}

// PruneResponse lists the IDs of removed idle sessions.
type PruneResponse struct {
	Removed []string `json:"removed"`
}
