package game //nolint:testpackage

import (
	"testing"

	"github.com/lk16/reversi/internal/othello"
	"github.com/stretchr/testify/require"
)

func positions(fields ...string) []othello.Position {
	moves := make([]othello.Position, len(fields))
	for i, field := range fields {
		pos, err := othello.ParseField(field)
		if err != nil {
			panic(err)
		}
		moves[i] = pos
	}
	return moves
}

func TestHeuristicStrategy(t *testing.T) {
	tests := []struct {
		name    string
		legal   []othello.Position
		allowed []othello.Position
	}{
		{
			name:    "corner preferred",
			legal:   positions("b2", "a1", "d3", "h8"),
			allowed: positions("a1", "h8"),
		},
		{
			name:    "safe moves over corner regions",
			legal:   positions("b2", "g7", "c1", "d6"),
			allowed: positions("c1", "d6"),
		},
		{
			name:    "edges outside corner regions are safe",
			legal:   positions("a3", "h5", "b7", "g2"),
			allowed: positions("a3", "h5"),
		},
		{
			name:    "corner regions as last resort",
			legal:   positions("b2", "g7", "b8"),
			allowed: positions("b2", "g7", "b8"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewHeuristicStrategy(42)
			seen := make(map[othello.Position]bool)

			for range 200 {
				move := s.ChooseMove(othello.NewBoardEmpty(), othello.Black, tt.legal)
				require.Contains(t, tt.allowed, move)
				seen[move] = true
			}

			// All preferred moves are picked eventually.
			require.Len(t, seen, len(tt.allowed))
		})
	}
}

func TestHeuristicStrategySeeded(t *testing.T) {
	legal := positions("c4", "d3", "e6", "f5")

	a := NewHeuristicStrategy(7)
	b := NewHeuristicStrategy(7)

	for range 50 {
		require.Equal(t, a.ChooseMove(othello.Board{}, othello.White, legal), b.ChooseMove(othello.Board{}, othello.White, legal))
	}
}

func TestFirstMoveStrategy(t *testing.T) {
	b := othello.NewBoardStart()
	legal := b.LegalMoves(othello.Black)

	require.Equal(t, legal[0], FirstMoveStrategy{}.ChooseMove(b, othello.Black, legal))
}

func TestCornerRegion(t *testing.T) {
	require.True(t, isCornerRegion(othello.Position{Row: 1, Col: 6}))
	require.True(t, isCornerRegion(othello.Position{Row: 7, Col: 0}))
	require.False(t, isCornerRegion(othello.Position{Row: 0, Col: 2}))
	require.False(t, isCornerRegion(othello.Position{Row: 4, Col: 4}))
	require.True(t, isCorner(othello.Position{Row: 0, Col: 7}))
	require.False(t, isCorner(othello.Position{Row: 1, Col: 7}))
}

func TestNewPlayer(t *testing.T) {
	tests := []struct {
		kind      string
		wantNil   bool
		wantError bool
	}{
		{PlayerHuman, true, false},
		{"", true, false},
		{PlayerHeuristic, false, false},
		{PlayerFirstMove, false, false},
		{"grandmaster", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			strategy, err := NewPlayer(tt.kind, 1)
			if tt.wantError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tt.wantNil, strategy == nil)
		})
	}
}
