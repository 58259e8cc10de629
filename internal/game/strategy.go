package game

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/lk16/reversi/internal/othello"
)

// Strategy chooses a move for an automatic side.
// ChooseMove is only called with a non-empty list of legal moves and must return one of them.
type Strategy interface {
	ChooseMove(board othello.Board, side othello.Side, legal []othello.Position) othello.Position
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc func(board othello.Board, side othello.Side, legal []othello.Position) othello.Position

func (f StrategyFunc) ChooseMove(board othello.Board, side othello.Side, legal []othello.Position) othello.Position {
	return f(board, side, legal)
}

// FirstMoveStrategy always plays the first legal move in row-major order.
type FirstMoveStrategy struct{}

func (FirstMoveStrategy) ChooseMove(_ othello.Board, _ othello.Side, legal []othello.Position) othello.Position {
	return legal[0]
}

// HeuristicStrategy prefers corners, then moves away from the corner regions,
// and picks randomly within the preferred group.
type HeuristicStrategy struct {
	// rngMutex protects rng, a strategy can be shared between controllers.
	rngMutex sync.Mutex
	rng      *rand.Rand
}

// NewHeuristicStrategy creates a HeuristicStrategy with a seeded random source.
func NewHeuristicStrategy(seed int64) *HeuristicStrategy {
	return &HeuristicStrategy{
		rng: rand.New(rand.NewSource(seed)), //nolint:gosec
	}
}

// ChooseMove implements Strategy.
func (s *HeuristicStrategy) ChooseMove(_ othello.Board, _ othello.Side, legal []othello.Position) othello.Position {
	var corners, safe []othello.Position

	for _, move := range legal {
		switch {
		case isCorner(move):
			corners = append(corners, move)
		case !isCornerRegion(move):
			safe = append(safe, move)
		}
	}

	switch {
	case len(corners) > 0:
		return s.pick(corners)
	case len(safe) > 0:
		return s.pick(safe)
	default:
		return s.pick(legal)
	}
}

func (s *HeuristicStrategy) pick(moves []othello.Position) othello.Position {
	s.rngMutex.Lock()
	defer s.rngMutex.Unlock()

	return moves[s.rng.Intn(len(moves))]
}

func isOuter(x int) bool {
	return x <= 1 || x >= othello.Size-2
}

func isCorner(p othello.Position) bool {
	return (p.Row == 0 || p.Row == othello.Size-1) && (p.Col == 0 || p.Col == othello.Size-1)
}

// isCornerRegion checks if p is in one of the 2x2 blocks around a corner, {0,1,6,7}x{0,1,6,7}.
func isCornerRegion(p othello.Position) bool {
	return isOuter(p.Row) && isOuter(p.Col)
}

// Player kinds accepted by NewPlayer.
const (
	PlayerHuman     = "human"
	PlayerHeuristic = "ai"
	PlayerFirstMove = "first"
)

// NewPlayer returns the Strategy for a player kind. Human players have a nil Strategy.
func NewPlayer(kind string, seed int64) (Strategy, error) {
	switch kind {
	case PlayerHuman, "":
		return nil, nil //nolint:nilnil
	case PlayerHeuristic:
		return NewHeuristicStrategy(seed), nil
	case PlayerFirstMove:
		return FirstMoveStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown player kind: %q", kind)
	}
}
