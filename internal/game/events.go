package game

import "github.com/lk16/reversi/internal/othello"

// EventKind identifies a controller notification.
type EventKind uint8

const (
	BoardChanged EventKind = iota
	TurnChanged
	Passed
	Over
)

func (k EventKind) String() string {
	switch k {
	case BoardChanged:
		return "board_changed"
	case TurnChanged:
		return "turn_changed"
	case Passed:
		return "pass"
	case Over:
		return "game_over"
	default:
		return "unknown"
	}
}

// Event is a single notification. Only the field matching Kind is meaningful.
type Event struct {
	Kind  EventKind
	Board othello.Board
	Side  othello.Side
	Score othello.Score
}

// Observer receives notifications about state transitions of a Controller.
// Calls happen after the transition is committed, in transition order.
// Observers may call Controller.State but must not submit moves synchronously.
type Observer interface {
	OnBoardChanged(board othello.Board)
	OnTurnChanged(side othello.Side)
	OnPass(side othello.Side)
	OnGameOver(score othello.Score)
}

// EventFunc adapts a function receiving Events to the Observer interface.
type EventFunc func(Event)

func (f EventFunc) OnBoardChanged(board othello.Board) {
	f(Event{Kind: BoardChanged, Board: board})
}

func (f EventFunc) OnTurnChanged(side othello.Side) {
	f(Event{Kind: TurnChanged, Side: side})
}

func (f EventFunc) OnPass(side othello.Side) {
	f(Event{Kind: Passed, Side: side})
}

func (f EventFunc) OnGameOver(score othello.Score) {
	f(Event{Kind: Over, Score: score})
}

// deliver calls the Observer method matching the event.
func deliver(o Observer, e Event) {
	switch e.Kind {
	case BoardChanged:
		o.OnBoardChanged(e.Board)
	case TurnChanged:
		o.OnTurnChanged(e.Side)
	case Passed:
		o.OnPass(e.Side)
	case Over:
		o.OnGameOver(e.Score)
	}
}
