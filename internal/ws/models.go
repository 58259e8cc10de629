package ws

import (
	"encoding/json"

	"github.com/lk16/reversi/internal/game"
	"github.com/lk16/reversi/internal/models"
	"github.com/lk16/reversi/internal/othello"
)

// Incoming events.
const (
	EventMove  = "move"
	EventState = "state"
)

// Outgoing events that are not controller notifications.
const (
	EventMoveResult = "move_result"
)

type Incoming struct {
	Event string          `json:"event"`
	ID    int             `json:"id"`
	Data  json.RawMessage `json:"data"`
}

// Outgoing is either a reply to an Incoming message with the same ID, or a
// notification with ID 0.
type Outgoing struct {
	ID    int    `json:"id"`
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type BoardChangedData struct {
	Board othello.Board `json:"board"`
	Score othello.Score `json:"score"`
}

type SideData struct {
	Side othello.Side `json:"side"`
}

type GameOverData struct {
	Score  othello.Score `json:"score"`
	Winner string        `json:"winner"`
}

// eventMessage converts a controller notification into an outgoing message.
func eventMessage(event game.Event) *Outgoing {
	outgoing := &Outgoing{Event: event.Kind.String()}

	switch event.Kind {
	case game.BoardChanged:
		outgoing.Data = BoardChangedData{Board: event.Board, Score: event.Board.Score()}
	case game.TurnChanged, game.Passed:
		outgoing.Data = SideData{Side: event.Side}
	case game.Over:
		outgoing.Data = GameOverData{Score: event.Score, Winner: models.WinnerName(event.Score)}
	}

	return outgoing
}
