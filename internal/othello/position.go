package othello

import (
	"fmt"
	"strings"
)

// Size is the number of rows and columns of the board.
const Size = 8

// Position is a (row, col) pair. It is also used for direction deltas.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Directions contains the 8 unit vectors around a square.
var Directions = [8]Position{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// IsOnBoard returns true iff row and col are both in [0,8).
func (p Position) IsOnBoard() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

// Add returns the position offset by delta.
func (p Position) Add(delta Position) Position {
	return Position{Row: p.Row + delta.Row, Col: p.Col + delta.Col}
}

// Index returns the bit index of the position, as used by Bitboards.
func (p Position) Index() int {
	return p.Row*Size + p.Col
}

// PositionFromIndex converts a bit index (0-63) back into a Position.
func PositionFromIndex(index int) Position {
	return Position{Row: index / Size, Col: index % Size}
}

// Field returns the field notation of the position, e.g. "d3".
func (p Position) Field() string {
	if !p.IsOnBoard() {
		return "??"
	}
	return string([]byte{byte('a' + p.Col), byte('1' + p.Row)})
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// ParseField converts a field notation (e.g. "a1", "h8") to a Position.
func ParseField(field string) (Position, error) {
	if len(field) != 2 {
		return Position{}, fmt.Errorf("invalid field length: %q", field)
	}

	field = strings.ToLower(field)

	if !('a' <= field[0] && field[0] <= 'h' && '1' <= field[1] && field[1] <= '8') {
		return Position{}, fmt.Errorf("invalid field: %q", field)
	}

	return Position{
		Row: int(field[1] - '1'),
		Col: int(field[0] - 'a'),
	}, nil
}
