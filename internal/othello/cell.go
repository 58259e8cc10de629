package othello

import "fmt"

// Cell is the content of a square on the board.
type Cell uint8

const (
	Empty Cell = iota
	Black
	White
)

// Side is the color of a player. Only Black and White are valid sides.
type Side = Cell

// Opponent returns the other side. It panics when called with Empty.
func Opponent(side Side) Side {
	switch side {
	case Black:
		return White
	case White:
		return Black
	default:
		panic(fmt.Sprintf("invalid side: %d", side))
	}
}

// IsSide checks if the cell is Black or White.
func (c Cell) IsSide() bool {
	return c == Black || c == White
}

func (c Cell) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	case Empty:
		return "empty"
	default:
		return fmt.Sprintf("cell(%d)", uint8(c))
	}
}

// ParseSide parses "black" or "white" (also "b" and "w").
func ParseSide(s string) (Side, error) {
	switch s {
	case "black", "b":
		return Black, nil
	case "white", "w":
		return White, nil
	default:
		return Empty, fmt.Errorf("invalid side: %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler, so cells show up as names in JSON.
func (c Cell) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Cell) UnmarshalText(text []byte) error {
	if string(text) == "empty" {
		*c = Empty
		return nil
	}

	side, err := ParseSide(string(text))
	if err != nil {
		return err
	}

	*c = side
	return nil
}
