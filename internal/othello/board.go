package othello

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrOutOfRange  = errors.New("position out of range")
)

// Board is an 8x8 row-major grid. Origin (0,0) is the top-left square.
// It is a value type: every move produces a new Board.
type Board [Size][Size]Cell

// Score contains the number of squares of each kind.
type Score struct {
	Black int `json:"black"`
	White int `json:"white"`
	Empty int `json:"empty"`
}

// Winner returns the side with strictly more discs, or Empty on a draw.
func (s Score) Winner() Cell {
	switch {
	case s.Black > s.White:
		return Black
	case s.White > s.Black:
		return White
	default:
		return Empty
	}
}

// NewBoardStart creates a new board with the starting position.
func NewBoardStart() Board {
	var b Board
	b[3][3] = White
	b[3][4] = Black
	b[4][3] = Black
	b[4][4] = White
	return b
}

// NewBoardEmpty creates a board without any discs.
func NewBoardEmpty() Board {
	return Board{}
}

// NewBoardFromBitboards creates a board from a black and a white bitboard.
// Bit index i corresponds to PositionFromIndex(i).
func NewBoardFromBitboards(black, white uint64) (Board, error) {
	if black&white != 0 {
		return Board{}, errors.New("invalid board: black and white discs cannot overlap")
	}

	var b Board
	for i := range Size * Size {
		mask := uint64(1) << i
		pos := PositionFromIndex(i)

		switch {
		case black&mask != 0:
			b[pos.Row][pos.Col] = Black
		case white&mask != 0:
			b[pos.Row][pos.Col] = White
		}
	}

	return b, nil
}

// NewBoardFromString parses the output of Board.String().
func NewBoardFromString(s string) (Board, error) {
	if len(s) != 32 {
		return Board{}, fmt.Errorf("board string must be 32 characters long, got %d", len(s))
	}

	black, err := strconv.ParseUint(s[:16], 16, 64)
	if err != nil {
		return Board{}, fmt.Errorf("invalid black bitboard: %w", err)
	}

	white, err := strconv.ParseUint(s[16:], 16, 64)
	if err != nil {
		return Board{}, fmt.Errorf("invalid white bitboard: %w", err)
	}

	return NewBoardFromBitboards(black, white)
}

// NewBoardFromRows creates a board from 8 rows of 8 characters each.
// 'B' or 'X' is black, 'W' or 'O' is white, '.' or '-' is empty. Spaces are ignored.
func NewBoardFromRows(rows ...string) (Board, error) {
	if len(rows) != Size {
		return Board{}, fmt.Errorf("expected %d rows, got %d", Size, len(rows))
	}

	var b Board
	for r, row := range rows {
		row = strings.ReplaceAll(row, " ", "")
		if len(row) != Size {
			return Board{}, fmt.Errorf("row %d: expected %d squares, got %d", r, Size, len(row))
		}

		for c := range Size {
			switch row[c] {
			case 'B', 'b', 'X', 'x':
				b[r][c] = Black
			case 'W', 'w', 'O', 'o':
				b[r][c] = White
			case '.', '-':
				b[r][c] = Empty
			default:
				return Board{}, fmt.Errorf("row %d: invalid square %q", r, row[c])
			}
		}
	}

	return b, nil
}

// NewBoardFromRowsMust works like NewBoardFromRows but panics on invalid input.
func NewBoardFromRowsMust(rows ...string) Board {
	b, err := NewBoardFromRows(rows...)
	if err != nil {
		panic(err)
	}
	return b
}

// At returns the cell at the given position. The position must be on the board.
func (b Board) At(pos Position) Cell {
	return b[pos.Row][pos.Col]
}

// CanCaptureInDirection checks if placing side at pos captures at least one
// opposing disc along dir. The run of opposing discs must be terminated by a
// disc of side. It returns false if pos is off the board or dir is not one of Directions.
func (b Board) CanCaptureInDirection(pos, dir Position, side Side) bool {
	if !pos.IsOnBoard() || !isDirection(dir) {
		return false
	}
	return b.capturedInDirection(pos, dir, side) > 0
}

func isDirection(dir Position) bool {
	for _, d := range Directions {
		if d == dir {
			return true
		}
	}
	return false
}

// capturedInDirection returns the number of opposing discs captured along dir.
func (b Board) capturedInDirection(pos, dir Position, side Side) int {
	opponent := Opponent(side)

	cur := pos.Add(dir)
	count := 0

	for cur.IsOnBoard() {
		switch b.At(cur) {
		case opponent:
			count++
		case side:
			return count
		default:
			return 0
		}
		cur = cur.Add(dir)
	}

	return 0
}

// IsLegalMove checks if pos is an empty square where side captures in some direction.
func (b Board) IsLegalMove(pos Position, side Side) bool {
	if !pos.IsOnBoard() || b.At(pos) != Empty {
		return false
	}

	for _, dir := range Directions {
		if b.CanCaptureInDirection(pos, dir, side) {
			return true
		}
	}

	return false
}

// LegalMoves returns all legal moves for side in row-major order.
func (b Board) LegalMoves(side Side) []Position {
	moves := make([]Position, 0, 16)

	for row := range Size {
		for col := range Size {
			pos := Position{Row: row, Col: col}
			if b.IsLegalMove(pos, side) {
				moves = append(moves, pos)
			}
		}
	}

	return moves
}

// HasMoves checks if side has at least one legal move.
func (b Board) HasMoves(side Side) bool {
	for row := range Size {
		for col := range Size {
			if b.IsLegalMove(Position{Row: row, Col: col}, side) {
				return true
			}
		}
	}
	return false
}

// Flipped returns the discs that flip when side plays pos, in direction order.
// It returns nil if the move is not legal.
func (b Board) Flipped(pos Position, side Side) []Position {
	if !b.IsLegalMove(pos, side) {
		return nil
	}

	var flipped []Position

	// All directions are scanned on the original board, captures never affect each other.
	for _, dir := range Directions {
		count := b.capturedInDirection(pos, dir, side)

		cur := pos
		for range count {
			cur = cur.Add(dir)
			flipped = append(flipped, cur)
		}
	}

	return flipped
}

// ApplyMove places a disc of side at pos and flips all captured discs.
// The receiver is not modified.
func (b Board) ApplyMove(pos Position, side Side) (Board, error) {
	if !side.IsSide() {
		return Board{}, fmt.Errorf("invalid side: %s", side)
	}

	if !pos.IsOnBoard() {
		return Board{}, fmt.Errorf("%w: %s", ErrOutOfRange, pos)
	}

	flipped := b.Flipped(pos, side)
	if len(flipped) == 0 {
		return Board{}, fmt.Errorf("%w: %s at %s", ErrIllegalMove, side, pos.Field())
	}

	next := b
	next[pos.Row][pos.Col] = side
	for _, f := range flipped {
		next[f.Row][f.Col] = side
	}

	return next, nil
}

// MustApplyMove works like ApplyMove but panics if the move is not legal.
func (b Board) MustApplyMove(pos Position, side Side) Board {
	next, err := b.ApplyMove(pos, side)
	if err != nil {
		panic(err)
	}
	return next
}

// Score counts the discs on the board.
func (b Board) Score() Score {
	var s Score
	for _, row := range b {
		for _, cell := range row {
			switch cell {
			case Black:
				s.Black++
			case White:
				s.White++
			default:
				s.Empty++
			}
		}
	}
	return s
}

// Bitboards returns the black and white discs as bitsets.
func (b Board) Bitboards() (black, white uint64) {
	for i := range Size * Size {
		pos := PositionFromIndex(i)
		switch b.At(pos) {
		case Black:
			black |= uint64(1) << i
		case White:
			white |= uint64(1) << i
		}
	}
	return black, white
}

// String returns the hex representation of the board, see NewBoardFromString.
func (b Board) String() string {
	black, white := b.Bitboards()
	return fmt.Sprintf("%016x%016x", black, white)
}

// ASCIIArtLines returns the ascii art lines for the board.
// Squares in moves are marked with a dot.
func (b Board) ASCIIArtLines(moves []Position) []string {
	isMove := make(map[Position]bool, len(moves))
	for _, move := range moves {
		isMove[move] = true
	}

	lines := make([]string, Size+2)

	lines[0] = "+-a-b-c-d-e-f-g-h-+"
	for row := range Size {
		line := fmt.Sprintf("%d ", row+1)

		for col := range Size {
			pos := Position{Row: row, Col: col}

			switch {
			case b.At(pos) == White:
				line += "○ "
			case b.At(pos) == Black:
				line += "● "
			case isMove[pos]:
				line += "· "
			default:
				line += "  "
			}
		}

		lines[row+1] = line + "|"
	}

	lines[Size+1] = "+-----------------+"

	return lines
}
