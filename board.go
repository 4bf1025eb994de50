package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// MinWordLength is the shortest word the solver reports.
	MinWordLength = 4
	// BoardSize is the side of the square board an operator can enter.
	BoardSize = 4
	// RequiredTiles is the number of letters needed to describe a board.
	RequiredTiles = BoardSize * BoardSize

	// emptyTile marks a cell without a tile. It is never visited.
	emptyTile = ""
)

var (
	ErrNonLetter  = errors.New("only letters are allowed")
	ErrTileCount  = fmt.Errorf("a board needs exactly %d letters", RequiredTiles)
	ErrBoardShape = errors.New("board rows must be non-empty and of equal length")
)

// Board is a grid of single-letter tiles indexed [row][col].
// An empty string is a cell without a tile.
type Board [][]string

// Coord identifies a tile on the board.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Path is an ordered list of tiles spelling a word.
type Path []Coord

// String renders the path as "rc,rc,...", the format used by the web client
// to highlight tiles.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, c := range p {
		parts[i] = strconv.Itoa(c.Row) + strconv.Itoa(c.Col)
	}
	return strings.Join(parts, ",")
}

// Solution is a word found on the board together with one path spelling it.
type Solution struct {
	Word string `json:"word"`
	Path Path   `json:"path"`
}

// StoredBoard is a board kept by the server between requests.
type StoredBoard struct {
	ID        string    `json:"id"`
	Board     Board     `json:"board"`
	Source    string    `json:"source"` // "letters", "image" or "default"
	CreatedAt time.Time `json:"created_at"`
}

// DefaultBoard is used when the operator does not enter any letters.
func DefaultBoard() Board {
	return Board{
		{"I", "S", "O", "L"},
		{"V", "E", "S", "Q"},
		{"U", "A", "R", "E"},
		{"D", "L", "E", "S"},
	}
}

// ParseLetters turns operator input into a square board. Empty input selects
// the default board.
func ParseLetters(input string) (Board, error) {
	letters := strings.ToUpper(strings.TrimSpace(input))
	if letters == "" {
		return DefaultBoard(), nil
	}
	for _, r := range letters {
		if r < 'A' || r > 'Z' {
			return nil, ErrNonLetter
		}
	}
	if len(letters) != RequiredTiles {
		return nil, fmt.Errorf("%w: got %d", ErrTileCount, len(letters))
	}

	b := make(Board, 0, BoardSize)
	row := make([]string, 0, BoardSize)
	for i := 0; i < len(letters); i++ {
		row = append(row, letters[i:i+1])
		if len(row) == BoardSize {
			b = append(b, row)
			row = make([]string, 0, BoardSize)
		}
	}
	return b, nil
}

// Validate checks the board is rectangular and holds only A-Z tiles or empty
// cells. The solver itself assumes a valid board.
func (b Board) Validate() error {
	if len(b) == 0 || len(b[0]) == 0 {
		return ErrBoardShape
	}
	for _, row := range b {
		if len(row) != len(b[0]) {
			return ErrBoardShape
		}
		for _, cell := range row {
			if cell == emptyTile {
				continue
			}
			if len(cell) != 1 || cell[0] < 'A' || cell[0] > 'Z' {
				return ErrNonLetter
			}
		}
	}
	return nil
}

// Rows returns the number of rows.
func (b Board) Rows() int { return len(b) }

// Cols returns the number of columns.
func (b Board) Cols() int {
	if len(b) == 0 {
		return 0
	}
	return len(b[0])
}

// InBounds reports whether c lies on the board.
func (b Board) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Col >= 0 && c.Row < b.Rows() && c.Col < b.Cols()
}

// Letters spells the tiles along p.
func (b Board) Letters(p Path) string {
	var sb strings.Builder
	for _, c := range p {
		sb.WriteString(b[c.Row][c.Col])
	}
	return sb.String()
}

// UniqueLetters returns the set of letters present on the board.
func (b Board) UniqueLetters() map[string]bool {
	set := make(map[string]bool)
	for _, row := range b {
		for _, cell := range row {
			if cell != emptyTile {
				set[cell] = true
			}
		}
	}
	return set
}

// Clone returns a deep copy of the board.
func (b Board) Clone() Board {
	cp := make(Board, len(b))
	for i, row := range b {
		cp[i] = make([]string, len(row))
		copy(cp[i], row)
	}
	return cp
}

// Adjacent reports whether a and b are distinct 8-neighbours.
func Adjacent(a, b Coord) bool {
	dr, dc := a.Row-b.Row, a.Col-b.Col
	if dr == 0 && dc == 0 {
		return false
	}
	return dr >= -1 && dr <= 1 && dc >= -1 && dc <= 1
}
