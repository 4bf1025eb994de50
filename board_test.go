package main

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLetters(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Board
		wantErr error
	}{
		{name: "empty selects default", input: "", want: DefaultBoard()},
		{name: "blank selects default", input: "   ", want: DefaultBoard()},
		{name: "lowercase", input: "isolvesquaredles", want: DefaultBoard()},
		{
			name:  "row major",
			input: "ABCDEFGHIJKLMNOP",
			want: Board{
				{"A", "B", "C", "D"},
				{"E", "F", "G", "H"},
				{"I", "J", "K", "L"},
				{"M", "N", "O", "P"},
			},
		},
		{name: "digit", input: "ABCD1FGHIJKLMNOP", wantErr: ErrNonLetter},
		{name: "inner space", input: "ABCD FGHIJKLMNOP", wantErr: ErrNonLetter},
		{name: "accented", input: "ÉBCDEFGHIJKLMNOP", wantErr: ErrNonLetter},
		{name: "too short", input: "ABC", wantErr: ErrTileCount},
		{name: "too long", input: "ABCDEFGHIJKLMNOPQ", wantErr: ErrTileCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLetters(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("board mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBoardValidate(t *testing.T) {
	tests := []struct {
		name  string
		board Board
		want  error
	}{
		{name: "default", board: DefaultBoard()},
		{name: "empty marker", board: Board{{"A", ""}, {"", "B"}}},
		{name: "no rows", board: Board{}, want: ErrBoardShape},
		{name: "empty row", board: Board{{}}, want: ErrBoardShape},
		{name: "ragged", board: Board{{"A", "B"}, {"C"}}, want: ErrBoardShape},
		{name: "two letters", board: Board{{"QU", "A"}}, want: ErrNonLetter},
		{name: "lowercase", board: Board{{"a"}}, want: ErrNonLetter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.board.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestPathString(t *testing.T) {
	p := Path{{0, 0}, {1, 2}, {3, 3}}
	if got := p.String(); got != "00,12,33" {
		t.Fatalf("expected 00,12,33, got %q", got)
	}
	if got := (Path{}).String(); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestAdjacent(t *testing.T) {
	center := Coord{1, 1}
	for _, off := range neighborOffsets {
		n := Coord{center.Row + off.dr, center.Col + off.dc}
		if !Adjacent(center, n) {
			t.Errorf("%v should be adjacent to %v", n, center)
		}
	}
	if Adjacent(center, center) {
		t.Error("a tile is not adjacent to itself")
	}
	if Adjacent(Coord{0, 0}, Coord{0, 2}) {
		t.Error("(0,0) and (0,2) are not adjacent")
	}
}

func TestBoardHelpers(t *testing.T) {
	b := DefaultBoard()

	if got := b.Letters(Path{{1, 0}, {0, 0}, {0, 1}, {1, 1}}); got != "VISE" {
		t.Fatalf("expected VISE, got %q", got)
	}

	letters := b.UniqueLetters()
	if len(letters) != 11 {
		t.Fatalf("expected 11 distinct letters, got %d: %v", len(letters), letters)
	}
	if letters["Z"] {
		t.Fatal("Z is not on the default board")
	}

	cp := b.Clone()
	cp[0][0] = "Z"
	if b[0][0] != "I" {
		t.Fatal("Clone should not share rows with the original")
	}

	if b.InBounds(Coord{4, 0}) || b.InBounds(Coord{0, -1}) {
		t.Fatal("coords outside the board reported in bounds")
	}
}
