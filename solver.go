package main

import (
	"slices"
	"sort"
	"strings"
	"time"
)

// neighborOffsets walks the 8 surrounding tiles clockwise from north-west:
//
//	[0][1][2]
//	[7][X][3]
//	[6][5][4]
var neighborOffsets = [8]struct{ dr, dc int }{
	{-1, -1}, {-1, 0}, {-1, 1}, {0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1},
}

// SearchStats describes the work done by one search.
type SearchStats struct {
	Visits     int           `json:"visits"`     // calls of the tile-visit step
	Candidates int           `json:"candidates"` // neighbour tiles appended to a word
	Duration   time.Duration `json:"duration_ns"`
}

// searchState is the mutable state of one full-board search. It is shared by
// every starting cell of that search.
type searchState struct {
	board Board
	root  *trieNode

	avail [][]bool
	word  []string
	path  Path
	nodes []*trieNode // trie node of each prefix of word

	found     map[string]bool
	solutions []Solution
	stats     SearchStats
}

func newSearchState(board Board, dictionary []string) *searchState {
	s := &searchState{
		board: board,
		root:  newTrie(dictionary),
		avail: make([][]bool, board.Rows()),
		found: make(map[string]bool),
	}
	for i := range s.avail {
		s.avail[i] = make([]bool, board.Cols())
	}
	s.reset()
	return s
}

// reset makes every tile available and clears the current word.
func (s *searchState) reset() {
	for _, row := range s.avail {
		for j := range row {
			row[j] = true
		}
	}
	s.word = s.word[:0]
	s.path = s.path[:0]
	s.nodes = s.nodes[:0]
}

func (s *searchState) push(c Coord, node *trieNode) {
	s.word = append(s.word, s.board[c.Row][c.Col])
	s.path = append(s.path, c)
	s.nodes = append(s.nodes, node)
}

func (s *searchState) pop() {
	if len(s.word) == 0 {
		return
	}
	s.word = s.word[:len(s.word)-1]
	s.path = s.path[:len(s.path)-1]
	s.nodes = s.nodes[:len(s.nodes)-1]
}

func (s *searchState) prefix() *trieNode {
	if len(s.nodes) == 0 {
		return s.root
	}
	return s.nodes[len(s.nodes)-1]
}

func (s *searchState) record() {
	w := strings.Join(s.word, "")
	if s.found[w] {
		return
	}
	s.found[w] = true
	s.solutions = append(s.solutions, Solution{Word: w, Path: slices.Clone(s.path)})
}

// visit extends the current word from the tile at (row, col). The tile is
// released again before visit returns.
func (s *searchState) visit(row, col int) {
	s.stats.Visits++
	if s.board[row][col] == emptyTile {
		return
	}
	s.avail[row][col] = false
	if len(s.word) == 0 {
		c := Coord{Row: row, Col: col}
		s.push(c, s.root.descend(s.board[row][col]))
	}

	for i := 0; i <= len(neighborOffsets); i++ {
		// One extra round unwinds this tile.
		if i == len(neighborOffsets) {
			s.pop()
			s.avail[row][col] = true
			continue
		}

		n := Coord{Row: row + neighborOffsets[i].dr, Col: col + neighborOffsets[i].dc}
		if !s.board.InBounds(n) || !s.avail[n.Row][n.Col] || s.board[n.Row][n.Col] == emptyTile {
			continue
		}

		s.avail[n.Row][n.Col] = false
		node := s.prefix().descend(s.board[n.Row][n.Col])
		s.push(n, node)
		s.stats.Candidates++

		if node.isWord() {
			s.record()
		}
		if node.exhausted() {
			s.pop()
			s.avail[n.Row][n.Col] = true
			continue
		}
		s.visit(n.Row, n.Col)
	}
}

// results returns the recorded solutions, unique by word and ordered longest
// first. Words of equal length keep their discovery order.
func (s *searchState) results() []Solution {
	seen := make(map[string]bool, len(s.solutions))
	out := make([]Solution, 0, len(s.solutions))
	for _, sol := range s.solutions {
		if seen[sol.Word] {
			continue
		}
		seen[sol.Word] = true
		out = append(out, sol)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Word) > len(out[j].Word)
	})
	return out
}

// FindAllWords returns every dictionary word that can be traced on board
// through 8-adjacent tiles without reusing a tile, with one path per word.
// dictionary is expected to come from BuildDictionary.
func FindAllWords(board Board, dictionary []string) []Solution {
	sols, _ := FindAllWordsStats(board, dictionary)
	return sols
}

// FindAllWordsStats is FindAllWords plus search statistics.
func FindAllWordsStats(board Board, dictionary []string) ([]Solution, SearchStats) {
	s, sols := search(board, dictionary, false)
	return sols, s.stats
}

// FindAllWordsFresh runs the same search but resets the search state before
// each starting tile instead of once per call.
func FindAllWordsFresh(board Board, dictionary []string) []Solution {
	_, sols := search(board, dictionary, true)
	return sols
}

func search(board Board, dictionary []string, resetPerStart bool) (*searchState, []Solution) {
	start := time.Now()
	s := newSearchState(board, dictionary)
	for r := 0; r < board.Rows(); r++ {
		for c := 0; c < board.Cols(); c++ {
			if resetPerStart {
				s.reset()
			}
			s.visit(r, c)
		}
	}
	sols := s.results()
	s.stats.Duration = time.Since(start)
	return s, sols
}
