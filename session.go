package main

import (
	"context"
	"fmt"
	"time"
)

// RunResult is the outcome of one solve run.
type RunResult struct {
	BoardID        string      `json:"board_id,omitempty"`
	Board          Board       `json:"board"`
	Solutions      []Solution  `json:"solutions"`
	WordCount      int         `json:"word_count"`
	DictionarySize int         `json:"dictionary_size"`
	Stats          SearchStats `json:"stats"`
	FinishedAt     time.Time   `json:"finished_at"`
}

// Session solves one board. Everything a run needs lives here, so sessions
// running at the same time never share state.
type Session struct {
	BoardID   string
	Board     Board
	Words     WordSource
	MinLength int
}

// NewSession creates a session for board. A minLength below 1 selects
// MinWordLength.
func NewSession(board Board, words WordSource, minLength int) *Session {
	if minLength < 1 {
		minLength = MinWordLength
	}
	return &Session{Board: board, Words: words, MinLength: minLength}
}

// Run fetches the word list, builds the dictionary and searches the board.
// Only the fetch honors ctx; the search runs to completion once started.
func (s *Session) Run(ctx context.Context) (*RunResult, error) {
	raw, err := s.Words.Words(ctx)
	if err != nil {
		return nil, fmt.Errorf("load word list: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dict := BuildDictionary(raw, s.Board, s.MinLength)
	sols, stats := FindAllWordsStats(s.Board, dict)

	return &RunResult{
		BoardID:        s.BoardID,
		Board:          s.Board.Clone(),
		Solutions:      sols,
		WordCount:      len(sols),
		DictionarySize: len(dict),
		Stats:          stats,
		FinishedAt:     time.Now(),
	}, nil
}
