package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"
)

var (
	ErrBoardNotFound = errors.New("board not found")
	ErrRunInProgress = errors.New("a solve run is already in progress for this board")
)

// Store holds boards, their last run result and the set of boards being
// solved, all in memory.
type Store struct {
	mu      sync.RWMutex
	boards  map[string]*StoredBoard
	results map[string]*RunResult
	running map[string]bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		boards:  make(map[string]*StoredBoard),
		results: make(map[string]*RunResult),
		running: make(map[string]bool),
	}
}

// SaveBoard stores a board and returns it with a generated ID.
func (s *Store) SaveBoard(b Board, source string) *StoredBoard {
	sb := &StoredBoard{
		ID:        generateID(),
		Board:     b.Clone(),
		Source:    source,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.boards[sb.ID] = sb
	s.mu.Unlock()

	return sb
}

// GetBoard returns a board by ID, or nil if not found.
func (s *Store) GetBoard(id string) *StoredBoard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.boards[id]
}

// ListBoards returns all boards, most recent first.
func (s *Store) ListBoards() []*StoredBoard {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*StoredBoard, 0, len(s.boards))
	for _, b := range s.boards {
		list = append(list, b)
	}
	// Insertion sort, small N.
	for i := 1; i < len(list); i++ {
		for j := i; j > 0 && list[j].CreatedAt.After(list[j-1].CreatedAt); j-- {
			list[j], list[j-1] = list[j-1], list[j]
		}
	}
	return list
}

// BeginRun marks a run for board id as outstanding. The returned release
// func must be called when the run ends. A second BeginRun for the same board
// fails with ErrRunInProgress until then.
func (s *Store) BeginRun(id string) (release func(), err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.boards[id]; !ok {
		return nil, ErrBoardNotFound
	}
	if s.running[id] {
		return nil, ErrRunInProgress
	}
	s.running[id] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.running, id)
			s.mu.Unlock()
		})
	}, nil
}

// Running reports whether a run for board id is outstanding.
func (s *Store) Running(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running[id]
}

// SaveResult keeps res as the latest result of its board.
func (s *Store) SaveResult(res *RunResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.boards[res.BoardID]; !ok {
		return ErrBoardNotFound
	}
	s.results[res.BoardID] = res
	return nil
}

// GetResult returns the latest result for board id, or nil.
func (s *Store) GetResult(id string) *RunResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results[id]
}

func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
