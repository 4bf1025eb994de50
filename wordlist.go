package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"
)

// maxWordListSize caps a downloaded word list.
const maxWordListSize = 32 << 20

// WordSource supplies the raw word list a dictionary is built from.
type WordSource interface {
	Words(ctx context.Context) ([]string, error)
}

// StaticWordList is a word list held in memory.
type StaticWordList []string

func (l StaticWordList) Words(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	words := make([]string, 0, len(l))
	for _, w := range l {
		if w = normalizeWord(w); w != "" {
			words = append(words, w)
		}
	}
	return words, nil
}

// FileWordList reads a newline-separated word list from disk.
type FileWordList struct {
	Path string
}

func (l FileWordList) Words(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("read word list %s: %w", l.Path, err)
	}
	return SplitWordList(string(data)), nil
}

// URLWordList downloads a newline-separated word list over HTTP.
type URLWordList struct {
	URL    string
	Client *http.Client // nil uses a client with a 30s timeout
}

func (l URLWordList) Words(ctx context.Context) ([]string, error) {
	client := l.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build word list request: %w", err)
	}
	req.Header.Set("User-Agent", "boggle-solver")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch word list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch word list: server returned %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxWordListSize))
	if err != nil {
		return nil, fmt.Errorf("read word list body: %w", err)
	}
	return SplitWordList(string(data)), nil
}

// SQLiteWordList reads words from the word store.
type SQLiteWordList struct {
	DB        *sql.DB
	MinLength int
}

func (l SQLiteWordList) Words(ctx context.Context) ([]string, error) {
	rows, err := l.DB.QueryContext(ctx, `SELECT word FROM words WHERE length(word) >= ? ORDER BY word`, l.MinLength)
	if err != nil {
		return nil, fmt.Errorf("query words: %w", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate words: %w", err)
	}
	return words, nil
}

// CachedWordList fetches from Source once and serves the same list after
// that. A failed fetch is retried on the next call.
type CachedWordList struct {
	Source WordSource

	mu    sync.Mutex
	words []string
	done  bool
}

func (c *CachedWordList) Words(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done {
		return c.words, nil
	}
	words, err := c.Source.Words(ctx)
	if err != nil {
		return nil, err
	}
	c.words = words
	c.done = true
	return words, nil
}
