package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const migrationsSQL = `
CREATE TABLE IF NOT EXISTS words (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	word  TEXT NOT NULL UNIQUE,
	added DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_words_length ON words(length(word));
`

// OpenWordStore opens (creating if needed) the SQLite word store at path and
// runs the migrations.
func OpenWordStore(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open word store: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	if err := InitDB(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// InitDB runs migrations on the given DB connection.
func InitDB(db *sql.DB) error {
	for _, s := range strings.Split(migrationsSQL, ";") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("migrate word store: %w", err)
		}
	}
	return nil
}

// ImportWords stores words in one transaction and returns how many were new.
// Entries are upper-cased; anything that is not a plain A-Z word is skipped.
func ImportWords(ctx context.Context, db *sql.DB, words []string) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO words (word) VALUES (?) ON CONFLICT(word) DO NOTHING`)
	if err != nil {
		return 0, fmt.Errorf("prepare import: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, w := range words {
		w = normalizeWord(w)
		if !isPlainWord(w) {
			continue
		}
		res, err := stmt.ExecContext(ctx, w)
		if err != nil {
			return 0, fmt.Errorf("insert word %q: %w", w, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return inserted, nil
}

// CountWords returns the number of words in the store.
func CountWords(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM words`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count words: %w", err)
	}
	return n, nil
}

func isPlainWord(w string) bool {
	if w == "" {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'A' || w[i] > 'Z' {
			return false
		}
	}
	return true
}
