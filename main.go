package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"
)

const defaultWordStore = "words.db"

func main() {
	configPath := flag.String("config", "", "path to an HCL config file")
	importPath := flag.String("import", "", "import a newline-separated word list into the SQLite word store and exit")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx := context.Background()

	if *importPath != "" {
		if err := importWordList(ctx, logger, cfg, *importPath); err != nil {
			logger.Error("import failed", "err", err)
			os.Exit(1)
		}
		return
	}

	words, closeWords, err := cfg.OpenWordSource()
	if err != nil {
		logger.Error("open word list", "err", err)
		os.Exit(1)
	}
	defer closeWords()

	var analyzer boardAnalyzer
	if cfg.Gemini.Project != "" {
		gemini, err := NewGeminiClient(ctx, cfg.Gemini.Project, cfg.Gemini.Region, cfg.Gemini.Model)
		if err != nil {
			logger.Error("init gemini", "err", err)
			os.Exit(1)
		}
		defer gemini.Close()
		analyzer = gemini
		logger.Info("gemini client ready", "project", cfg.Gemini.Project, "model", gemini.modelName)
	} else {
		logger.Info("GCP_PROJECT_ID not set, board photos disabled")
	}

	srv := NewServer(NewStore(), analyzer, words, cfg.MinWordLength, logger)
	httpSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           requestLogger(logger, srv),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("listening", "addr", cfg.Listen, "min_word_length", cfg.MinWordLength)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

func importWordList(ctx context.Context, logger *slog.Logger, cfg *Config, path string) error {
	raw, err := FileWordList{Path: path}.Words(ctx)
	if err != nil {
		return err
	}

	dbPath := cfg.WordList.SQLite
	if dbPath == "" {
		dbPath = defaultWordStore
	}
	db, err := OpenWordStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	added, err := ImportWords(ctx, db, raw)
	if err != nil {
		return err
	}
	total, err := CountWords(ctx, db)
	if err != nil {
		return err
	}
	logger.Info("word list imported", "file", path, "store", dbPath, "added", added, "total", total)
	return nil
}
