package main

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseBoardAnalysis(t *testing.T) {
	text := `{"rows":4,"cols":4,"letters":[["i","S","O","L"],["V","E","S","QU"],["U","A","R","E"],["D","L","E"," s "]]}`
	got, err := parseBoardAnalysis(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff(DefaultBoard(), got); diff != "" {
		t.Fatalf("board mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBoardAnalysisInvalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "not json", text: "here is your board"},
		{name: "wrong size", text: `{"rows":5,"cols":5,"letters":[]}`},
		{name: "short row", text: `{"rows":4,"cols":4,"letters":[["A","B","C"],["A","B","C","D"],["A","B","C","D"],["A","B","C","D"]]}`},
		{name: "empty cell", text: `{"rows":4,"cols":4,"letters":[["A","","C","D"],["A","B","C","D"],["A","B","C","D"],["A","B","C","D"]]}`},
		{name: "digit", text: `{"rows":4,"cols":4,"letters":[["A","7","C","D"],["A","B","C","D"],["A","B","C","D"],["A","B","C","D"]]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseBoardAnalysis(tt.text); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	_, err := parseBoardAnalysis(`{"rows":4,"cols":4,"letters":[["A","7","C","D"],["A","B","C","D"],["A","B","C","D"],["A","B","C","D"]]}`)
	if !errors.Is(err, ErrNonLetter) {
		t.Fatalf("expected ErrNonLetter, got %v", err)
	}
}

func TestAnalyzeBoard(t *testing.T) {
	projectID := os.Getenv("GCP_PROJECT_ID")
	if projectID == "" {
		t.Skip("GCP_PROJECT_ID not set, skipping integration test")
	}

	ctx := context.Background()
	client, err := NewGeminiClient(ctx, projectID, os.Getenv("GCP_REGION"), "")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	defer client.Close()

	imageData, err := os.ReadFile("testdata/board.jpg")
	if err != nil {
		t.Skipf("no sample photo: %v", err)
	}

	board, err := client.AnalyzeBoard(ctx, imageData, "image/jpeg")
	if err != nil {
		t.Fatalf("analyze board: %v", err)
	}
	if board.Rows() != BoardSize || board.Cols() != BoardSize {
		t.Fatalf("invalid dimensions: %dx%d", board.Rows(), board.Cols())
	}
	t.Logf("Extracted board: %v", board)
}
