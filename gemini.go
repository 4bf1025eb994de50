package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const analyzePrompt = `Analyze this photo of a Boggle board.

Return the letters of the board in the following JSON format:
{
  "rows": <number of rows>,
  "cols": <number of columns>,
  "letters": [
    ["A", "B", "C", "D"],
    ...
  ]
}

Rules:
- Read the rows top to bottom and each row left to right, as seen from the side where the letters are upright.
- Each cell holds exactly one uppercase letter A-Z. The "Qu" die is written "QU".
- Answer ONLY with the JSON, no comment and no markdown.`

// boardAnalysis is the JSON shape requested from Gemini.
type boardAnalysis struct {
	Rows    int        `json:"rows"`
	Cols    int        `json:"cols"`
	Letters [][]string `json:"letters"`
}

// AnalyzeBoard sends a board photo to Gemini and returns the extracted 4x4
// board.
func (g *GeminiClient) AnalyzeBoard(ctx context.Context, imageData []byte, mimeType string) (Board, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName,
		[]*genai.Content{{
			Role: "user",
			Parts: []*genai.Part{
				{Text: analyzePrompt},
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: imageData}},
			},
		}},
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(0.1)),
			TopP:             genai.Ptr(float32(1)),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("empty gemini response")
	}
	return parseBoardAnalysis(text)
}

// parseBoardAnalysis turns Gemini's JSON answer into a validated board.
func parseBoardAnalysis(text string) (Board, error) {
	var a boardAnalysis
	if err := json.Unmarshal([]byte(text), &a); err != nil {
		return nil, fmt.Errorf("parse board JSON: %w\nraw response: %s", err, text)
	}

	if a.Rows != BoardSize || a.Cols != BoardSize || len(a.Letters) != BoardSize {
		return nil, fmt.Errorf("invalid board: %dx%d with %d letter rows", a.Rows, a.Cols, len(a.Letters))
	}

	b := make(Board, len(a.Letters))
	for i, row := range a.Letters {
		if len(row) != BoardSize {
			return nil, fmt.Errorf("invalid board: row %d has %d letters", i, len(row))
		}
		b[i] = make([]string, len(row))
		for j, cell := range row {
			cell = strings.ToUpper(strings.TrimSpace(cell))
			if cell == "QU" {
				cell = "Q"
			}
			if cell == emptyTile {
				return nil, fmt.Errorf("invalid board: no letter at %d,%d", i, j)
			}
			b[i][j] = cell
		}
	}

	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("invalid board: %w", err)
	}
	return b, nil
}
