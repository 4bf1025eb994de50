package main

import (
	"sort"
	"strings"
)

// SplitWordList splits a newline-separated word list into upper-cased
// entries. Blank lines are dropped.
func SplitWordList(text string) []string {
	lines := strings.Split(text, "\n")
	words := make([]string, 0, len(lines))
	for _, line := range lines {
		w := normalizeWord(line)
		if w == "" {
			continue
		}
		words = append(words, w)
	}
	return words
}

// BuildDictionary keeps the words that could possibly appear on board: at
// least minLength letters long and spelled only with letters present on the
// board. The result is deduplicated and sorted.
func BuildDictionary(raw []string, board Board, minLength int) []string {
	letters := board.UniqueLetters()
	if len(letters) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(raw))
	dict := make([]string, 0, len(raw)/4)
	for _, word := range raw {
		if len(word) < minLength || seen[word] {
			continue
		}
		if !spelledWith(word, letters) {
			continue
		}
		seen[word] = true
		dict = append(dict, word)
	}
	sort.Strings(dict)
	return dict
}

func normalizeWord(w string) string {
	return strings.ToUpper(strings.TrimSpace(w))
}

func spelledWith(word string, letters map[string]bool) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		if !letters[word[i:i+1]] {
			return false
		}
	}
	return true
}
