package main

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

var (
	// ErrWordsNotFound is returned when a word list file does not exist.
	ErrWordsNotFound = errors.New("file not found")
	// ErrWordsEmpty is returned when a word list has no non-blank lines.
	ErrWordsEmpty = errors.New("file is empty")
)

// WordStore holds the role and phrase lists loaded at startup
type WordStore struct {
	Roles   []string
	Phrases []string
}

// LoadWordStore loads both word lists
func LoadWordStore(rolesPath, phrasesPath string) (*WordStore, error) {
	roles, err := LoadWords(rolesPath)
	if err != nil {
		return nil, err
	}
	phrases, err := LoadWords(phrasesPath)
	if err != nil {
		return nil, err
	}
	return &WordStore{Roles: roles, Phrases: phrases}, nil
}

// LoadWords reads one entry per line, trimming whitespace and skipping blank lines
func LoadWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrWordsNotFound)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer f.Close()

	words := []string{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			words = append(words, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if len(words) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrWordsEmpty)
	}
	return words, nil
}
