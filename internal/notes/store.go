// Package notes persists free-text learning notes in a single JSON file.
// It is a plain storage layer: whole-file rewrite per mutation, one
// sequential writer, no invariants beyond keeping what it was given.
package notes

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Note is one journal entry. IDs are unix-millisecond timestamps, which
// keeps them monotonic for a single sequential writer.
type Note struct {
	ID      int64     `json:"id"`
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
	Tags    []string  `json:"tags"`
}

// Store reads and writes the note file.
type Store struct {
	path string
	now  func() time.Time
}

func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// List returns all notes, oldest first. A missing file is an empty journal.
func (s *Store) List() ([]Note, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read notes: %w", err)
	}
	var notes []Note
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, fmt.Errorf("parse notes: %w", err)
	}
	return notes, nil
}

// Add appends a note and rewrites the file.
func (s *Store) Add(content string) (Note, error) {
	notes, err := s.List()
	if err != nil {
		return Note{}, err
	}
	n := Note{
		ID:      s.now().UnixMilli(),
		Content: strings.TrimSpace(content),
		Date:    s.now(),
		Tags:    []string{},
	}
	notes = append(notes, n)
	if err := s.save(notes); err != nil {
		return Note{}, err
	}
	return n, nil
}

// Delete removes the note at index (0-based) and rewrites the file.
func (s *Store) Delete(index int) (Note, error) {
	notes, err := s.List()
	if err != nil {
		return Note{}, err
	}
	if index < 0 || index >= len(notes) {
		return Note{}, fmt.Errorf("no note at position %d", index+1)
	}
	removed := notes[index]
	notes = append(notes[:index], notes[index+1:]...)
	if err := s.save(notes); err != nil {
		return Note{}, err
	}
	return removed, nil
}

// Search is the plain keyword path used when AI assistance is absent:
// case-insensitive substring match over note content.
func (s *Store) Search(keyword string) ([]Note, error) {
	notes, err := s.List()
	if err != nil {
		return nil, err
	}
	kw := strings.ToLower(keyword)
	var hits []Note
	for _, n := range notes {
		if strings.Contains(strings.ToLower(n.Content), kw) {
			hits = append(hits, n)
		}
	}
	return hits, nil
}

// CountToday reports how many notes were written today, for the header.
func (s *Store) CountToday() (total, today int, err error) {
	notes, err := s.List()
	if err != nil {
		return 0, 0, err
	}
	y, m, d := s.now().Date()
	for _, n := range notes {
		ny, nm, nd := n.Date.Date()
		if ny == y && nm == m && nd == d {
			today++
		}
	}
	return len(notes), today, nil
}

func (s *Store) save(notes []Note) error {
	data, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
