package notes

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "notes.json"))
}

func TestEmptyJournal(t *testing.T) {
	s := tempStore(t)
	notes, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestAddAndList(t *testing.T) {
	s := tempStore(t)

	n, err := s.Add("  learned about goroutines today  ")
	require.NoError(t, err)
	assert.Equal(t, "learned about goroutines today", n.Content)
	assert.NotZero(t, n.ID)

	_, err = s.Add("second note")
	require.NoError(t, err)

	notes, err := s.List()
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "learned about goroutines today", notes[0].Content)
	assert.Equal(t, "second note", notes[1].Content)
}

func TestDelete(t *testing.T) {
	s := tempStore(t)
	_, err := s.Add("keep me")
	require.NoError(t, err)
	_, err = s.Add("delete me")
	require.NoError(t, err)

	removed, err := s.Delete(1)
	require.NoError(t, err)
	assert.Equal(t, "delete me", removed.Content)

	notes, err := s.List()
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "keep me", notes[0].Content)

	_, err = s.Delete(5)
	assert.Error(t, err)
}

func TestSearchKeyword(t *testing.T) {
	s := tempStore(t)
	_, err := s.Add("Studied pandas DataFrames")
	require.NoError(t, err)
	_, err = s.Add("went running")
	require.NoError(t, err)

	hits, err := s.Search("PANDAS")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Studied pandas DataFrames", hits[0].Content)

	hits, err = s.Search("kubernetes")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestCountToday(t *testing.T) {
	s := tempStore(t)
	_, err := s.Add("today's note")
	require.NoError(t, err)

	// Age the first note by a week, then add a fresh one.
	notes, err := s.List()
	require.NoError(t, err)
	notes[0].Date = notes[0].Date.AddDate(0, 0, -7)
	require.NoError(t, s.save(notes))
	_, err = s.Add("fresh note")
	require.NoError(t, err)

	total, today, err := s.CountToday()
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, today)
}

func TestNoteIDsAreMonotonic(t *testing.T) {
	s := tempStore(t)
	a, err := s.Add("first")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	b, err := s.Add("second")
	require.NoError(t, err)
	assert.Greater(t, b.ID, a.ID)
}
