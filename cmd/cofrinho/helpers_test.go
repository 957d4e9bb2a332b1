package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("empty defaults to now", func(t *testing.T) {
		got, err := parseDate("")
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), got, time.Minute)
	})

	t.Run("valid date", func(t *testing.T) {
		got, err := parseDate("2026-05-17")
		require.NoError(t, err)
		assert.Equal(t, 2026, got.Year())
		assert.Equal(t, time.May, got.Month())
		assert.Equal(t, 17, got.Day())
	})

	t.Run("rejects other formats", func(t *testing.T) {
		for _, input := range []string{"17/05/2026", "2026-5-17", "yesterday"} {
			_, err := parseDate(input)
			assert.Error(t, err, "input %q", input)
		}
	})
}

func TestParseNoteItems(t *testing.T) {
	items, err := parseNoteItems([]string{"Rent=1200,00", "Power = 180.50"})
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Rent", items[0].Content)
	assert.Equal(t, int64(120000), items[0].Value)
	assert.False(t, items[0].Completed)

	assert.Equal(t, "Power", items[1].Content)
	assert.Equal(t, int64(18050), items[1].Value)
}

func TestParseNoteItems_Invalid(t *testing.T) {
	tests := map[string][]string{
		"missing separator": {"Rent 1200"},
		"bad amount":        {"Rent=abc"},
		"empty amount":      {"Rent="},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseNoteItems(args)
			assert.Error(t, err)
		})
	}
}

func TestParseNoteItems_Empty(t *testing.T) {
	items, err := parseNoteItems(nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestExpandGlobs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"jan.ofx", "feb.ofx", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}

	files, err := expandGlobs([]string{filepath.Join(dir, "*.ofx")})
	require.NoError(t, err)
	assert.Len(t, files, 2)

	// Non-matching arguments pass through untouched so the open fails loudly.
	files, err = expandGlobs([]string{filepath.Join(dir, "missing.ofx")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "missing.ofx")}, files)
}
