package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFPath(t *testing.T) {
	s := NewLocalStorage("/pdfs")

	got, err := s.PDFPath("abc123")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/pdfs", "abc123.pdf"), got)

	for _, bad := range []string{"", ".", "..", "../etc/passwd", `a\b`, "a/b", "x..y"} {
		_, err := s.PDFPath(bad)
		assert.True(t, errors.Is(err, ErrInvalidName), "expected rejection for %q", bad)
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "P1.pdf")
	require.NoError(t, os.WriteFile(file, []byte("%PDF"), 0o644))

	assert.True(t, Exists(file))
	assert.False(t, Exists(dir))
	assert.False(t, Exists(filepath.Join(dir, "missing.pdf")))
}
