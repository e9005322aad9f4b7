package internal

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.txt")

	require.NoError(t, writeFileAtomic(path, 0644, func(w io.Writer) error {
		_, err := io.WriteString(w, "first")
		return err
	}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestWriteFileAtomicFailureKeepsOldContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	boom := errors.New("encoder failed")
	err := writeFileAtomic(path, 0644, func(w io.Writer) error {
		_, _ = io.WriteString(w, "half a ro")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is removed")
}

func TestSaveFailureLeavesNoPartialFile(t *testing.T) {
	s := newTestStorage(t)

	// a directory where the export should go makes the final rename fail
	target := filepath.Join(s.Dir(), "youtube_golang_20240315_103045.csv")
	require.NoError(t, os.Mkdir(target, 0755))

	_, err := s.SaveCSV(sampleVideos(), "youtube_golang")
	require.Error(t, err)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsDir())

	path, err := s.SaveJSON(sampleResult(), "youtube_golang")
	require.NoError(t, err, "other formats are unaffected")
	assert.FileExists(t, path)
}
