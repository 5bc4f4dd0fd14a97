package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mapping.bin")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestMapping_Reader(t *testing.T) {
	content := []byte{0, 0, 8, 3, 0, 0, 0, 1}

	m, err := Open(writeTemp(t, content))
	require.NoError(t, err)
	defer m.Close()

	for range 2 {
		r, err := m.Reader()
		require.NoError(t, err)

		got, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, content, got)
	}
}

func TestMapping_EmptyFile(t *testing.T) {
	m, err := Open(writeTemp(t, nil))
	require.NoError(t, err)

	r, err := m.Reader()
	require.NoError(t, err)
	assert.Equal(t, 0, r.Len())
	assert.NoError(t, m.Close())
}

func TestMapping_Close(t *testing.T) {
	m, err := Open(writeTemp(t, []byte("data")))
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	_, err = m.Reader()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMapping_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.bin"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
