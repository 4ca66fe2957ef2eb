package scratch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpace_Paths(t *testing.T) {
	base := t.TempDir()
	s := New("abc123", WithBaseDir(base))

	assert.Equal(t, filepath.Join(base, "drover-abc123"), s.Root())
	assert.Equal(t, filepath.Join(base, "drover-abc123", "diff.patch"), s.DiffPath())
}

func TestSpace_WriteAndReadDiff(t *testing.T) {
	s := New("session-1", WithBaseDir(t.TempDir()))

	path, err := s.WriteDiff("diff --git a/x b/x\n")
	require.NoError(t, err)
	assert.Equal(t, s.DiffPath(), path)

	got, err := s.ReadDiff()
	require.NoError(t, err)
	assert.Equal(t, "diff --git a/x b/x\n", got)
}

func TestSpace_WriteDiffOverwrites(t *testing.T) {
	s := New("session-2", WithBaseDir(t.TempDir()))

	_, err := s.WriteDiff("first")
	require.NoError(t, err)
	_, err = s.WriteDiff("second")
	require.NoError(t, err)

	got, err := s.ReadDiff()
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	entries, err := os.ReadDir(s.Root())
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files should not linger")
}

func TestSpace_ReadDiffMissing(t *testing.T) {
	s := New("session-3", WithBaseDir(t.TempDir()))

	_, err := s.ReadDiff()
	require.Error(t, err)
}

func TestSpace_Cleanup(t *testing.T) {
	s := New("session-4", WithBaseDir(t.TempDir()))

	_, err := s.WriteDiff("content")
	require.NoError(t, err)

	require.NoError(t, s.Cleanup())
	_, statErr := os.Stat(s.Root())
	assert.True(t, os.IsNotExist(statErr))

	require.NoError(t, s.Cleanup(), "cleanup of an absent directory succeeds")
}

func TestSpace_SessionsAreIsolated(t *testing.T) {
	base := t.TempDir()
	a := New("session-a", WithBaseDir(base))
	b := New("session-b", WithBaseDir(base))

	_, err := a.WriteDiff("from a")
	require.NoError(t, err)
	_, err = b.WriteDiff("from b")
	require.NoError(t, err)

	require.NoError(t, a.Cleanup())

	got, err := b.ReadDiff()
	require.NoError(t, err)
	assert.Equal(t, "from b", got)
}
