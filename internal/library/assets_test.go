package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	a := NewAssets(dir)

	path := filepath.Join(dir, "video.mp4")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))

	result, err := a.Remove("video.mp4")
	require.NoError(t, err)
	assert.Equal(t, AssetRemoved, result)
	assert.NoFileExists(t, path)
}

func TestRemove_AlreadyAbsent(t *testing.T) {
	a := NewAssets(t.TempDir())

	result, err := a.Remove("missing.mp4")
	require.NoError(t, err)
	assert.Equal(t, AssetAlreadyAbsent, result)
}

func TestRemove_RejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	a := NewAssets(filepath.Join(dir, "downloads"))
	require.NoError(t, os.MkdirAll(a.Dir(), 0o755))

	outside := filepath.Join(dir, "outside.txt")
	require.NoError(t, os.WriteFile(outside, []byte("data"), 0o644))

	for _, title := range []string{"../outside.txt", "..", "sub/file.mp4", ""} {
		result, err := a.Remove(title)
		assert.Equal(t, AssetRemoveFailed, result, "title %q", title)
		assert.Error(t, err, "title %q", title)
	}
	assert.FileExists(t, outside)
}

func TestPath(t *testing.T) {
	a := NewAssets("/downloads")
	assert.Equal(t, filepath.Join("/downloads", "video.mp4"), a.Path("video.mp4"))
}
