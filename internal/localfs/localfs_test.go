package localfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsHiddenName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{".git", true},
		{".env", true},
		{"file.txt", false},
		{".", false},
		{"..", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsHiddenName(tt.name), tt.name)
	}
	assert.True(t, IsHidden(filepath.Join("a", ".b")))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestCollectFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")
	writeFile(t, filepath.Join(root, "sub", "deep", "b.txt"), "bb")
	writeFile(t, filepath.Join(root, ".hidden"), "x")
	writeFile(t, filepath.Join(root, ".git", "config"), "x")

	files, err := CollectFiles(root, WalkOptions{})
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "", files[0].Dir)
	assert.Equal(t, "a.txt", filepath.Base(files[0].Path))
	assert.Equal(t, "sub/deep", files[1].Dir)
	assert.Equal(t, int64(2), files[1].Size)
}

func TestCollectFiles_IncludeHidden(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "config"), "x")
	writeFile(t, filepath.Join(root, "a.txt"), "a")

	files, err := CollectFiles(root, WalkOptions{IncludeHidden: true})
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, ".git", files[0].Dir)
}

func TestCollectFiles_MissingRoot(t *testing.T) {
	_, err := CollectFiles(filepath.Join(t.TempDir(), "missing"), WalkOptions{})
	assert.Error(t, err)
}
