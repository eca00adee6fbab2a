package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memTree(t *testing.T, files map[string]string) *Tree {
	t.Helper()
	fsys := memfs.New()
	for name, content := range files {
		if dir := filepath.Dir(filepath.FromSlash(name)); dir != "." {
			require.NoError(t, fsys.MkdirAll(dir, 0o755))
		}
		require.NoError(t, util.WriteFile(fsys, filepath.FromSlash(name), []byte(content), 0o644))
	}
	return New(filepath.FromSlash("/trees/left"), fsys)
}

func abs(rel string) string {
	return filepath.Join(filepath.FromSlash("/trees/left"), filepath.FromSlash(rel))
}

func TestNewLocal(t *testing.T) {
	t.Run("ValidDirectory", func(t *testing.T) {
		dir := t.TempDir()

		local, err := NewLocal(dir)
		require.NoError(t, err)
		defer local.Close()

		want, err := filepath.Abs(dir)
		require.NoError(t, err)
		assert.Equal(t, want, local.Root())
	})

	t.Run("NonExistentPath", func(t *testing.T) {
		_, err := NewLocal(filepath.Join(t.TempDir(), "missing"))
		assert.Error(t, err)
	})

	t.Run("FileNotDirectory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

		_, err := NewLocal(file)
		assert.Error(t, err)
	})
}

func TestTree_ReadDir(t *testing.T) {
	tree := memTree(t, map[string]string{
		"a.txt":     "a",
		"sub/b.txt": "bb",
	})
	ctx := context.Background()

	entries, err := tree.ReadDir(ctx, tree.Root())
	require.NoError(t, err)

	byName := make(map[string]FileInfo)
	for _, e := range entries {
		byName[e.Name] = e
	}
	require.Len(t, byName, 2)

	assert.True(t, byName["a.txt"].Regular)
	assert.Equal(t, abs("a.txt"), byName["a.txt"].Path)
	assert.Equal(t, int64(1), byName["a.txt"].Size)
	assert.True(t, byName["sub"].IsDir)
	assert.False(t, byName["sub"].Regular)

	sub, err := tree.ReadDir(ctx, abs("sub"))
	require.NoError(t, err)
	require.Len(t, sub, 1)
	assert.Equal(t, abs("sub/b.txt"), sub[0].Path)
}

func TestTree_OpenAndStat(t *testing.T) {
	tree := memTree(t, map[string]string{"dir/file.txt": "hello"})
	ctx := context.Background()

	rc, err := tree.Open(ctx, abs("dir/file.txt"))
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "hello", string(data))

	info, err := tree.Stat(ctx, abs("dir/file.txt"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size)
	assert.True(t, info.Regular)

	_, err = tree.Open(ctx, abs("dir/missing.txt"))
	assert.Error(t, err)
}

func TestTree_IsFile(t *testing.T) {
	tree := memTree(t, map[string]string{
		"file.txt":     "x",
		"dir/nested.x": "y",
	})
	ctx := context.Background()

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"RegularFile", abs("file.txt"), true},
		{"Directory", abs("dir"), false},
		{"Missing", abs("missing.txt"), false},
		{"MissingParent", abs("nope/file.txt"), false},
		{"ParentIsFile", abs("file.txt/child"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tree.IsFile(ctx, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTree_RejectsPathsOutsideRoot(t *testing.T) {
	tree := memTree(t, map[string]string{"file.txt": "x"})
	ctx := context.Background()

	_, err := tree.Open(ctx, filepath.FromSlash("/trees/right/file.txt"))
	assert.Error(t, err)

	_, err = tree.ReadDir(ctx, filepath.FromSlash("/trees"))
	assert.Error(t, err)
}

func TestTree_LocalFilesystem(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a", "b", "c.txt"), []byte("abc"), 0o644))

	tree, err := NewLocal(dir)
	require.NoError(t, err)
	ctx := context.Background()

	ok, err := tree.IsFile(ctx, filepath.Join(tree.Root(), "a", "b", "c.txt"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tree.IsFile(ctx, filepath.Join(tree.Root(), "a", "b", "c.txt", "d"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = tree.IsFile(ctx, filepath.Join(tree.Root(), "a"))
	require.NoError(t, err)
	assert.False(t, ok)
}
