package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/sdejongh/treediff/internal/platform"
)

// Tree is a Backend over a go-billy filesystem mounted at root.
// The filesystem sees root-relative paths; callers use absolute ones.
type Tree struct {
	root string
	fs   billy.Filesystem
}

// New mounts fsys, whose own root corresponds to the absolute path root
func New(root string, fsys billy.Filesystem) *Tree {
	return &Tree{root: platform.NormalizePath(root), fs: fsys}
}

// NewLocal creates a backend over a directory on the host filesystem
func NewLocal(rootPath string) (*Tree, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", absPath)
	}

	return New(absPath, osfs.New(absPath)), nil
}

// Root returns the absolute root directory
func (t *Tree) Root() string {
	return t.root
}

// ReadDir lists a directory without following entries
func (t *Tree) ReadDir(ctx context.Context, dir string) ([]FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel, err := t.rel(dir)
	if err != nil {
		return nil, err
	}

	entries, err := t.fs.ReadDir(rel)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	infos := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		infos = append(infos, toFileInfo(filepath.Join(dir, e.Name()), e))
	}
	return infos, nil
}

// Open opens a file for reading
func (t *Tree) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel, err := t.rel(path)
	if err != nil {
		return nil, err
	}

	file, err := t.fs.Open(rel)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}

	return file, nil
}

// Stat returns file metadata
func (t *Tree) Stat(ctx context.Context, path string) (*FileInfo, error) {
	rel, err := t.rel(path)
	if err != nil {
		return nil, err
	}

	info, err := t.fs.Stat(rel)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file %s: %w", path, err)
	}

	fi := toFileInfo(path, info)
	return &fi, nil
}

// IsFile reports whether path is an existing regular file
func (t *Tree) IsFile(ctx context.Context, path string) (bool, error) {
	info, err := t.Stat(ctx, path)
	if err == nil {
		return info.Regular, nil
	}
	if isNotExist(err) {
		return false, nil
	}
	return false, err
}

// Close releases resources (no-op for billy filesystems)
func (t *Tree) Close() error {
	return nil
}

// rel maps an absolute path onto the mounted filesystem
func (t *Tree) rel(path string) (string, error) {
	if platform.NormalizePath(path) == t.root {
		return ".", nil
	}
	rel, err := platform.RelativeTo(t.root, path)
	if err != nil {
		return "", fmt.Errorf("path outside tree %s: %w", t.root, err)
	}
	return rel, nil
}

func toFileInfo(path string, info fs.FileInfo) FileInfo {
	return FileInfo{
		Path:    path,
		Name:    info.Name(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
		Regular: info.Mode().IsRegular(),
	}
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
