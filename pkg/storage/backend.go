package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo represents metadata about a directory entry
type FileInfo struct {
	Path    string // absolute path
	Name    string
	Size    int64
	ModTime time.Time
	IsDir   bool
	Regular bool
}

// Backend defines the read-only view of one tree used by a run.
// Every path argument is absolute and must lie at or below Root.
type Backend interface {
	// Root returns the absolute root directory of the tree
	Root() string

	// ReadDir lists the entries directly contained in a directory.
	// Entries are not followed: a symlink is reported as neither a
	// directory nor a regular file.
	ReadDir(ctx context.Context, dir string) ([]FileInfo, error)

	// Open opens a file for reading
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Stat returns file metadata, following symlinks
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// IsFile reports whether path exists and is a regular file.
	// A missing path, or one whose parent is not a directory, is (false, nil).
	IsFile(ctx context.Context, path string) (bool, error)

	// Close releases any resources held by the backend
	Close() error
}
