// Package storagetest provides in-memory trees and instrumented filesystems
// for tests that exercise storage backends.
package storagetest

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/sdejongh/treediff/pkg/storage"
)

// WriteFiles populates fsys with files keyed by slash-separated relative path
func WriteFiles(t testing.TB, fsys billy.Filesystem, files map[string]string) {
	t.Helper()
	for name, content := range files {
		name = filepath.FromSlash(name)
		if dir := filepath.Dir(name); dir != "." {
			if err := fsys.MkdirAll(dir, 0o755); err != nil {
				t.Fatalf("MkdirAll(%s): %v", dir, err)
			}
		}
		if err := util.WriteFile(fsys, name, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}
	}
}

// MkdirAll creates empty directories in fsys
func MkdirAll(t testing.TB, fsys billy.Filesystem, dirs ...string) {
	t.Helper()
	for _, dir := range dirs {
		if err := fsys.MkdirAll(filepath.FromSlash(dir), 0o755); err != nil {
			t.Fatalf("MkdirAll(%s): %v", dir, err)
		}
	}
}

// MemTree returns an in-memory backend mounted at root with the given files
func MemTree(t testing.TB, root string, files map[string]string) *storage.Tree {
	t.Helper()
	fsys := memfs.New()
	WriteFiles(t, fsys, files)
	return storage.New(filepath.FromSlash(root), fsys)
}

// CountingFS counts opens and reads performed through it
type CountingFS struct {
	billy.Filesystem

	opens atomic.Int64
	reads atomic.Int64
	bytes atomic.Int64
}

// NewCountingFS wraps fsys
func NewCountingFS(fsys billy.Filesystem) *CountingFS {
	return &CountingFS{Filesystem: fsys}
}

// Open opens a file whose reads are counted
func (c *CountingFS) Open(name string) (billy.File, error) {
	f, err := c.Filesystem.Open(name)
	if err != nil {
		return nil, err
	}
	c.opens.Add(1)
	return &countingFile{File: f, fs: c}, nil
}

// Opens returns the number of successful opens
func (c *CountingFS) Opens() int64 { return c.opens.Load() }

// Reads returns the number of Read calls on opened files
func (c *CountingFS) Reads() int64 { return c.reads.Load() }

// BytesRead returns the total bytes returned by Read calls
func (c *CountingFS) BytesRead() int64 { return c.bytes.Load() }

type countingFile struct {
	billy.File
	fs *CountingFS
}

func (f *countingFile) Read(p []byte) (int, error) {
	n, err := f.File.Read(p)
	f.fs.reads.Add(1)
	f.fs.bytes.Add(int64(n))
	return n, err
}

// FailingFS injects permission errors for selected relative paths
type FailingFS struct {
	billy.Filesystem

	mu       sync.Mutex
	readDirs map[string]bool
	opens    map[string]bool
}

// NewFailingFS wraps fsys
func NewFailingFS(fsys billy.Filesystem) *FailingFS {
	return &FailingFS{
		Filesystem: fsys,
		readDirs:   make(map[string]bool),
		opens:      make(map[string]bool),
	}
}

// FailReadDir makes listing dir fail with a permission error
func (f *FailingFS) FailReadDir(dir string) *FailingFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readDirs[filepath.Clean(filepath.FromSlash(dir))] = true
	return f
}

// FailOpen makes opening name fail with a permission error
func (f *FailingFS) FailOpen(name string) *FailingFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opens[filepath.Clean(filepath.FromSlash(name))] = true
	return f
}

// ReadDir implements billy.Dir
func (f *FailingFS) ReadDir(path string) ([]os.FileInfo, error) {
	f.mu.Lock()
	fail := f.readDirs[filepath.Clean(path)]
	f.mu.Unlock()
	if fail {
		return nil, &os.PathError{Op: "readdir", Path: path, Err: os.ErrPermission}
	}
	return f.Filesystem.ReadDir(path)
}

// Open implements billy.Basic
func (f *FailingFS) Open(name string) (billy.File, error) {
	f.mu.Lock()
	fail := f.opens[filepath.Clean(name)]
	f.mu.Unlock()
	if fail {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return f.Filesystem.Open(name)
}

