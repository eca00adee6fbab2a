// Package walk enumerates the regular files of a tree lazily.
//
// The walk is depth first: a directory's regular files are yielded before
// the walker descends into each of its subdirectories in turn. Only the
// paths of directories still waiting to be listed are held in memory, so
// the tree is never materialized as a whole. Ranging over the sequence a
// second time walks the tree again from scratch.
package walk

import (
	"context"
	"fmt"
	"iter"

	"github.com/sdejongh/treediff/pkg/storage"
)

// TraversalError reports a directory that could not be listed.
// The walker has already given up on that subtree when it yields one;
// the consumer chooses between stopping and carrying on.
type TraversalError struct {
	Dir string
	Err error
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("failed to traverse %s: %v", e.Dir, e.Err)
}

func (e *TraversalError) Unwrap() error {
	return e.Err
}

// Files yields the absolute path of every regular file below the backend root.
// Symlinks and other special entries are neither yielded nor followed.
//
// Errors are yielded with an empty path: a *TraversalError for an unreadable
// directory (iteration may continue), or the context error, after which the
// sequence ends.
func Files(ctx context.Context, backend storage.Backend) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		pending := []string{backend.Root()}

		for len(pending) > 0 {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}

			dir := pending[len(pending)-1]
			pending = pending[:len(pending)-1]

			entries, err := backend.ReadDir(ctx, dir)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					yield("", ctxErr)
					return
				}
				if !yield("", &TraversalError{Dir: dir, Err: err}) {
					return
				}
				continue
			}

			var subdirs []string
			for _, entry := range entries {
				switch {
				case entry.Regular:
					if !yield(entry.Path, nil) {
						return
					}
				case entry.IsDir:
					subdirs = append(subdirs, entry.Path)
				}
			}

			// Reverse push so the first subdirectory listed is walked first
			for i := len(subdirs) - 1; i >= 0; i-- {
				pending = append(pending, subdirs[i])
			}
		}
	}
}
