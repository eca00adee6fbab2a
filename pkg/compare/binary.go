package compare

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/sdejongh/treediff/pkg/storage"
)

// MinBufferSize is the smallest block used for streaming comparison
const MinBufferSize = 4096

// BinaryComparator compares files byte-for-byte in fixed-size blocks
type BinaryComparator struct {
	bufferSize    int
	bufferPool    *sync.Pool
	readerWrapper ReaderWrapper // Optional reader wrapper (e.g., for rate limiting)
}

// NewBinaryComparator creates a new byte-by-byte comparator
func NewBinaryComparator(bufferSize int) *BinaryComparator {
	if bufferSize < MinBufferSize {
		bufferSize = MinBufferSize
	}
	return &BinaryComparator{
		bufferSize: bufferSize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// SetReaderWrapper sets a function to wrap readers (e.g., for rate limiting)
func (c *BinaryComparator) SetReaderWrapper(wrapper ReaderWrapper) {
	c.readerWrapper = wrapper
}

// BufferSize returns the block size used per read
func (c *BinaryComparator) BufferSize() int {
	return c.bufferSize
}

// Compare compares two files byte-by-byte.
// Both files are opened before their sizes are checked, and no content is
// read when the sizes differ.
func (c *BinaryComparator) Compare(ctx context.Context, left storage.Backend, leftPath string, right storage.Backend, rightPath string) (bool, error) {
	// Same path, same file
	if leftPath == rightPath {
		return true, nil
	}

	leftReader, err := left.Open(ctx, leftPath)
	if err != nil {
		return false, &ComparisonError{Op: "open", Path: leftPath, Err: err}
	}
	defer leftReader.Close()

	rightReader, err := right.Open(ctx, rightPath)
	if err != nil {
		return false, &ComparisonError{Op: "open", Path: rightPath, Err: err}
	}
	defer rightReader.Close()

	leftInfo, err := left.Stat(ctx, leftPath)
	if err != nil {
		return false, &ComparisonError{Op: "stat", Path: leftPath, Err: err}
	}

	rightInfo, err := right.Stat(ctx, rightPath)
	if err != nil {
		return false, &ComparisonError{Op: "stat", Path: rightPath, Err: err}
	}

	// Quick check: if sizes differ, files are different
	if leftInfo.Size != rightInfo.Size {
		return false, nil
	}

	var leftStream io.Reader = leftReader
	var rightStream io.Reader = rightReader
	if c.readerWrapper != nil {
		leftStream = c.readerWrapper(ctx, leftReader)
		rightStream = c.readerWrapper(ctx, rightReader)
	}

	leftBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(leftBufPtr)
	leftBuf := *leftBufPtr

	rightBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(rightBufPtr)
	rightBuf := *rightBufPtr

	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		leftN, leftEOF, err := readBlock(leftStream, leftBuf)
		if err != nil {
			return false, &ComparisonError{Op: "read", Path: leftPath, Err: err}
		}

		rightN, rightEOF, err := readBlock(rightStream, rightBuf)
		if err != nil {
			return false, &ComparisonError{Op: "read", Path: rightPath, Err: err}
		}

		if leftN != rightN || !bytes.Equal(leftBuf[:leftN], rightBuf[:rightN]) {
			return false, nil
		}

		if leftEOF || rightEOF {
			// Equal declared sizes end together unless a file changed mid-scan
			return leftEOF == rightEOF, nil
		}
	}
}

// Name returns the comparator name
func (c *BinaryComparator) Name() string {
	return "binary"
}

// readBlock fills buf unless the stream ends first
func readBlock(r io.Reader, buf []byte) (n int, eof bool, err error) {
	n, err = io.ReadFull(r, buf)
	switch {
	case err == nil:
		return n, false, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return n, true, nil
	default:
		return n, false, err
	}
}
