// Package ratelimit throttles the reads performed while comparing files so a
// scan of live storage does not saturate it. One Limiter is shared by every
// comparison worker of a run.
package ratelimit

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/time/rate"
)

// minBurst keeps block reads from being split too finely at low rates
const minBurst = 64 << 10

// Limiter shares a byte budget between readers. One token is one byte.
type Limiter struct {
	bytesPerSecond int64
	burst          int
	limiter        *rate.Limiter
}

// NewLimiter creates a limiter allowing bytesPerSecond across all its readers.
// A non-positive rate means unlimited and returns nil.
func NewLimiter(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}

	// One second worth of data
	burst := int(bytesPerSecond)
	if burst < minBurst {
		burst = minBurst
	}

	return &Limiter{
		bytesPerSecond: bytesPerSecond,
		burst:          burst,
		limiter:        rate.NewLimiter(rate.Limit(bytesPerSecond), burst),
	}
}

// Rate returns the configured bytes per second
func (l *Limiter) Rate() int64 {
	if l == nil {
		return 0
	}
	return l.bytesPerSecond
}

// Burst returns the largest number of bytes a single read may take
func (l *Limiter) Burst() int {
	if l == nil {
		return 0
	}
	return l.burst
}

// Wrap returns r throttled by the limiter, or r itself on a nil limiter
func (l *Limiter) Wrap(ctx context.Context, r io.Reader) io.Reader {
	if l == nil {
		return r
	}
	return &Reader{reader: r, limiter: l, ctx: ctx}
}

// Reader is an io.Reader drawing tokens from a shared Limiter
type Reader struct {
	reader  io.Reader
	limiter *Limiter
	ctx     context.Context
}

// Read reads at most one burst, then waits until the bytes delivered are
// paid for. Only delivered bytes consume tokens.
func (r *Reader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	if len(p) > r.limiter.burst {
		p = p[:r.limiter.burst]
	}

	n, err := r.reader.Read(p)
	if n > 0 {
		if waitErr := r.limiter.limiter.WaitN(r.ctx, n); waitErr != nil {
			return n, waitErr
		}
	}
	return n, err
}

// ParseBandwidth parses limits such as "512K", "10M", "1G" or a plain byte
// count. Suffixes are binary multiples; an optional trailing "B" or "/s" is
// accepted. The empty string and "0" mean unlimited.
func ParseBandwidth(s string) (int64, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	v = strings.TrimSuffix(v, "/S")
	v = strings.TrimSuffix(v, "B")
	if v == "" {
		return 0, nil
	}

	multiplier := int64(1)
	switch v[len(v)-1] {
	case 'K':
		multiplier = 1 << 10
	case 'M':
		multiplier = 1 << 20
	case 'G':
		multiplier = 1 << 30
	}
	if multiplier > 1 {
		v = v[:len(v)-1]
	}

	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid bandwidth limit: %q", s)
	}
	return int64(n * float64(multiplier)), nil
}
