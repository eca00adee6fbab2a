package ratelimit

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"
)

func TestNewLimiter(t *testing.T) {
	tests := []struct {
		name           string
		bytesPerSecond int64
		wantNil        bool
		wantBurst      int
	}{
		{"Zero", 0, true, 0},
		{"Negative", -1, true, 0},
		{"BelowMinimumBucket", 1024, false, 65536},
		{"LargeRate", 10 << 20, false, 10 << 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLimiter(tt.bytesPerSecond)
			if tt.wantNil {
				if l != nil {
					t.Fatal("NewLimiter() should return nil")
				}
				return
			}
			if l == nil {
				t.Fatal("NewLimiter() returned nil")
			}
			if l.Burst() != tt.wantBurst {
				t.Errorf("Burst() = %d, want %d", l.Burst(), tt.wantBurst)
			}
			if l.Rate() != tt.bytesPerSecond {
				t.Errorf("Rate() = %d, want %d", l.Rate(), tt.bytesPerSecond)
			}
			if got := int(l.limiter.Tokens()); got != tt.wantBurst {
				t.Errorf("tokens = %d, want a full bucket", got)
			}
		})
	}
}

func TestNilLimiterWrapIsIdentity(t *testing.T) {
	var l *Limiter
	r := bytes.NewReader([]byte("data"))
	if got := l.Wrap(context.Background(), r); got != io.Reader(r) {
		t.Error("nil limiter should return the reader unchanged")
	}
	if l.Rate() != 0 || l.Burst() != 0 {
		t.Errorf("Rate()/Burst() = %d/%d, want 0/0", l.Rate(), l.Burst())
	}
}

func TestReaderReadsEverything(t *testing.T) {
	data := bytes.Repeat([]byte("z"), 200000)
	l := NewLimiter(100 << 20)

	got, err := io.ReadAll(l.Wrap(context.Background(), bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("read %d bytes, want %d", len(got), len(data))
	}
}

func TestRateLimiting(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}

	// The bucket holds 64KB; the remaining 32KB at 64KB/s needs about half a second
	l := NewLimiter(64 << 10)
	data := make([]byte, 96<<10)

	start := time.Now()
	if _, err := io.ReadAll(l.Wrap(context.Background(), bytes.NewReader(data))); err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 300*time.Millisecond {
		t.Errorf("elapsed = %v, expected throttling", elapsed)
	}
}

func TestReaderHonoursContext(t *testing.T) {
	l := NewLimiter(1024)
	// Empty the bucket so the next read would have to wait
	l.limiter.AllowN(time.Now(), l.Burst())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := bytes.NewReader(make([]byte, 4096))
	n, err := l.Wrap(ctx, src).Read(make([]byte, 4096))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Read() error = %v, want context.Canceled", err)
	}
	if n != 0 || src.Len() != 4096 {
		t.Errorf("n = %d, remaining = %d; a cancelled read should consume nothing", n, src.Len())
	}
}

func TestReaderWaitCancelled(t *testing.T) {
	l := NewLimiter(1024)
	l.limiter.AllowN(time.Now(), l.Burst())

	// Paying for 4KB at 1KB/s takes seconds; the deadline is far shorter
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := l.Wrap(ctx, bytes.NewReader(make([]byte, 4096))).Read(make([]byte, 4096))
	if err == nil {
		t.Fatal("Read() should fail when the wait outlasts the context")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Read() blocked for %v despite the deadline", elapsed)
	}
}

func TestReadIsCappedAtBurst(t *testing.T) {
	l := NewLimiter(1024)
	buf := make([]byte, 4*l.Burst())

	n, err := l.Wrap(context.Background(), bytes.NewReader(buf)).Read(buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if n != l.Burst() {
		t.Errorf("n = %d, want %d", n, l.Burst())
	}
}

func TestShortReadConsumesDeliveredBytesOnly(t *testing.T) {
	l := NewLimiter(1 << 20)
	before := l.limiter.Tokens()

	buf := make([]byte, 1000)
	n, _ := l.Wrap(context.Background(), bytes.NewReader([]byte("abc"))).Read(buf)
	if n != 3 {
		t.Fatalf("n = %d, want 3", n)
	}
	if after := l.limiter.Tokens(); after < before-3-1024 || after > before {
		t.Errorf("tokens = %.0f, expected only delivered bytes consumed (start %.0f)", after, before)
	}
}

func TestParseBandwidth(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"", 0, false},
		{"0", 0, false},
		{"1024", 1024, false},
		{"512K", 512 << 10, false},
		{"10M", 10 << 20, false},
		{"10MB", 10 << 20, false},
		{"1G", 1 << 30, false},
		{"1.5M", 3 << 19, false},
		{"20m/s", 20 << 20, false},
		{"fast", 0, true},
		{"-5M", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBandwidth(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBandwidth(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBandwidth(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func BenchmarkRateLimitedRead(b *testing.B) {
	data := make([]byte, 1<<20)
	l := NewLimiter(1 << 40)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		io.Copy(io.Discard, l.Wrap(context.Background(), bytes.NewReader(data)))
	}
}
