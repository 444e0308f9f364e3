package webcam

import (
	"testing"
	"time"
)

func TestFailureBackoffGrowsAndCaps(t *testing.T) {
	t.Parallel()

	base := 100 * time.Millisecond
	maxDelay := 400 * time.Millisecond
	b := NewFailureBackoff(base, maxDelay)

	// With full jitter the delay for streak n lies in [d/2, d) where
	// d = min(base*2^n, max).
	expected := []time.Duration{base, 2 * base, 4 * base, 4 * base, 4 * base}
	for i, d := range expected {
		got := b.Next()
		if got < d/2 || got >= d {
			t.Fatalf("Next() #%d = %v, want in [%v, %v)", i+1, got, d/2, d)
		}
	}
}

func TestFailureBackoffReset(t *testing.T) {
	t.Parallel()

	base := 100 * time.Millisecond
	b := NewFailureBackoff(base, time.Minute)
	b.Next()
	b.Next()
	b.Reset()

	if got := b.Next(); got < base/2 || got >= base {
		t.Fatalf("Next() after Reset() = %v, want in [%v, %v)", got, base/2, base)
	}
}
