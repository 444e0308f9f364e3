package webcam

import (
	"crypto/rand"
	"math"
	"math/big"
	"time"
)

// FailureBackoff produces jittered exponential delays for failed posting
// cycles. Sleeping only after successful posts lets a persistent downstream
// outage turn into a tight retry loop; this applies pressure on every
// failure and resets on success.
type FailureBackoff struct {
	baseDelay time.Duration
	maxDelay  time.Duration
	failures  int
}

// NewFailureBackoff builds a backoff with the configured bounds.
func NewFailureBackoff(base, maxDelay time.Duration) *FailureBackoff {
	return &FailureBackoff{
		baseDelay: base,
		maxDelay:  maxDelay,
	}
}

// Next records a failure and returns the wait before the next cycle.
func (b *FailureBackoff) Next() time.Duration {
	delay := float64(b.baseDelay) * math.Pow(2, float64(b.failures))
	if delay > float64(b.maxDelay) {
		delay = float64(b.maxDelay)
	}
	b.failures++
	jitter := randomJitter(time.Duration(delay) / 2)
	return time.Duration(delay/2) + jitter
}

// Reset clears the failure streak after a successful cycle.
func (b *FailureBackoff) Reset() {
	b.failures = 0
}

func randomJitter(limit time.Duration) time.Duration {
	if limit <= 0 {
		return 0
	}
	bound := big.NewInt(int64(limit))
	n, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return limit / 2
	}
	return time.Duration(n.Int64())
}
