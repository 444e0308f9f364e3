package webcam

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/streetlens/streetlens/internal/metrics"
)

// ErrCandidatesExhausted is returned when no candidate was accepted within
// the attempt budget of one selection session.
var ErrCandidatesExhausted = errors.New("no valid camera found within attempt budget")

// candidateResolver is the slice of Resolver the Selector needs.
type candidateResolver interface {
	Resolve(ctx context.Context, rawURL string) Candidate
	Close(ctx context.Context) error
}

// Selector draws candidates uniformly at random (with replacement) from the
// pool and resolves them until one passes the validity filter or the attempt
// budget runs out. No state persists across sessions.
type Selector struct {
	resolver    candidateResolver
	maxAttempts int
	rng         *rand.Rand
	logger      *zap.Logger
}

// NewSelector builds a Selector with its own PRNG.
func NewSelector(resolver candidateResolver, maxAttempts int, logger *zap.Logger) *Selector {
	return &Selector{
		resolver:    resolver,
		maxAttempts: maxAttempts,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // sampling, not crypto
		logger:      logger,
	}
}

// Close releases the underlying resolver.
func (s *Selector) Close(ctx context.Context) error {
	return s.resolver.Close(ctx)
}

// Select runs one selection session over the pool.
func (s *Selector) Select(ctx context.Context, pool []string) (Candidate, error) {
	if len(pool) == 0 {
		return Candidate{}, ErrCandidatesExhausted
	}
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Candidate{}, err
		}
		url := pool[s.rng.Intn(len(pool))]
		cand := s.resolver.Resolve(ctx, url)
		metrics.RecordCandidateSampled()

		if reason := rejectionReason(cand); reason != "" {
			metrics.RecordCandidateRejected(reason)
			s.logger.Info("camera rejected",
				zap.String("camera_id", cand.ID),
				zap.String("reason", reason),
				zap.Int("attempt", attempt),
			)
			continue
		}

		metrics.RecordCandidateAccepted()
		s.logger.Info("camera accepted",
			zap.String("camera_id", cand.ID),
			zap.String("stream_url", cand.StreamURL),
			zap.Int("attempt", attempt),
		)
		return cand, nil
	}
	return Candidate{}, ErrCandidatesExhausted
}

func rejectionReason(cand Candidate) string {
	switch {
	case len(cand.PageContent) == 0:
		return "page_unreachable"
	case cand.StreamURL == "":
		return "no_stream_url"
	case !ValidStreamURL(cand.StreamURL):
		return "invalid_stream_url"
	default:
		return ""
	}
}
