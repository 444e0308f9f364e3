package webcam

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/streetlens/streetlens/internal/announce"
	"github.com/streetlens/streetlens/internal/api"
	"github.com/streetlens/streetlens/internal/hash/sha256"
	"github.com/streetlens/streetlens/internal/id/uuid"
	"github.com/streetlens/streetlens/internal/metrics"
	"github.com/streetlens/streetlens/internal/publisher"
	"github.com/streetlens/streetlens/internal/storage"
)

// Engine orchestrates the full pipeline: one cycle samples a camera,
// captures and validates a frame, composes the caption, and publishes.
// Successful cycles sleep the configured interval; failed cycles back off
// exponentially and start a fresh selection session.
type Engine struct {
	cfg       Config
	loader    *Loader
	selector  *Selector
	capturer  *Capturer
	publisher publisher.Publisher
	archive   storage.Provider
	announcer announce.Provider
	clock     Clock
	backoff   *FailureBackoff
	hasher    *sha256.Hasher
	idGen     *uuid.Generator
	logger    *zap.Logger
}

// NewEngine wires the pipeline components together.
func NewEngine(
	cfg Config,
	loader *Loader,
	selector *Selector,
	capturer *Capturer,
	pub publisher.Publisher,
	archive storage.Provider,
	announcer announce.Provider,
	clock Clock,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		cfg:       cfg,
		loader:    loader,
		selector:  selector,
		capturer:  capturer,
		publisher: pub,
		archive:   archive,
		announcer: announcer,
		clock:     clock,
		backoff:   NewFailureBackoff(cfg.FailureBackoffBase, cfg.FailureBackoffMax),
		hasher:    sha256.New(),
		idGen:     uuid.New(),
		logger:    logger,
	}
}

// Close releases pipeline resources (notably the headless renderer).
func (e *Engine) Close(ctx context.Context) error {
	return e.selector.Close(ctx)
}

// Run loads the candidate pool once and then cycles until the context is
// canceled. With once set, it returns after the first successful post.
// A sitemap failure is the only fatal error.
func (e *Engine) Run(ctx context.Context, once bool) error {
	pool, err := e.loader.Load(ctx)
	if err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		cycleID, err := e.idGen.NewID()
		if err != nil {
			return fmt.Errorf("generate cycle id: %w", err)
		}

		if e.runCycle(ctx, cycleID, pool) {
			e.backoff.Reset()
			if once {
				return nil
			}
			e.logger.Info("post successful, waiting",
				zap.String("cycle_id", cycleID),
				zap.Duration("interval", e.cfg.PostInterval),
			)
			if err := sleepCtx(ctx, e.cfg.PostInterval); err != nil {
				return err
			}
			continue
		}

		delay := e.backoff.Next()
		e.logger.Info("cycle failed, backing off",
			zap.String("cycle_id", cycleID),
			zap.Duration("delay", delay),
		)
		if err := sleepCtx(ctx, delay); err != nil {
			return err
		}
	}
}

// runCycle executes one sample-capture-publish attempt and reports whether
// a post went out.
func (e *Engine) runCycle(ctx context.Context, cycleID string, pool []string) bool {
	logger := e.logger.With(zap.String("cycle_id", cycleID))

	cand, err := e.selector.Select(ctx, pool)
	if err != nil {
		if errors.Is(err, ErrCandidatesExhausted) {
			logger.Warn("selection session exhausted its attempt budget")
		}
		return false
	}

	destPath := e.capturer.ImagePath(cand.ID, e.clock.Now())
	if !e.capturer.Capture(ctx, cand.StreamURL, destPath) {
		return false
	}

	if IsDegenerate(destPath, logger) {
		metrics.RecordDegenerateFrame()
		if err := os.Remove(destPath); err != nil {
			logger.Warn("failed to remove degenerate frame", zap.String("path", destPath), zap.Error(err))
		}
		return false
	}

	loc := Location{
		City:        UnknownField,
		Region:      UnknownField,
		Country:     UnknownField,
		CountryCode: UnknownField,
	}
	if cand.Location != nil {
		loc = *cand.Location
	}
	caption := ComposeLocation(loc, FlagEmoji(loc.CountryCode))

	logger.Info("publishing", zap.String("camera_id", cand.ID), zap.String("caption", caption))
	ref, err := e.publisher.Publish(ctx, caption, destPath)
	if err != nil {
		metrics.RecordPost("failure")
		logger.Error("post failed", zap.String("camera_id", cand.ID), zap.Error(err))
		return false
	}

	postedAt := e.clock.Now()
	metrics.RecordPost("success")
	metrics.SetLastPostTime(postedAt)
	api.RecordPost(api.PostStatus{
		CameraID: cand.ID,
		Caption:  caption,
		PostID:   ref.ID,
		PostURL:  ref.URL,
		PostedAt: postedAt,
	})
	logger.Info("post successful",
		zap.String("camera_id", cand.ID),
		zap.String("post_url", ref.URL),
	)

	e.archiveFrame(ctx, logger, cand.ID, destPath)
	e.announcePost(ctx, logger, cycleID, cand.ID, caption, ref, postedAt)
	return true
}

// archiveFrame copies the posted frame to the configured archive, named by
// content digest. Failures are logged, never fatal: the local file stays on
// disk either way.
func (e *Engine) archiveFrame(ctx context.Context, logger *zap.Logger, cameraID, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("failed to read frame for archiving", zap.String("path", path), zap.Error(err))
		return
	}
	digest, err := e.hasher.Hash(data)
	if err != nil {
		logger.Warn("failed to hash frame for archiving", zap.Error(err))
		return
	}
	objectName := fmt.Sprintf("%s/%s.jpg", cameraID, digest)
	if err := e.archive.Save(ctx, objectName, data); err != nil {
		logger.Warn("failed to archive frame", zap.String("object", objectName), zap.Error(err))
	}
}

func (e *Engine) announcePost(
	ctx context.Context,
	logger *zap.Logger,
	cycleID string,
	cameraID string,
	caption string,
	ref publisher.PostRef,
	postedAt time.Time,
) {
	note := announce.Note{
		CycleID:  cycleID,
		CameraID: cameraID,
		Location: caption,
		PostID:   ref.ID,
		PostURL:  ref.URL,
		PostedAt: postedAt,
	}
	if err := e.announcer.Announce(ctx, note); err != nil {
		logger.Warn("failed to announce post", zap.Error(err))
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
