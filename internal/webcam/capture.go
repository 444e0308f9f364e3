package webcam

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/streetlens/streetlens/internal/metrics"
)

// Capturer downloads the accepted candidate's still image with bounded
// retry. The download is the only fetch in the pipeline with a timeout.
type Capturer struct {
	client    *http.Client
	retries   int
	userAgent string
	imageRoot string
	logger    *zap.Logger
}

// NewCapturer builds a Capturer and makes sure the image root exists.
func NewCapturer(cfg Config, logger *zap.Logger) *Capturer {
	if err := os.MkdirAll(cfg.ImageRoot, 0o750); err != nil {
		logger.Error("failed to create image root", zap.String("dir", cfg.ImageRoot), zap.Error(err))
	}
	return &Capturer{
		client:    &http.Client{Timeout: cfg.CaptureTimeout},
		retries:   cfg.Retries,
		userAgent: cfg.UserAgent,
		imageRoot: cfg.ImageRoot,
		logger:    logger,
	}
}

// ImagePath returns the destination for a capture: {root}{id}_{unix}.jpg.
func (c *Capturer) ImagePath(cameraID string, takenAt time.Time) string {
	return fmt.Sprintf("%s%s_%d.jpg", c.imageRoot, cameraID, takenAt.Unix())
}

// Capture downloads streamURL to destPath. It retries on any transport
// error or non-200 response, returns false once the budget is exhausted,
// and never leaves a partial file behind.
func (c *Capturer) Capture(ctx context.Context, streamURL, destPath string) bool {
	for attempt := 1; attempt <= c.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return false
		}
		start := time.Now()
		err := c.fetchToFile(ctx, streamURL, destPath)
		if err == nil {
			metrics.RecordCapture("success", time.Since(start).Seconds())
			return true
		}
		metrics.RecordCapture("failure", time.Since(start).Seconds())
		c.logger.Warn("error saving image",
			zap.String("url", streamURL),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	c.logger.Error("failed to save image after multiple attempts", zap.String("url", streamURL))
	return false
}

func (c *Capturer) fetchToFile(ctx context.Context, streamURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return fmt.Errorf("build capture request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("get image: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image endpoint returned status %d", resp.StatusCode)
	}

	// Write to a temp file and rename so a failed download leaves nothing.
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".capture-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()          //nolint:errcheck // unlinking anyway
		os.Remove(tmpName)   //nolint:errcheck // best effort
		return fmt.Errorf("write image body: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) //nolint:errcheck // best effort
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, destPath); err != nil {
		os.Remove(tmpName) //nolint:errcheck // best effort
		return fmt.Errorf("move image into place: %w", err)
	}
	return nil
}
