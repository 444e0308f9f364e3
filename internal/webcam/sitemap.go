package webcam

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/antchfx/xmlquery"
	"go.uber.org/zap"
)

// DiscoveryError reports that the camera directory sitemap could not be
// fetched after exhausting the retry budget. It is the one fatal condition
// in the pipeline: without a candidate pool no further progress is possible.
type DiscoveryError struct {
	Message string
	Err     error
}

func (e *DiscoveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// Loader fetches and parses the directory's sitemap into a candidate pool.
type Loader struct {
	sitemapURL string
	retries    int
	client     *http.Client
	logger     *zap.Logger
}

// NewLoader builds a Loader. The sitemap fetch deliberately carries no
// request timeout; only the image capture bounds its own.
func NewLoader(cfg Config, logger *zap.Logger) *Loader {
	return &Loader{
		sitemapURL: cfg.SitemapURL,
		retries:    cfg.Retries,
		client:     &http.Client{},
		logger:     logger,
	}
}

// Load returns the candidate URLs in document order, duplicates preserved.
// It retries up to the configured budget and returns a DiscoveryError once
// the budget is exhausted.
func (l *Loader) Load(ctx context.Context) ([]string, error) {
	var lastErr error
	for attempt := 1; attempt <= l.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		links, err := l.fetchOnce(ctx)
		if err == nil {
			l.logger.Info("fetched camera links", zap.Int("count", len(links)))
			return links, nil
		}
		lastErr = err
		l.logger.Warn("sitemap fetch failed",
			zap.Int("attempt", attempt),
			zap.Int("retries", l.retries),
			zap.Error(err),
		)
	}
	return nil, &DiscoveryError{
		Message: "failed to fetch camera links after multiple attempts",
		Err:     lastErr,
	}
}

func (l *Loader) fetchOnce(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.sitemapURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build sitemap request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get sitemap: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sitemap returned status %d", resp.StatusCode)
	}

	doc, err := xmlquery.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse sitemap XML: %w", err)
	}

	// The sitemap declares a namespace; match loc elements regardless of it.
	nodes, err := xmlquery.QueryAll(doc, "//*[local-name()='loc']")
	if err != nil {
		return nil, fmt.Errorf("query sitemap loc elements: %w", err)
	}
	links := make([]string, 0, len(nodes))
	for _, n := range nodes {
		links = append(links, strings.TrimSpace(n.InnerText()))
	}
	return links, nil
}
