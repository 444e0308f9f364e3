package webcam

import (
	"bytes"
	"context"
	"strings"

	"github.com/antchfx/htmlquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Suffix the directory appends to stream URLs for cache busting.
const cacheBusterSuffix = "?COUNTER"

// Resolver turns a camera URL into a best-effort populated Candidate.
// It never returns an error: network and parse failures simply leave the
// corresponding fields absent, and the selection loop resamples.
type Resolver struct {
	fetcher  Fetcher
	renderer Renderer
	logger   *zap.Logger
}

// NewResolver builds a Resolver. renderer may be nil; when set it is tried
// once whenever the static fetch fails.
func NewResolver(fetcher Fetcher, renderer Renderer, logger *zap.Logger) *Resolver {
	return &Resolver{
		fetcher:  fetcher,
		renderer: renderer,
		logger:   logger,
	}
}

// Close releases the renderer, if any.
func (r *Resolver) Close(ctx context.Context) error {
	if r.renderer == nil {
		return nil
	}
	return r.renderer.Close(ctx)
}

// Resolve fetches the camera page and extracts the stream URL and the
// details block.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) Candidate {
	cand := Candidate{
		URL: rawURL,
		ID:  CameraID(rawURL),
	}

	page, err := r.fetchPage(ctx, rawURL)
	if err != nil {
		r.logger.Warn("camera page fetch failed",
			zap.String("camera_id", cand.ID),
			zap.Error(err),
		)
		return cand
	}
	cand.PageContent = page.Body

	doc, err := htmlquery.Parse(bytes.NewReader(page.Body))
	if err != nil {
		r.logger.Warn("camera page parse failed",
			zap.String("camera_id", cand.ID),
			zap.Error(err),
		)
		return cand
	}

	if img := htmlquery.FindOne(doc, "//img"); img != nil {
		src := htmlquery.SelectAttr(img, "src")
		cand.StreamURL = strings.Replace(src, cacheBusterSuffix, "", 1)
	}

	cand.RawDetails = flattenDetails(doc)
	if cand.RawDetails != "" {
		loc := ParseDetails(cand.RawDetails)
		cand.Location = &loc
	}
	return cand
}

func (r *Resolver) fetchPage(ctx context.Context, rawURL string) (Page, error) {
	page, err := r.fetcher.Fetch(ctx, rawURL)
	if err == nil {
		return page, nil
	}
	if r.renderer == nil {
		return Page{}, err
	}
	r.logger.Info("static fetch blocked, trying headless fallback",
		zap.String("url", rawURL),
		zap.Error(err),
	)
	return r.renderer.Render(ctx, rawURL)
}

// CameraID derives the best-effort camera identity: the ordered
// concatenation of every digit character in the URL. Used for file naming
// and logging only.
func CameraID(rawURL string) string {
	var b strings.Builder
	for _, c := range rawURL {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// flattenDetails collects the text of every camera-details block, stripping
// internal newlines and tabs and trimming each fragment before joining.
func flattenDetails(doc *html.Node) string {
	nodes := htmlquery.Find(doc, `//div[@class="camera-details"]`)
	var b strings.Builder
	for _, n := range nodes {
		fragment := htmlquery.InnerText(n)
		fragment = strings.ReplaceAll(fragment, "\n", "")
		fragment = strings.ReplaceAll(fragment, "\t", "")
		b.WriteString(strings.TrimSpace(fragment))
	}
	return b.String()
}
