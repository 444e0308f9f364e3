package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Config captures the parameters for the HTTP publisher.
type Config struct {
	// BaseURL is the root of a Mastodon-compatible statuses API.
	BaseURL string
	// AccessToken is sent as a bearer token on every request.
	AccessToken string
	Timeout     time.Duration
}

// HTTPPublisher posts to a Mastodon-compatible statuses API: the image is
// uploaded as media first, then a status referencing it is created.
type HTTPPublisher struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

// NewHTTPPublisher builds an HTTPPublisher.
func NewHTTPPublisher(cfg Config, logger *zap.Logger) (*HTTPPublisher, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("publisher base URL is required")
	}
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("publisher access token is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &HTTPPublisher{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}, nil
}

// Publish uploads the image and creates a status carrying it.
func (p *HTTPPublisher) Publish(ctx context.Context, status string, imagePath string) (PostRef, error) {
	mediaID, err := p.uploadMedia(ctx, imagePath)
	if err != nil {
		return PostRef{}, fmt.Errorf("upload media: %w", err)
	}

	ref, err := p.createStatus(ctx, status, mediaID)
	if err != nil {
		return PostRef{}, fmt.Errorf("create status: %w", err)
	}
	p.logger.Info("status published", zap.String("post_id", ref.ID), zap.String("post_url", ref.URL))
	return ref, nil
}

func (p *HTTPPublisher) uploadMedia(ctx context.Context, imagePath string) (string, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(imagePath))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("copy image into form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/api/v2/media", &body)
	if err != nil {
		return "", fmt.Errorf("build media request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.AccessToken)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		ID string `json:"id"`
	}
	if err := p.do(req, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("media response carried no id")
	}
	return out.ID, nil
}

func (p *HTTPPublisher) createStatus(ctx context.Context, status, mediaID string) (PostRef, error) {
	form := url.Values{}
	form.Set("status", status)
	form.Add("media_ids[]", mediaID)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.cfg.BaseURL+"/api/v1/statuses",
		bytes.NewBufferString(form.Encode()),
	)
	if err != nil {
		return PostRef{}, fmt.Errorf("build status request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := p.do(req, &out); err != nil {
		return PostRef{}, err
	}
	return PostRef{ID: out.ID, URL: out.URL}, nil
}

func (p *HTTPPublisher) do(req *http.Request, out any) error {
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s returned status %d: %s", req.Method, req.URL.Path, resp.StatusCode, snippet)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}
