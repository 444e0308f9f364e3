package webcam

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every knob that influences the posting pipeline.
// All values originate from Viper so the bot can be configured via files,
// env vars, or CLI flags.
type Config struct {
	SitemapURL            string
	UserAgent             string
	Retries               int
	CaptureTimeout        time.Duration
	ImageRoot             string
	PostInterval          time.Duration
	MaxSelectAttempts     int
	FailureBackoffBase    time.Duration
	FailureBackoffMax     time.Duration
	RenderFallbackEnabled bool
	RenderTimeout         time.Duration
}

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		SitemapURL:            v.GetString("webcam.sitemap_url"),
		UserAgent:             v.GetString("webcam.user_agent"),
		Retries:               v.GetInt("webcam.retries"),
		CaptureTimeout:        v.GetDuration("webcam.capture_timeout"),
		ImageRoot:             v.GetString("webcam.image_root"),
		PostInterval:          v.GetDuration("webcam.post_interval"),
		MaxSelectAttempts:     v.GetInt("webcam.max_select_attempts"),
		FailureBackoffBase:    v.GetDuration("webcam.failure_backoff_base"),
		FailureBackoffMax:     v.GetDuration("webcam.failure_backoff_max"),
		RenderFallbackEnabled: v.GetBool("webcam.render_fallback_enabled"),
		RenderTimeout:         v.GetDuration("webcam.render_timeout"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if strings.TrimSpace(c.SitemapURL) == "" {
		return fmt.Errorf("webcam.sitemap_url must be set")
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		return fmt.Errorf("webcam.user_agent must be set")
	}
	if c.Retries <= 0 {
		return fmt.Errorf("webcam.retries must be > 0")
	}
	if c.CaptureTimeout <= 0 {
		return fmt.Errorf("webcam.capture_timeout must be > 0")
	}
	if strings.TrimSpace(c.ImageRoot) == "" {
		return fmt.Errorf("webcam.image_root must be set")
	}
	if c.PostInterval <= 0 {
		return fmt.Errorf("webcam.post_interval must be > 0")
	}
	if c.MaxSelectAttempts <= 0 {
		return fmt.Errorf("webcam.max_select_attempts must be > 0")
	}
	if c.FailureBackoffBase <= 0 {
		return fmt.Errorf("webcam.failure_backoff_base must be > 0")
	}
	if c.FailureBackoffMax < c.FailureBackoffBase {
		return fmt.Errorf("webcam.failure_backoff_max must be >= webcam.failure_backoff_base")
	}
	if c.RenderFallbackEnabled && c.RenderTimeout <= 0 {
		return fmt.Errorf("webcam.render_timeout must be > 0 when the render fallback is enabled")
	}
	return nil
}
