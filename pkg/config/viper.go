// Package config is responsible for initializing the application's configuration.
// It uses the Viper library to read settings from a config file, environment
// variables, and command-line flags, providing a unified configuration system.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/streetlens/streetlens/internal/logging"
)

// InitConfig initializes the application's configuration using Viper.
// It sets up default values, defines configuration search paths, and enables
// reading from environment variables. This function is designed to be called
// once at application startup.
func InitConfig() {
	// --- Set Search Paths ---
	viper.SetConfigName("config")
	viper.AddConfigPath(".")                 // Current working directory
	viper.AddConfigPath("/etc/streetlens/")  // System-wide configuration
	viper.AddConfigPath("$HOME/.streetlens") // User-specific configuration

	// --- Set Defaults ---
	// The directory site rejects requests that do not look like they come
	// from a real browser, so the default header set mimics desktop Chrome.
	viper.SetDefault("webcam.sitemap_url", "http://www.insecam.org/static/sitemap.xml")
	viper.SetDefault("webcam.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	viper.SetDefault("webcam.retries", 3)
	viper.SetDefault("webcam.capture_timeout", "10s")
	viper.SetDefault("webcam.image_root", "images/")
	viper.SetDefault("webcam.post_interval", "1h")
	viper.SetDefault("webcam.max_select_attempts", 50)
	viper.SetDefault("webcam.failure_backoff_base", "30s")
	viper.SetDefault("webcam.failure_backoff_max", "15m")
	viper.SetDefault("webcam.render_fallback_enabled", false)
	viper.SetDefault("webcam.render_timeout", "15s")

	viper.SetDefault("publisher.provider", "noop")
	viper.SetDefault("publisher.http.base_url", "")
	viper.SetDefault("publisher.http.access_token", "")
	viper.SetDefault("publisher.http.timeout", "30s")

	viper.SetDefault("archive.provider", "noop")
	viper.SetDefault("archive.local.base_dir", "data/archive")
	viper.SetDefault("archive.gcs.bucket_name", "")

	viper.SetDefault("announce.provider", "noop")
	viper.SetDefault("announce.gcp.project_id", "")
	viper.SetDefault("announce.gcp.topic_id", "")

	viper.SetDefault("ops.listen_addr", ":8080")

	// --- Environment Variables ---
	viper.SetEnvPrefix("STREETLENS") // e.g., STREETLENS_WEBCAM_POST_INTERVAL=30m
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// --- Read Config File ---
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; not fatal, defaults and env vars suffice.
			logging.L.Warn("Config file not found; using defaults and environment variables.")
		} else {
			logging.L.Error("Error reading config file", zap.Error(err))
		}
	} else {
		logging.L.Info("Using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}
