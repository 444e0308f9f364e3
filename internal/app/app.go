// Package app initializes and holds long-lived application services, acting
// as a dependency injection container.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/streetlens/streetlens/internal/announce"
	"github.com/streetlens/streetlens/internal/api"
	"github.com/streetlens/streetlens/internal/logging"
	"github.com/streetlens/streetlens/internal/metrics"
	"github.com/streetlens/streetlens/internal/publisher"
	"github.com/streetlens/streetlens/internal/storage"
)

// App holds all the shared, long-lived services for the application: the
// logger, the social publisher, the frame archive, and the post announcer.
// It is initialized once at startup and handed to the pipeline.
type App struct {
	logger    *zap.Logger
	publisher publisher.Publisher
	archive   storage.Provider
	announcer announce.Provider
	opsServer *http.Server
}

// GetLogger returns the shared zap logger instance.
func (a *App) GetLogger() *zap.Logger {
	return a.logger
}

// GetPublisher exposes the configured social publisher.
func (a *App) GetPublisher() publisher.Publisher {
	return a.publisher
}

// GetArchive exposes the configured frame archive provider.
func (a *App) GetArchive() storage.Provider {
	return a.archive
}

// GetAnnouncer exposes the configured post announcer.
func (a *App) GetAnnouncer() announce.Provider {
	return a.announcer
}

// NewApp creates and initializes a new App based on the application's
// configuration. It reads provider choices from Viper, instantiates the
// matching implementations, and fails fast if any critical service cannot
// be initialized.
func NewApp(ctx context.Context) (*App, error) {
	l := logging.L
	l.Info("Initializing application services...")

	pub, err := buildPublisher(l)
	if err != nil {
		return nil, err
	}

	archive, err := buildArchive(ctx, l)
	if err != nil {
		return nil, err
	}

	announcer, err := buildAnnouncer(ctx, l)
	if err != nil {
		return nil, err
	}

	metrics.Init()

	// The ops server only serves health probes, metrics, and the last post.
	opsServer := &http.Server{
		Addr:    viper.GetString("ops.listen_addr"),
		Handler: api.NewServer(l).Handler(),
	}
	go func() {
		l.Info("Starting ops server", zap.String("addr", opsServer.Addr))
		if serveErr := opsServer.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			l.Error("Ops server failed", zap.Error(serveErr))
		}
	}()

	l.Info("Application services initialized successfully.")
	return &App{
		logger:    l,
		publisher: pub,
		archive:   archive,
		announcer: announcer,
		opsServer: opsServer,
	}, nil
}

// Close shuts down the long-lived services.
func (a *App) Close() {
	if a.opsServer != nil {
		if err := a.opsServer.Close(); err != nil {
			a.logger.Warn("Failed to close ops server", zap.Error(err))
		}
	}
	if a.announcer != nil {
		if err := a.announcer.Close(); err != nil {
			a.logger.Warn("Failed to close announcer", zap.Error(err))
		}
	}
	_ = a.logger.Sync() //nolint:errcheck // best-effort flush
}

func buildPublisher(l *zap.Logger) (publisher.Publisher, error) {
	providerType := viper.GetString("publisher.provider")
	switch providerType {
	case "http":
		cfg := publisher.Config{
			BaseURL:     viper.GetString("publisher.http.base_url"),
			AccessToken: viper.GetString("publisher.http.access_token"),
			Timeout:     viper.GetDuration("publisher.http.timeout"),
		}
		l.Info("Using HTTP publisher", zap.String("base_url", cfg.BaseURL))
		return publisher.NewHTTPPublisher(cfg, l)
	case "noop":
		l.Info("Using No-Op publisher. Posts will be discarded (dry run).")
		return publisher.NoOpPublisher{}, nil
	default:
		return nil, fmt.Errorf("unknown publisher provider: %s", providerType)
	}
}

func buildArchive(ctx context.Context, l *zap.Logger) (storage.Provider, error) {
	providerType := viper.GetString("archive.provider")
	switch providerType {
	case "gcs":
		bucketName := viper.GetString("archive.gcs.bucket_name")
		if bucketName == "" {
			return nil, fmt.Errorf("archive provider is 'gcs' but archive.gcs.bucket_name is not set")
		}
		l.Info("Using GCS archive provider", zap.String("bucket", bucketName))
		return storage.NewGCSProvider(ctx, bucketName)
	case "local":
		baseDir := viper.GetString("archive.local.base_dir")
		l.Info("Using local archive provider", zap.String("dir", baseDir))
		return storage.NewLocalProvider(baseDir)
	case "noop":
		l.Info("Using No-Op archive provider. Frames will not be archived.")
		return &storage.NoOpProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown archive provider: %s", providerType)
	}
}

func buildAnnouncer(ctx context.Context, l *zap.Logger) (announce.Provider, error) {
	providerType := viper.GetString("announce.provider")
	switch providerType {
	case "pubsub":
		projectID := viper.GetString("announce.gcp.project_id")
		topicID := viper.GetString("announce.gcp.topic_id")
		if projectID == "" || topicID == "" {
			return nil, fmt.Errorf("announce provider is 'pubsub' but project_id or topic_id is not set")
		}
		l.Info("Connecting to GCP Pub/Sub", zap.String("topic", topicID))
		return announce.NewPubSubProvider(ctx, projectID, topicID)
	case "noop":
		l.Info("Using No-Op announcer. No messages will be sent.")
		return announce.NoOpProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown announce provider: %s", providerType)
	}
}
