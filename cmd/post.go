// Package cmd defines and implements the CLI commands for the streetlens executable.
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/streetlens/streetlens/internal/clock/system"
	"github.com/streetlens/streetlens/internal/logging"
	"github.com/streetlens/streetlens/internal/webcam"
)

var postOnce bool

// newPostCmd creates and configures the 'post' subcommand.
// It retrieves the application instance from the context, builds the webcam
// pipeline engine, and runs the sample-capture-publish loop.
func newPostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Starts the webcam posting loop",
		Long: `Loads the camera directory sitemap, then repeatedly samples a random
camera, captures a still frame, and publishes it with a location caption.
With --once a single frame is posted and the process exits.`,

		RunE: runPostCommand,
	}
	cmd.Flags().BoolVar(&postOnce, "once", false, "post a single frame and exit")
	return cmd
}

func runPostCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	cfg, err := webcam.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load webcam config: %w", err)
	}

	engine, err := buildEngine(cfg, appInstance)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := engine.Close(cmd.Context()); cerr != nil {
			appInstance.GetLogger().Warn("Failed to close engine", zap.Error(cerr))
		}
	}()

	runErr := engine.Run(cmd.Context(), postOnce)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		var discoveryErr *webcam.DiscoveryError
		if errors.As(runErr, &discoveryErr) {
			return fmt.Errorf("camera discovery failed: %w", runErr)
		}
		return fmt.Errorf("run posting loop: %w", runErr)
	}

	logging.L.Info("Post command finished.")
	return nil
}

func buildEngine(cfg webcam.Config, appInstance App) (*webcam.Engine, error) {
	logger := appInstance.GetLogger()

	fetcher, err := webcam.NewCollyFetcher(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init fetcher: %w", err)
	}

	renderer, err := buildRenderer(cfg, logger)
	if err != nil {
		return nil, err
	}

	loader := webcam.NewLoader(cfg, logger)
	resolver := webcam.NewResolver(fetcher, renderer, logger)
	selector := webcam.NewSelector(resolver, cfg.MaxSelectAttempts, logger)
	capturer := webcam.NewCapturer(cfg, logger)

	engine := webcam.NewEngine(
		cfg,
		loader,
		selector,
		capturer,
		appInstance.GetPublisher(),
		appInstance.GetArchive(),
		appInstance.GetAnnouncer(),
		system.New(),
		logger,
	)
	return engine, nil
}

func buildRenderer(cfg webcam.Config, logger *zap.Logger) (webcam.Renderer, error) {
	if !cfg.RenderFallbackEnabled {
		return nil, nil
	}
	renderer, err := webcam.NewChromedpRenderer(cfg, logger)
	switch {
	case err == nil:
		return renderer, nil
	case errors.Is(err, webcam.ErrRendererDisabled):
		logger.Warn("Renderer disabled despite feature flag; static fetch only")
		return nil, nil
	default:
		return nil, fmt.Errorf("init renderer: %w", err)
	}
}
