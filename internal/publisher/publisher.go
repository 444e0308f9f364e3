// Package publisher defines the boundary to the social platform the bot
// posts to, plus implementations of it.
package publisher

import "context"

// PostRef identifies a published post.
type PostRef struct {
	ID  string
	URL string
}

// Publisher posts a text caption with one image attachment.
type Publisher interface {
	Publish(ctx context.Context, status string, imagePath string) (PostRef, error)
}

// NoOpPublisher is a dry-run publisher that accepts every post and discards
// it. Useful for testing the pipeline without platform credentials.
type NoOpPublisher struct{}

// Publish for NoOpPublisher does nothing and reports success.
func (NoOpPublisher) Publish(_ context.Context, _ string, _ string) (PostRef, error) {
	return PostRef{ID: "dry-run"}, nil
}
