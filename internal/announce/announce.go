// Package announce pushes a small note about each successful post to an
// external channel, for downstream consumers that want to react to posts
// without polling the social platform.
package announce

import (
	"context"
	"time"
)

// Note describes one successful post.
type Note struct {
	CycleID  string    `json:"cycle_id"`
	CameraID string    `json:"camera_id"`
	Location string    `json:"location"`
	PostID   string    `json:"post_id"`
	PostURL  string    `json:"post_url"`
	PostedAt time.Time `json:"posted_at"`
}

// Provider delivers notes to the configured channel.
type Provider interface {
	Announce(ctx context.Context, note Note) error
	Close() error
}

// NoOpProvider is an announcer that discards every note.
type NoOpProvider struct{}

// Announce for NoOpProvider does nothing and always returns nil.
func (NoOpProvider) Announce(_ context.Context, _ Note) error { return nil }

// Close for NoOpProvider does nothing.
func (NoOpProvider) Close() error { return nil }
