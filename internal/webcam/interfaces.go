package webcam

import (
	"context"
	"time"
)

// Fetcher fetches a directory page over plain HTTP.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Page, error)
}

// Renderer fetches a page through a headless browser. Used as a fallback
// when the static fetch is blocked.
type Renderer interface {
	Render(ctx context.Context, rawURL string) (Page, error)
	Close(ctx context.Context) error
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
