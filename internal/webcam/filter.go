package webcam

import "strings"

const (
	// placeholderPath is what the directory serves when a camera is offline.
	placeholderPath = "/static/no.jpg"
	// streamMarker flags a live-stream endpoint rather than a still image.
	streamMarker = "?stream"
	// stillExtension must be present for the endpoint to yield a still.
	stillExtension = ".jpg"
)

// ValidStreamURL reports whether a resolved stream URL points at a usable
// still-image endpoint. An absent URL is never valid.
func ValidStreamURL(streamURL string) bool {
	if streamURL == "" {
		return false
	}
	if streamURL == placeholderPath {
		return false
	}
	if strings.Contains(streamURL, streamMarker) {
		return false
	}
	return strings.Contains(streamURL, stillExtension)
}
