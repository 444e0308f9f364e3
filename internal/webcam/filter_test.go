package webcam

import "testing"

func TestValidStreamURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		url   string
		valid bool
	}{
		{"absent", "", false},
		{"placeholder", "/static/no.jpg", false},
		{"live stream marker", "http://203.0.113.1/video.jpg?stream", false},
		{"no still extension", "http://203.0.113.1/mjpg/video.mjpg", false},
		{"plain still", "http://203.0.113.1/snapshot.jpg", true},
		{"still with path digits", "http://203.0.113.7:8080/cam_1.jpg", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidStreamURL(tc.url); got != tc.valid {
				t.Fatalf("ValidStreamURL(%q) = %v, want %v", tc.url, got, tc.valid)
			}
		})
	}
}
