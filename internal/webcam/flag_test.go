package webcam

import "testing"

func TestFlagEmoji(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		code string
		want string
	}{
		{"united states", "US", "\U0001F1FA\U0001F1F8"},
		{"japan", "JP", "\U0001F1EF\U0001F1F5"},
		{"unknown sentinel passes through", "-", "-"},
		{"empty", "", ""},
		{"mixed letters and other chars", "U-", "\U0001F1FA-"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FlagEmoji(tc.code); got != tc.want {
				t.Fatalf("FlagEmoji(%q) = %q, want %q", tc.code, got, tc.want)
			}
		})
	}
}
