package webcam

// Regional indicator symbols occupy U+1F1E6..U+1F1FF, one per letter A-Z.
// Two of them side by side render as a national flag in compliant renderers.
const regionalIndicatorBase = 0x1F1E6

// FlagEmoji maps a 2-letter country code to its pair of regional-indicator
// glyphs. Characters outside A-Z (such as the "-" unknown sentinel) pass
// through unchanged.
func FlagEmoji(countryCode string) string {
	out := make([]rune, 0, len(countryCode))
	for _, c := range countryCode {
		if c >= 'A' && c <= 'Z' {
			out = append(out, regionalIndicatorBase+c-'A')
			continue
		}
		out = append(out, c)
	}
	return string(out)
}
