package webcam

import "strings"

// detailLabels is the full set of labels the camera-details block may carry.
// The extractor treats any of them as a value terminator, so it does not
// depend on the order in which the site lists the fields.
var detailLabels = []string{
	"Country:",
	"Country code:",
	"Region:",
	"City:",
	"Latitude:",
	"Longitude:",
	"ZIP:",
	"Timezone:",
}

// ParseDetails extracts the location fields from the flattened details
// block. A field whose label is missing, or whose value is empty, comes back
// as the UnknownField sentinel.
func ParseDetails(details string) Location {
	return Location{
		City:        extractField(details, "City:"),
		Region:      extractField(details, "Region:"),
		Country:     extractField(details, "Country:"),
		CountryCode: extractField(details, "Country code:"),
	}
}

// extractField returns the text between label and the nearest following
// known label (or end of input).
func extractField(details, label string) string {
	idx := strings.Index(details, label)
	if idx < 0 {
		return UnknownField
	}
	start := idx + len(label)
	end := len(details)
	for _, other := range detailLabels {
		if other == label {
			continue
		}
		if idx := strings.Index(details[start:], other); idx >= 0 && start+idx < end {
			end = start + idx
		}
	}
	value := strings.TrimSpace(details[start:end])
	if value == "" {
		return UnknownField
	}
	return value
}

// countryReplacements shortens verbose official country names to common
// usage. Each rule is independent; the patterns do not overlap in practice.
var countryReplacements = []struct {
	old string
	new string
}{
	{", Province Of", ""},
	{", Republic Of", ""},
	{", Islamic Republic", ""},
	{"n Federation", ""},
	{"ian, State Of", "e"},
}

// NormalizeCountry applies the fixed replacement table to a country name.
func NormalizeCountry(name string) string {
	for _, r := range countryReplacements {
		name = strings.ReplaceAll(name, r.old, r.new)
	}
	return name
}

// ComposeLocation builds the human-readable caption from the scraped
// location fields and the already-encoded flag glyphs.
func ComposeLocation(info Location, flag string) string {
	city := info.City
	if city == UnknownField {
		city = "Unknown"
	}
	region := info.Region
	if region == UnknownField {
		region = "Unknown"
	}
	country := "Unknown"
	if info.Country != UnknownField {
		country = NormalizeCountry(info.Country)
	}

	var location string
	switch country {
	case "United States":
		location = city + ", " + region
	case "Canada":
		location = city + ", " + region + ", " + country
	default:
		location = city + ", " + country
	}

	switch {
	case city == "Unknown" && region == "Unknown" && country == "United States":
		return "Unknown, United States " + flag
	case location == "Unknown, Unknown":
		// Country itself was unknown, so the flag would be garbage.
		return "Unknown Location"
	default:
		return location + " " + flag
	}
}
