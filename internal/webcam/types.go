package webcam

// UnknownField is the sentinel the directory site uses for fields it has no
// value for. Parsing keeps it so downstream formatting has one unknown marker.
const UnknownField = "-"

// Location holds the scraped location fields of a camera page. Fields the
// page does not carry are set to UnknownField.
type Location struct {
	City        string
	Region      string
	Country     string
	CountryCode string
}

// Candidate is one camera link drawn from the discovery pool, resolved
// best-effort. A zero PageContent or StreamURL means the corresponding
// resolution step failed; the candidate is then unfit for capture.
type Candidate struct {
	URL         string
	ID          string
	PageContent []byte
	StreamURL   string
	RawDetails  string
	Location    *Location
}

// Page is the result of fetching a single directory page.
type Page struct {
	URL        string
	StatusCode int
	Body       []byte
	Rendered   bool
}
