package webcam

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const cameraPageFixture = `<html><body>
<img src="http://203.0.113.9:8080/snapshot.jpg?COUNTER" alt="camera">
<div class="camera-details">
	Country:United States
	Country code:US
</div>
<div class="camera-details">
	Region:Washington
	City:Seattle
</div>
</body></html>`

type stubFetcher struct {
	page Page
	err  error
}

func (f stubFetcher) Fetch(_ context.Context, rawURL string) (Page, error) {
	if f.err != nil {
		return Page{}, f.err
	}
	page := f.page
	page.URL = rawURL
	return page, nil
}

type stubRenderer struct {
	page   Page
	err    error
	closed bool
}

func (r *stubRenderer) Render(_ context.Context, rawURL string) (Page, error) {
	if r.err != nil {
		return Page{}, r.err
	}
	page := r.page
	page.URL = rawURL
	page.Rendered = true
	return page, nil
}

func (r *stubRenderer) Close(context.Context) error {
	r.closed = true
	return nil
}

func TestResolverResolve(t *testing.T) {
	t.Parallel()

	fetcher := stubFetcher{page: Page{StatusCode: 200, Body: []byte(cameraPageFixture)}}
	r := NewResolver(fetcher, nil, zap.NewNop())

	cand := r.Resolve(context.Background(), "http://cameras.example.com/view/100200/")

	assert.Equal(t, "100200", cand.ID)
	// The cache buster must be stripped from the first image source.
	assert.Equal(t, "http://203.0.113.9:8080/snapshot.jpg", cand.StreamURL)
	// Both details blocks flattened: newlines and tabs stripped, fragments
	// trimmed and concatenated.
	assert.Equal(t, "Country:United StatesCountry code:USRegion:WashingtonCity:Seattle", cand.RawDetails)
	require.NotNil(t, cand.Location)
	assert.Equal(t, Location{City: "Seattle", Region: "Washington", Country: "United States", CountryCode: "US"}, *cand.Location)
}

func TestResolverResolveFetchFailure(t *testing.T) {
	t.Parallel()

	fetcher := stubFetcher{err: errors.New("connection refused")}
	r := NewResolver(fetcher, nil, zap.NewNop())

	cand := r.Resolve(context.Background(), "http://cameras.example.com/view/42/")

	assert.Equal(t, "42", cand.ID)
	assert.Empty(t, cand.PageContent)
	assert.Empty(t, cand.StreamURL)
	assert.Nil(t, cand.Location)
}

func TestResolverRendererFallback(t *testing.T) {
	t.Parallel()

	fetcher := stubFetcher{err: errors.New("403 forbidden")}
	renderer := &stubRenderer{page: Page{StatusCode: 200, Body: []byte(cameraPageFixture)}}
	r := NewResolver(fetcher, renderer, zap.NewNop())

	cand := r.Resolve(context.Background(), "http://cameras.example.com/view/7/")
	assert.Equal(t, "http://203.0.113.9:8080/snapshot.jpg", cand.StreamURL)

	require.NoError(t, r.Close(context.Background()))
	assert.True(t, renderer.closed)
}

func TestResolverPageWithoutImage(t *testing.T) {
	t.Parallel()

	fetcher := stubFetcher{page: Page{StatusCode: 200, Body: []byte("<html><body><p>gone</p></body></html>")}}
	r := NewResolver(fetcher, nil, zap.NewNop())

	cand := r.Resolve(context.Background(), "http://cameras.example.com/view/9/")
	assert.NotEmpty(t, cand.PageContent)
	assert.Empty(t, cand.StreamURL)
	assert.Empty(t, cand.RawDetails)
}

func TestCameraID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		url  string
		want string
	}{
		{"http://cameras.example.com/view/100200/", "100200"},
		{"http://cameras.example.com/view/1/extra/2", "12"},
		{"http://cameras.example.com/view/none/", ""},
	}
	for _, tc := range cases {
		t.Run(tc.url, func(t *testing.T) {
			if got := CameraID(tc.url); got != tc.want {
				t.Fatalf("CameraID(%q) = %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}
