package webcam

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sitemapFixture = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>http://cameras.example.com/view/100/</loc></url>
  <url><loc>http://cameras.example.com/view/200/</loc></url>
  <url><loc>http://cameras.example.com/view/100/</loc></url>
</urlset>`

func loaderConfig(url string) Config {
	return Config{
		SitemapURL: url,
		Retries:    3,
	}
}

func TestLoaderLoad(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(sitemapFixture))
	}))
	defer srv.Close()

	l := NewLoader(loaderConfig(srv.URL), zap.NewNop())
	links, err := l.Load(context.Background())
	require.NoError(t, err)

	// Document order, duplicates preserved.
	assert.Equal(t, []string{
		"http://cameras.example.com/view/100/",
		"http://cameras.example.com/view/200/",
		"http://cameras.example.com/view/100/",
	}, links)
}

func TestLoaderLoadRetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(sitemapFixture))
	}))
	defer srv.Close()

	l := NewLoader(loaderConfig(srv.URL), zap.NewNop())
	links, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, links, 3)
	assert.EqualValues(t, 3, calls.Load())
}

func TestLoaderLoadExhaustsBudget(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	l := NewLoader(loaderConfig(srv.URL), zap.NewNop())
	_, err := l.Load(context.Background())
	require.Error(t, err)

	var discErr *DiscoveryError
	require.True(t, errors.As(err, &discErr), "want DiscoveryError, got %T", err)
	assert.NotNil(t, discErr.Unwrap())
	assert.EqualValues(t, 3, calls.Load())
}

func TestLoaderLoadCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := NewLoader(loaderConfig("http://127.0.0.1:0/sitemap.xml"), zap.NewNop())
	_, err := l.Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
