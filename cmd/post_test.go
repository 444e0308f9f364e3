package cmd

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/streetlens/streetlens/internal/announce"
	"github.com/streetlens/streetlens/internal/publisher"
	"github.com/streetlens/streetlens/internal/storage"
)

type capturingPublisher struct {
	calls   int
	caption string
}

func (p *capturingPublisher) Publish(_ context.Context, status, _ string) (publisher.PostRef, error) {
	p.calls++
	p.caption = status
	return publisher.PostRef{ID: "1", URL: "https://social.example/@bot/1"}, nil
}

type mockApp struct {
	pub     *capturingPublisher
	archive *storage.MemoryProvider
	closed  bool
}

func (a *mockApp) Close()                            { a.closed = true }
func (a *mockApp) GetLogger() *zap.Logger            { return zap.NewNop() }
func (a *mockApp) GetPublisher() publisher.Publisher { return a.pub }
func (a *mockApp) GetArchive() storage.Provider      { return a.archive }
func (a *mockApp) GetAnnouncer() announce.Provider   { return announce.NoOpProvider{} }

func swapAppFactory(t *testing.T, factory func(ctx context.Context) (App, error)) {
	t.Helper()
	orig := newApp
	newApp = factory
	t.Cleanup(func() { newApp = orig })
}

func frameJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

// TestPostCommandOnce runs 'streetlens post --once' end to end against local
// servers standing in for the camera directory and a camera.
func TestPostCommandOnce(t *testing.T) {
	frame := frameJPEG(t)
	imageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(frame)
	}))
	defer imageSrv.Close()

	pageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
<img src="` + imageSrv.URL + `/snapshot.jpg?COUNTER">
<div class="camera-details">
	Country:United States
	Country code:US
	Region:Washington
	City:Seattle
</div>
</body></html>`))
	}))
	defer pageSrv.Close()

	sitemapSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<?xml version="1.0"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>` + pageSrv.URL + `/view/123/</loc></url>
</urlset>`))
	}))
	defer sitemapSrv.Close()

	t.Cleanup(viper.Reset)
	viper.Set("webcam.sitemap_url", sitemapSrv.URL)
	viper.Set("webcam.image_root", t.TempDir()+string(os.PathSeparator))
	viper.Set("webcam.retries", 2)
	viper.Set("webcam.failure_backoff_base", "1ms")
	viper.Set("webcam.failure_backoff_max", "2ms")

	app := &mockApp{pub: &capturingPublisher{}, archive: storage.NewMemoryProvider()}
	swapAppFactory(t, func(context.Context) (App, error) { return app, nil })

	cmd := newRootCmd()
	cmd.SetArgs([]string{"post", "--once"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, 1, app.pub.calls)
	assert.Equal(t, "Seattle, Washington \U0001F1FA\U0001F1F8", app.pub.caption)
	assert.Equal(t, 1, app.archive.Len())
	assert.True(t, app.closed, "PersistentPostRun should close the app")
}

func TestRootCommandFailsWhenAppInitFails(t *testing.T) {
	t.Cleanup(viper.Reset)
	swapAppFactory(t, func(context.Context) (App, error) {
		return nil, errors.New("bucket unreachable")
	})

	cmd := newRootCmd()
	cmd.SetArgs([]string{"post", "--once"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize application services")
}
