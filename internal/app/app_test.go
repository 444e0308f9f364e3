package app

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setNoOpProviders(t *testing.T) {
	t.Helper()
	viper.Set("publisher.provider", "noop")
	viper.Set("archive.provider", "noop")
	viper.Set("announce.provider", "noop")
	viper.Set("ops.listen_addr", "127.0.0.1:0")
	t.Cleanup(viper.Reset)
}

func TestNewAppWithNoOpProviders(t *testing.T) {
	setNoOpProviders(t)

	a, err := NewApp(context.Background())
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.GetLogger())
	assert.NotNil(t, a.GetPublisher())
	assert.NotNil(t, a.GetArchive())
	assert.NotNil(t, a.GetAnnouncer())
}

func TestNewAppRejectsUnknownPublisher(t *testing.T) {
	setNoOpProviders(t)
	viper.Set("publisher.provider", "carrier-pigeon")

	_, err := NewApp(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown publisher provider")
}

func TestNewAppRejectsGCSArchiveWithoutBucket(t *testing.T) {
	setNoOpProviders(t)
	viper.Set("archive.provider", "gcs")
	viper.Set("archive.gcs.bucket_name", "")

	_, err := NewApp(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket_name")
}

func TestNewAppRejectsPubSubAnnouncerWithoutTopic(t *testing.T) {
	setNoOpProviders(t)
	viper.Set("announce.provider", "pubsub")
	viper.Set("announce.gcp.project_id", "")

	_, err := NewApp(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project_id or topic_id")
}
