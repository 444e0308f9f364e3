// Package storage defines the interfaces for a blob storage provider used
// to archive posted frames. The abstraction keeps the pipeline independent
// of a specific implementation (GCS, local filesystem, or in-memory).
package storage

import (
	"context"
)

// Provider defines the common interface for a blob storage provider.
type Provider interface {
	// Save uploads data to a specified object path/key in the blob store.
	Save(ctx context.Context, objectName string, data []byte) error
}

// NoOpProvider is a storage provider that performs no operations. It is the
// default: archiving is opt-in, the posted frame stays on local disk.
type NoOpProvider struct{}

// Save for NoOpProvider does nothing and always returns nil.
func (n *NoOpProvider) Save(_ context.Context, _ string, _ []byte) error {
	return nil
}
