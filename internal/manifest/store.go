// Package manifest publishes the gateway's resolved plugin manifest as a JSON
// artifact that routing and ops tooling consume. Storage backends share a thin
// S3-like abstraction; unlike user configuration, manifests are derived data
// and are freely overwritten on republish.
package manifest

import (
	"context"
	"io"
	"time"
)

// Driver identifies a concrete manifest storage backend.
type Driver string

const (
	// DriverFilesystem represents the local filesystem implementation.
	DriverFilesystem Driver = "fs" // local filesystem (default, dev)
	// DriverS3 represents an S3 / MinIO compatible implementation.
	DriverS3 Driver = "s3" // S3 / MinIO compatible
	// DriverMemory represents an in-memory implementation typically used in tests.
	DriverMemory Driver = "memory" // in-memory (tests)
)

// PutOptions specifies optional parameters for Put.
type PutOptions struct {
	ContentType string // MIME type, optional
}

// Info describes a stored manifest artifact.
type Info struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size_bytes"`
	ContentType  string    `json:"content_type,omitempty"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// Store is the interface manifest storage backends implement. Put overwrites
// any existing artifact under the key.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]Info, error)
	Driver() Driver
}
