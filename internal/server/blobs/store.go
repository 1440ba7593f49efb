// Package blobs stores the byte content of file records. A record keeps only
// the opaque reference returned by Write.
package blobs

import (
	"context"
	"errors"
	"fmt"
)

// ErrBlobNotFound is returned by Read when ref names no stored blob.
var ErrBlobNotFound = errors.New("blob not found")

// Store writes immutable blobs under freshly generated references.
type Store interface {
	Write(ctx context.Context, data []byte) (string, error)
	Read(ctx context.Context, ref string) ([]byte, error)
	Close() error
}

const (
	TypeFilesystem = "filesystem"
	TypeMemory     = "memory"
	TypeS3         = "s3"
)

// Options selects and configures a Store implementation.
type Options struct {
	Type string
	// Dir is the filesystem root, created on first write.
	Dir string
	S3  S3Options
}

// New builds the Store named by opts.Type.
func New(ctx context.Context, opts Options) (Store, error) {
	switch opts.Type {
	case TypeFilesystem, "":
		return NewFSStore(opts.Dir), nil
	case TypeMemory:
		return NewMemoryStore(), nil
	case TypeS3:
		return NewS3Store(ctx, opts.S3)
	default:
		return nil, fmt.Errorf("unknown blob store type %q", opts.Type)
	}
}
