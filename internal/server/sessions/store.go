// Package sessions holds the expiring key-value stores that back session tokens.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrKeyNotFound is returned for keys that were never set, were deleted, or expired.
var ErrKeyNotFound = errors.New("session key not found")

// Store is a key-value store whose entries expire after a per-key TTL.
type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	// Ping reports whether the store is usable.
	Ping(ctx context.Context) error
	Close() error
}

const (
	TypeMemory = "memory"
	TypeBadger = "badger"
)

// Options selects and configures a Store implementation.
type Options struct {
	Type string
	// Dir is the badger data directory. Empty runs badger in memory.
	Dir string
}

// New builds the Store named by opts.Type.
func New(opts Options) (Store, error) {
	switch opts.Type {
	case TypeMemory, "":
		return NewMemoryStore(), nil
	case TypeBadger:
		return NewBadgerStore(opts.Dir)
	default:
		return nil, fmt.Errorf("unknown session store type %q", opts.Type)
	}
}
