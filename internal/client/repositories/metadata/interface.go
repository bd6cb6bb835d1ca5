// Package metadata stores small opaque values keyed by name in the local
// SQLite database. The session store keeps its persisted identity here.
package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeySession = "session"
)

// Repository reads and writes metadata values. Get returns (nil, nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
