package core

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrKeyNotFound means the key is absent: expired or never written.
	ErrKeyNotFound = errors.New("key not found")
	// ErrStoreUnavailable wraps transient store failures. Callers must treat
	// it as "unknown", never as "absent".
	ErrStoreUnavailable = errors.New("store unavailable")
)

// KV is the shared-store port letting coordinator replicas agree on room
// existence and host secrets. Implementations (e.g. Redis) must remain
// stateless and opaque.
type KV interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
}
