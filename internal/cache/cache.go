// Package cache provides the TTL-bound key/value store used to
// memoize search responses.
package cache

import (
	"context"
	"time"
)

// Store is a TTL key/value cache. Get returns found=false for both
// missing and expired entries. Set overwrites any existing entry and
// restarts its TTL.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Close() error
}
