package cache

import (
	"context"
	"time"

	"github.com/KeenanSylo/TreasureHunt/pkg/upstash"
)

// UpstashStore implements Store over an Upstash Redis REST endpoint,
// for deployments where multiple instances share one cache.
type UpstashStore struct {
	client upstash.Client
}

// NewUpstash wraps an Upstash client as a Store.
func NewUpstash(client upstash.Client) *UpstashStore {
	return &UpstashStore{client: client}
}

func (s *UpstashStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.client.Get(ctx, key)
}

func (s *UpstashStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, int(ttl.Seconds()))
}

func (s *UpstashStore) Close() error {
	return nil
}
