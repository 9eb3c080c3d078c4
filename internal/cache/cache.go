package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned when a key is not present in the cache.
var ErrMiss = errors.New("cache: key not found")

// QueryCache is a short-TTL byte cache in front of the read endpoints.
// Implementations must treat failures as misses; a broken cache degrades
// to direct reads, never to an error.
type QueryCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Disabled is the no-op cache used when Redis is not configured.
type Disabled struct{}

// NewDisabled creates the no-op cache
func NewDisabled() QueryCache {
	return Disabled{}
}

func (Disabled) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, ErrMiss
}

func (Disabled) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (Disabled) Delete(ctx context.Context, key string) error {
	return nil
}
