// Package cache provides a small key/value cache with per-entry TTLs.
// Values are stored as JSON so every backend decodes into the same shapes.
package cache

import (
	"context"
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache: key not found")

type Cache interface {
	// Get decodes the value stored at key into dest or returns ErrCacheMiss.
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
