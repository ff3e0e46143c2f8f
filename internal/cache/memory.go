package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type item struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache is an in-process LRU cache used when Redis is not configured.
type MemoryCache struct {
	lru *lru.Cache[string, item]
	now func() time.Time
}

func NewMemoryCache(size int) (*MemoryCache, error) {
	if size <= 0 {
		size = 1000
	}
	l, err := lru.New[string, item](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &MemoryCache{lru: l, now: time.Now}, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	it := item{data: data}
	if ttl > 0 {
		it.expiresAt = m.now().Add(ttl)
	}
	m.lru.Add(key, it)
	return nil
}

func (m *MemoryCache) Get(_ context.Context, key string, dest any) error {
	it, ok := m.lru.Get(key)
	if !ok {
		return ErrCacheMiss
	}
	if !it.expiresAt.IsZero() && m.now().After(it.expiresAt) {
		m.lru.Remove(key)
		return ErrCacheMiss
	}
	return json.Unmarshal(it.data, dest)
}

func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.lru.Remove(k)
	}
	return nil
}
