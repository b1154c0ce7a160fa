package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// memoryStore is an in-process expirable LRU used when Redis is unavailable.
// Entries share the TTL given at construction.
type memoryStore struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemoryStore returns a Store holding at most size entries for ttl each.
func NewMemoryStore(size int, ttl time.Duration) Store {
	if size <= 0 {
		size = 1
	}
	return &memoryStore{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, ok := s.lru.Get(key)
	return b, ok, nil
}

func (s *memoryStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.lru.Add(key, value)
	return nil
}

func (s *memoryStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		s.lru.Remove(key)
	}
	return nil
}

func (s *memoryStore) Ping(context.Context) error {
	return nil
}
