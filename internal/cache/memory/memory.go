// Package memory provides the in-process TTL'd LRU cache implementation.
package memory

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Store is a threadsafe LRU cache with a shared TTL.
type Store struct {
	lru *expirable.LRU[string, any]
}

// New creates a store holding up to maxEntries values for at most ttl.
func New(maxEntries int, ttl time.Duration) *Store {
	if maxEntries <= 0 {
		maxEntries = 128
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{lru: expirable.NewLRU[string, any](maxEntries, nil, ttl)}
}

func (s *Store) Get(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	return s.lru.Get(key)
}

func (s *Store) Set(key string, value any) {
	if s == nil {
		return
	}
	s.lru.Add(key, value)
}
