package identity

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache defaults.
const (
	DefaultCacheSize = 100
	DefaultCacheTTL  = 10 * time.Minute
)

// Cache is a bounded, expiring map from account hash to account info.
// It is safe for concurrent use and implements Lookup.
type Cache struct {
	lru *expirable.LRU[string, AccountInfo]
}

// NewCache creates a cache. Non-positive arguments select the defaults.
func NewCache(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{lru: expirable.NewLRU[string, AccountInfo](size, nil, ttl)}
}

// Get returns the record for accountHash, if present and not expired.
func (c *Cache) Get(accountHash string) (AccountInfo, bool) {
	return c.lru.Get(strings.ToLower(accountHash))
}

// Set inserts or refreshes the record for accountHash.
func (c *Cache) Set(accountHash string, info AccountInfo) {
	c.lru.Add(strings.ToLower(accountHash), info)
}

// Contains reports whether accountHash is cached without touching recency.
func (c *Cache) Contains(accountHash string) bool {
	return c.lru.Contains(strings.ToLower(accountHash))
}

// Len returns the number of cached records.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Purge drops every record.
func (c *Cache) Purge() {
	c.lru.Purge()
}
