// Package drivers builds a provider.Provider from configuration.
package drivers

import (
	"time"

	"github.com/unkn0wn-root/memocache/provider/bigcache"
	"github.com/unkn0wn-root/memocache/provider/memcached"
	"github.com/unkn0wn-root/memocache/provider/memory"
	"github.com/unkn0wn-root/memocache/provider/redis"
	"github.com/unkn0wn-root/memocache/provider/ristretto"
)

// Driver names a storage backend.
type Driver string

const (
	DriverMemory    Driver = "memory"
	DriverRedis     Driver = "redis"
	DriverMemcached Driver = "memcached"
	DriverRistretto Driver = "ristretto"
	DriverBigCache  Driver = "bigcache"
)

const (
	defaultMemoryCleanupInterval = 10 * time.Minute
	defaultBigCacheLifeWindow    = time.Hour
	defaultBigCacheShards        = 64
	defaultBigCacheEntries       = 10000
	defaultBigCacheEntrySize     = 512
	defaultRistrettoCounters     = 1e5
	defaultRistrettoMaxCost      = 64 << 20
	defaultRistrettoBufferItems  = 64
)

// Config controls how a provider is constructed. Only the section matching
// Driver is read.
type Config struct {
	Driver Driver

	// Prefix scopes keys on shared backends (redis, memcached).
	Prefix string

	Memory    memory.Config
	Redis     RedisConfig
	Memcached memcached.Config
	Ristretto ristretto.Config
	BigCache  bigcache.Config
}

// RedisConfig either carries a ready client or the data to build one.
type RedisConfig struct {
	// Client wins over URL and Addrs. The provider never closes it.
	Client redis.Client

	// URL is parsed with redis.ParseURL, e.g. "redis://:pass@localhost:6379/2".
	URL string

	Addrs    []string
	Username string
	Password string
	DB       int
}

func (c Config) withDefaults() Config {
	if c.Driver == "" {
		c.Driver = DriverMemory
	}
	if c.Memory.CleanupInterval == 0 {
		c.Memory.CleanupInterval = defaultMemoryCleanupInterval
	}
	if c.Memcached.Prefix == "" {
		c.Memcached.Prefix = c.Prefix
	}
	if c.Ristretto.NumCounters <= 0 {
		c.Ristretto.NumCounters = defaultRistrettoCounters
	}
	if c.Ristretto.MaxCost <= 0 {
		c.Ristretto.MaxCost = defaultRistrettoMaxCost
	}
	if c.Ristretto.BufferItems <= 0 {
		c.Ristretto.BufferItems = defaultRistrettoBufferItems
	}
	if c.BigCache.LifeWindow <= 0 {
		c.BigCache.LifeWindow = defaultBigCacheLifeWindow
	}
	// bigcache preallocates Shards * (Entries/Shards) * EntrySize bytes
	if c.BigCache.Shards <= 0 {
		c.BigCache.Shards = defaultBigCacheShards
	}
	if c.BigCache.MaxEntriesInWindow <= 0 {
		c.BigCache.MaxEntriesInWindow = defaultBigCacheEntries
	}
	if c.BigCache.MaxEntrySize <= 0 {
		c.BigCache.MaxEntrySize = defaultBigCacheEntrySize
	}
	return c
}
