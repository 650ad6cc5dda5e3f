package drivers

import (
	"time"

	"github.com/unkn0wn-root/memocache/provider/bigcache"
	"github.com/unkn0wn-root/memocache/provider/redis"
	"github.com/unkn0wn-root/memocache/provider/ristretto"
)

// Option mutates Config when opening a provider.
type Option func(Config) Config

// WithPrefix sets the key prefix for shared backends.
func WithPrefix(prefix string) Option {
	return func(cfg Config) Config {
		cfg.Prefix = prefix
		return cfg
	}
}

// WithMemoryCleanupInterval overrides the janitor period of the memory driver.
func WithMemoryCleanupInterval(interval time.Duration) Option {
	return func(cfg Config) Config {
		cfg.Memory.CleanupInterval = interval
		return cfg
	}
}

// WithRedisClient supplies an existing client; required unless an address or URL is set.
func WithRedisClient(client redis.Client) Option {
	return func(cfg Config) Config {
		cfg.Redis.Client = client
		return cfg
	}
}

func WithRedisURL(url string) Option {
	return func(cfg Config) Config {
		cfg.Redis.URL = url
		return cfg
	}
}

func WithRedisAddrs(addrs ...string) Option {
	return func(cfg Config) Config {
		cfg.Redis.Addrs = addrs
		return cfg
	}
}

func WithMemcachedServers(servers ...string) Option {
	return func(cfg Config) Config {
		cfg.Memcached.Servers = servers
		return cfg
	}
}

func WithRistretto(rc ristretto.Config) Option {
	return func(cfg Config) Config {
		cfg.Ristretto = rc
		return cfg
	}
}

func WithBigCache(bc bigcache.Config) Option {
	return func(cfg Config) Config {
		cfg.BigCache = bc
		return cfg
	}
}
