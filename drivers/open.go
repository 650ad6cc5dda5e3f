package drivers

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	pr "github.com/unkn0wn-root/memocache/provider"
	"github.com/unkn0wn-root/memocache/provider/bigcache"
	"github.com/unkn0wn-root/memocache/provider/memcached"
	"github.com/unkn0wn-root/memocache/provider/memory"
	"github.com/unkn0wn-root/memocache/provider/redis"
	"github.com/unkn0wn-root/memocache/provider/ristretto"
)

var ErrUnknownDriver = errors.New("drivers: unknown driver")

// Open returns the provider for cfg.Driver.
//
// Example:
//
//	p, err := drivers.Open(ctx, drivers.Config{
//		Driver: drivers.DriverRedis,
//		Prefix: "app",
//		Redis:  drivers.RedisConfig{URL: "redis://localhost:6379/0"},
//	})
func Open(ctx context.Context, cfg Config) (pr.Provider, error) {
	cfg = cfg.withDefaults()
	var (
		p   pr.Provider
		err error
	)
	switch cfg.Driver {
	case DriverMemory:
		p = memory.New(cfg.Memory)
	case DriverRedis:
		p, err = openRedis(cfg)
	case DriverMemcached:
		p, err = memcached.New(cfg.Memcached)
	case DriverRistretto:
		p, err = ristretto.New(cfg.Ristretto)
	case DriverBigCache:
		p, err = bigcache.New(ctx, cfg.BigCache)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("drivers: open %s: %w", cfg.Driver, err)
	}
	return p, nil
}

// OpenWith builds the provider for driver from functional options.
func OpenWith(ctx context.Context, driver Driver, opts ...Option) (pr.Provider, error) {
	cfg := Config{Driver: driver}
	for _, opt := range opts {
		cfg = opt(cfg)
	}
	return Open(ctx, cfg)
}

func openRedis(cfg Config) (pr.Provider, error) {
	rc := cfg.Redis
	if rc.Client != nil {
		return redis.New(redis.Config{Client: rc.Client, Prefix: cfg.Prefix})
	}
	var client goredis.UniversalClient
	switch {
	case rc.URL != "":
		opt, err := goredis.ParseURL(rc.URL)
		if err != nil {
			return nil, err
		}
		client = goredis.NewClient(opt)
	case len(rc.Addrs) > 0:
		client = goredis.NewUniversalClient(&goredis.UniversalOptions{
			Addrs:    rc.Addrs,
			Username: rc.Username,
			Password: rc.Password,
			DB:       rc.DB,
		})
	default:
		return nil, redis.ErrNilClient
	}
	// built here, so the provider owns it
	return redis.New(redis.Config{Client: client, Prefix: cfg.Prefix, CloseClient: true})
}
