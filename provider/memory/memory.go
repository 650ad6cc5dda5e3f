package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	pr "github.com/unkn0wn-root/memocache/provider"
)

const defaultCleanupInterval = 10 * time.Minute

// Provider is an in-process store. Expired entries are reported as misses and
// evicted on the read that observes them; a background janitor sweeps the rest.
type Provider struct {
	c *gocache.Cache
}

var _ pr.Provider = (*Provider)(nil)

type Config struct {
	// CleanupInterval is the janitor period. 0 => 10m, negative disables the janitor.
	CleanupInterval time.Duration
}

func New(cfg Config) *Provider {
	interval := cfg.CleanupInterval
	if interval == 0 {
		interval = defaultCleanupInterval
	}
	if interval < 0 {
		interval = 0
	}
	return &Provider{c: gocache.New(gocache.NoExpiration, interval)}
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	return p.get(key)
}

func (p *Provider) get(key string) ([]byte, bool, error) {
	v, found := p.c.Get(key)
	if !found {
		// go-cache hides expired items but keeps them until the janitor runs.
		p.c.Delete(key)
		return nil, false, nil
	}
	b, ok := v.([]byte)
	if !ok {
		p.c.Delete(key)
		return nil, false, nil
	}
	return clone(b), true, nil
}

func (p *Provider) GetMulti(_ context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		if b, ok, _ := p.get(k); ok {
			out[k] = b
		}
	}
	return out, nil
}

func (p *Provider) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	p.c.Set(key, clone(value), expiration(ttl))
	return nil
}

func (p *Provider) SetMulti(_ context.Context, items map[string][]byte, ttl time.Duration) error {
	exp := expiration(ttl)
	for k, v := range items {
		p.c.Set(k, clone(v), exp)
	}
	return nil
}

func (p *Provider) Delete(_ context.Context, key string) error {
	p.c.Delete(key)
	return nil
}

func (p *Provider) DeleteMulti(_ context.Context, keys []string) error {
	for _, k := range keys {
		p.c.Delete(k)
	}
	return nil
}

func (p *Provider) DeleteAll(_ context.Context) error {
	p.c.Flush()
	return nil
}

// Close drops every entry. The janitor goroutine is stopped by go-cache's finalizer.
func (p *Provider) Close(_ context.Context) error {
	p.c.Flush()
	return nil
}

// Len reports the number of stored entries, including expired ones not yet evicted.
func (p *Provider) Len() int { return p.c.ItemCount() }

func expiration(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return gocache.NoExpiration
	}
	return ttl
}

func clone(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
