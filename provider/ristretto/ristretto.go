package ristretto

import (
	"context"
	"errors"
	"time"

	rc "github.com/dgraph-io/ristretto"

	pr "github.com/unkn0wn-root/memocache/provider"
)

// Provider stores entries in a Ristretto cache. Writes are followed by Wait so a
// memoized value is visible to the very next call.
type Provider struct {
	c *rc.Cache
}

var _ pr.Provider = (*Provider)(nil)

type Config struct {
	NumCounters int64
	MaxCost     int64 // total bytes of values (cost = len(value))
	BufferItems int64
	Metrics     bool
}

func New(cfg Config) (*Provider, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Provider{c: c}, nil
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, ok := p.get(key)
	return b, ok, nil
}

func (p *Provider) get(key string) ([]byte, bool) {
	v, ok := p.c.Get(key)
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	if !ok {
		// self-heal: drop unexpected entry shape
		p.c.Del(key)
		return nil, false
	}
	return b, true
}

func (p *Provider) GetMulti(_ context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		if b, ok := p.get(k); ok {
			out[k] = b
		}
	}
	return out, nil
}

// Set may be dropped by Ristretto's admission policy under pressure; that is a
// cache miss later, not an error.
func (p *Provider) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	p.set(key, value, ttl)
	p.c.Wait()
	return nil
}

func (p *Provider) SetMulti(_ context.Context, items map[string][]byte, ttl time.Duration) error {
	for k, v := range items {
		p.set(k, v, ttl)
	}
	p.c.Wait()
	return nil
}

func (p *Provider) set(key string, value []byte, ttl time.Duration) {
	if ttl < 0 {
		ttl = 0 // ristretto rejects negative TTLs; 0 means no expiry
	}
	if value == nil {
		value = []byte{}
	}
	p.c.SetWithTTL(key, value, int64(len(value)), ttl)
}

func (p *Provider) Delete(_ context.Context, key string) error {
	p.c.Del(key)
	return nil
}

func (p *Provider) DeleteMulti(_ context.Context, keys []string) error {
	for _, k := range keys {
		p.c.Del(k)
	}
	return nil
}

func (p *Provider) DeleteAll(_ context.Context) error {
	p.c.Clear()
	return nil
}

func (p *Provider) Close(_ context.Context) error {
	p.c.Wait()
	p.c.Close()
	return nil
}

// Helper to expose metrics if desired by the application (not part of provider.Provider).
func (p *Provider) Metrics() *rc.Metrics { return p.c.Metrics }
