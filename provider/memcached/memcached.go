package memcached

import (
	"context"
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/unkn0wn-root/memocache/internal/util"
	pr "github.com/unkn0wn-root/memocache/provider"
)

var ErrNoServers = errors.New("memcached provider: no servers configured")

// relativeExpiryLimit is the largest relative expiration memcached accepts; larger
// values are interpreted by the server as absolute unix timestamps.
const relativeExpiryLimit = 30 * 24 * time.Hour

// maxKeyLen is the server's key length limit.
const maxKeyLen = 250

// Client is the subset of *memcache.Client used by the provider.
type Client interface {
	Get(key string) (*memcache.Item, error)
	GetMulti(keys []string) (map[string]*memcache.Item, error)
	Set(item *memcache.Item) error
	Delete(key string) error
	FlushAll() error
}

var _ Client = (*memcache.Client)(nil)

type Memcached struct {
	mc     Client
	prefix string
	now    func() time.Time
}

var _ pr.Provider = (*Memcached)(nil)

type Config struct {
	// Servers is used to build a client when Client is nil.
	Servers      []string
	Timeout      time.Duration
	MaxIdleConns int

	Client Client
	// Prefix scopes keys as "<prefix>:<key>". FlushAll is server-wide regardless.
	// Keys the server would reject (over 250 bytes, or containing spaces or
	// control characters) are stored as "sha256:<hex of the scoped key>".
	Prefix string
}

func New(cfg Config) (*Memcached, error) {
	mc := cfg.Client
	if mc == nil {
		if len(cfg.Servers) == 0 {
			return nil, ErrNoServers
		}
		c := memcache.New(cfg.Servers...)
		if cfg.Timeout > 0 {
			c.Timeout = cfg.Timeout
		}
		if cfg.MaxIdleConns > 0 {
			c.MaxIdleConns = cfg.MaxIdleConns
		}
		mc = c
	}
	return &Memcached{mc: mc, prefix: cfg.Prefix, now: time.Now}, nil
}

func (p *Memcached) Get(_ context.Context, key string) ([]byte, bool, error) {
	it, err := p.mc.Get(p.key(key))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value(it), true, nil
}

func (p *Memcached) GetMulti(_ context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = p.key(k)
	}
	items, err := p.mc.GetMulti(full)
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		if it, ok := items[full[i]]; ok {
			out[k] = value(it)
		}
	}
	return out, nil
}

func (p *Memcached) Set(_ context.Context, key string, v []byte, ttl time.Duration) error {
	return p.mc.Set(&memcache.Item{Key: p.key(key), Value: v, Expiration: p.expiration(ttl)})
}

// SetMulti issues one SET per entry; the text protocol has no multi-set.
func (p *Memcached) SetMulti(ctx context.Context, items map[string][]byte, ttl time.Duration) error {
	exp := p.expiration(ttl)
	for k, v := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.mc.Set(&memcache.Item{Key: p.key(k), Value: v, Expiration: exp}); err != nil {
			return err
		}
	}
	return nil
}

func (p *Memcached) Delete(_ context.Context, key string) error {
	err := p.mc.Delete(p.key(key))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil
	}
	return err
}

func (p *Memcached) DeleteMulti(ctx context.Context, keys []string) error {
	for _, k := range keys {
		if err := p.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

// DeleteAll flushes the whole server pool; memcached cannot scope a flush to a prefix.
func (p *Memcached) DeleteAll(_ context.Context) error {
	return p.mc.FlushAll()
}

func (p *Memcached) Close(_ context.Context) error { return nil }

func (p *Memcached) key(k string) string {
	full := k
	if p.prefix != "" {
		full = p.prefix + ":" + k
	}
	if legalKey(full) {
		return full
	}
	return util.Digest("sha256", []byte(full))
}

func legalKey(k string) bool {
	if len(k) == 0 || len(k) > maxKeyLen {
		return false
	}
	for i := 0; i < len(k); i++ {
		if k[i] <= ' ' || k[i] == 0x7f {
			return false
		}
	}
	return true
}

// expiration converts ttl to memcached seconds. 0 => no expiry; sub-second TTLs round
// up to one second; TTLs over 30 days become absolute unix timestamps.
func (p *Memcached) expiration(ttl time.Duration) int32 {
	if ttl <= 0 {
		return 0
	}
	if ttl > relativeExpiryLimit {
		return int32(p.now().Add(ttl).Unix())
	}
	secs := int32((ttl + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

func value(it *memcache.Item) []byte {
	if it == nil || it.Value == nil {
		return []byte{}
	}
	return it.Value
}
