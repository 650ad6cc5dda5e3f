package memcached

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/unkn0wn-root/memocache/provider/providertest"
)

type stubClient struct {
	mu      sync.Mutex
	m       map[string]*memcache.Item
	getErr  error
	flushes int
}

var _ Client = (*stubClient)(nil)

func newStubClient() *stubClient { return &stubClient{m: make(map[string]*memcache.Item)} }

func (s *stubClient) Get(key string) (*memcache.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	it, ok := s.m[key]
	if !ok {
		return nil, memcache.ErrCacheMiss
	}
	return it, nil
}

func (s *stubClient) GetMulti(keys []string) (map[string]*memcache.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	out := make(map[string]*memcache.Item)
	for _, k := range keys {
		if it, ok := s.m[k]; ok {
			out[k] = it
		}
	}
	return out, nil
}

func (s *stubClient) Set(item *memcache.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *item
	cp.Value = append([]byte(nil), item.Value...)
	s.m[item.Key] = &cp
	return nil
}

func (s *stubClient) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[key]; !ok {
		return memcache.ErrCacheMiss
	}
	delete(s.m, key)
	return nil
}

func (s *stubClient) FlushAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushes++
	s.m = make(map[string]*memcache.Item)
	return nil
}

func TestMemcachedNoServers(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrNoServers) {
		t.Fatalf("expected ErrNoServers, got %v", err)
	}
}

func TestMemcachedBuildsClientFromServers(t *testing.T) {
	p, err := New(Config{Servers: []string{"127.0.0.1:11211"}, Timeout: time.Second, MaxIdleConns: 4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c, ok := p.mc.(*memcache.Client)
	if !ok {
		t.Fatalf("expected *memcache.Client, got %T", p.mc)
	}
	if c.Timeout != time.Second || c.MaxIdleConns != 4 {
		t.Fatalf("client options not applied: timeout=%v idle=%d", c.Timeout, c.MaxIdleConns)
	}
}

func TestMemcachedContract(t *testing.T) {
	p, err := New(Config{Client: newStubClient(), Prefix: "memo"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// memcached TTLs have one-second resolution; expiry is covered by TestMemcachedExpiration.
	providertest.Run(t, p, providertest.Options{SkipTTL: true})
}

func TestMemcachedExpiration(t *testing.T) {
	fixed := time.Unix(1_700_000_000, 0)
	p := &Memcached{now: func() time.Time { return fixed }}

	cases := []struct {
		name string
		ttl  time.Duration
		want int32
	}{
		{"no expiry", 0, 0},
		{"negative", -time.Second, 0},
		{"sub-second rounds up", 10 * time.Millisecond, 1},
		{"fractional rounds up", 1500 * time.Millisecond, 2},
		{"hour", time.Hour, 3600},
		{"thirty days stays relative", relativeExpiryLimit, int32(relativeExpiryLimit / time.Second)},
		{"over thirty days is absolute", 31 * 24 * time.Hour, int32(fixed.Add(31 * 24 * time.Hour).Unix())},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.expiration(tc.ttl); got != tc.want {
				t.Fatalf("expiration(%v) = %d, want %d", tc.ttl, got, tc.want)
			}
		})
	}
}

func TestMemcachedSetStoresExpiration(t *testing.T) {
	ctx := context.Background()
	client := newStubClient()
	p, _ := New(Config{Client: client})

	if err := p.SetMulti(ctx, map[string][]byte{"a": []byte("1")}, time.Minute); err != nil {
		t.Fatalf("SetMulti: %v", err)
	}
	if got := client.m["a"].Expiration; got != 60 {
		t.Fatalf("expected 60s expiration, got %d", got)
	}
}

func TestMemcachedGetErrorPropagates(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("server down")
	client := newStubClient()
	client.getErr = boom
	p, _ := New(Config{Client: client})

	if _, _, err := p.Get(ctx, "k"); !errors.Is(err, boom) {
		t.Fatalf("Get: expected backend error, got %v", err)
	}
	if _, err := p.GetMulti(ctx, []string{"k"}); !errors.Is(err, boom) {
		t.Fatalf("GetMulti: expected backend error, got %v", err)
	}
}

func TestMemcachedKeysAreAlwaysLegal(t *testing.T) {
	ctx := context.Background()
	client := newStubClient()
	p, _ := New(Config{Client: client, Prefix: "memo"})

	keys := []string{
		"plain",
		"has space",
		"tab\there",
		"newline\n",
		strings.Repeat("k", 300),
		strings.Repeat("k", 245), // fits alone, not with the prefix
	}
	for i, k := range keys {
		if err := p.Set(ctx, k, []byte{byte(i)}, 0); err != nil {
			t.Fatalf("Set(%.20q): %v", k, err)
		}
	}
	if len(client.m) != len(keys) {
		t.Fatalf("expected %d distinct stored keys, got %d", len(keys), len(client.m))
	}
	for stored := range client.m {
		if !legalKey(stored) {
			t.Fatalf("stored illegal key %.40q", stored)
		}
	}
	if _, ok := client.m["memo:plain"]; !ok {
		t.Fatalf("legal keys must keep the readable prefixed form")
	}

	got, err := p.GetMulti(ctx, keys)
	if err != nil {
		t.Fatalf("GetMulti: %v", err)
	}
	for i, k := range keys {
		v, ok, err := p.Get(ctx, k)
		if err != nil || !ok || len(v) != 1 || v[0] != byte(i) {
			t.Fatalf("Get(%.20q) = %v %v %v", k, v, ok, err)
		}
		if mv := got[k]; len(mv) != 1 || mv[0] != byte(i) {
			t.Fatalf("GetMulti[%.20q] = %v", k, mv)
		}
	}
	if err := p.DeleteMulti(ctx, keys); err != nil {
		t.Fatalf("DeleteMulti: %v", err)
	}
	if len(client.m) != 0 {
		t.Fatalf("expected all keys deleted, %d left", len(client.m))
	}
}
