package memocache

import (
	"context"
	"sync"
	"testing"
	"time"

	pr "github.com/unkn0wn-root/memocache/provider"
	"github.com/unkn0wn-root/memocache/provider/memory"
)

// countingProvider wraps the memory provider and records every call.
type countingProvider struct {
	inner *memory.Provider

	mu      sync.Mutex
	calls   map[string]int
	lastTTL time.Duration
	setKeys [][]string
	fail    error // returned by every operation when set
}

var _ pr.Provider = (*countingProvider)(nil)

func newCountingProvider(t *testing.T) *countingProvider {
	t.Helper()
	p := &countingProvider{
		inner: memory.New(memory.Config{CleanupInterval: -1}),
		calls: make(map[string]int),
	}
	t.Cleanup(func() { _ = p.inner.Close(context.Background()) })
	return p
}

func (p *countingProvider) record(op string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls[op]++
	return p.fail
}

func (p *countingProvider) count(op string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[op]
}

func (p *countingProvider) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = make(map[string]int)
	p.setKeys = nil
}

func (p *countingProvider) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := p.record("Get"); err != nil {
		return nil, false, err
	}
	return p.inner.Get(ctx, key)
}

func (p *countingProvider) GetMulti(ctx context.Context, keys []string) (map[string][]byte, error) {
	if err := p.record("GetMulti"); err != nil {
		return nil, err
	}
	return p.inner.GetMulti(ctx, keys)
}

func (p *countingProvider) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := p.record("Set"); err != nil {
		return err
	}
	p.mu.Lock()
	p.lastTTL = ttl
	p.mu.Unlock()
	return p.inner.Set(ctx, key, value, ttl)
}

func (p *countingProvider) SetMulti(ctx context.Context, items map[string][]byte, ttl time.Duration) error {
	if err := p.record("SetMulti"); err != nil {
		return err
	}
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	p.mu.Lock()
	p.lastTTL = ttl
	p.setKeys = append(p.setKeys, keys)
	p.mu.Unlock()
	return p.inner.SetMulti(ctx, items, ttl)
}

func (p *countingProvider) Delete(ctx context.Context, key string) error {
	if err := p.record("Delete"); err != nil {
		return err
	}
	return p.inner.Delete(ctx, key)
}

func (p *countingProvider) DeleteMulti(ctx context.Context, keys []string) error {
	if err := p.record("DeleteMulti"); err != nil {
		return err
	}
	return p.inner.DeleteMulti(ctx, keys)
}

func (p *countingProvider) DeleteAll(ctx context.Context) error {
	if err := p.record("DeleteAll"); err != nil {
		return err
	}
	return p.inner.DeleteAll(ctx)
}

func (p *countingProvider) Close(context.Context) error { return nil }

// recordingHooks counts hook invocations.
type recordingHooks struct {
	mu            sync.Mutex
	hits, misses  int
	decodeFailed  int
	dirtied       int
	publishFailed int
	lookups       [][2]int
}

var _ Hooks = (*recordingHooks)(nil)

func (h *recordingHooks) Hit(string, string) {
	h.mu.Lock()
	h.hits++
	h.mu.Unlock()
}

func (h *recordingHooks) Miss(string, string) {
	h.mu.Lock()
	h.misses++
	h.mu.Unlock()
}

func (h *recordingHooks) BatchLookup(_ string, requested, missed int) {
	h.mu.Lock()
	h.lookups = append(h.lookups, [2]int{requested, missed})
	h.mu.Unlock()
}

func (h *recordingHooks) DecodeFailed(string, error) {
	h.mu.Lock()
	h.decodeFailed++
	h.mu.Unlock()
}

func (h *recordingHooks) Dirtied(_ string, keys int) {
	h.mu.Lock()
	h.dirtied += keys
	h.mu.Unlock()
}

func (h *recordingHooks) PublishFailed(string, int) {
	h.mu.Lock()
	h.publishFailed++
	h.mu.Unlock()
}
