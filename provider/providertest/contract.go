// Package providertest holds a backend-agnostic contract suite for provider.Provider
// implementations.
package providertest

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/unkn0wn-root/memocache/provider"
)

// Options configures the shared contract checks.
type Options struct {
	// CaseName namespaces keys. Defaults to t.Name().
	CaseName string
	// SkipTTL disables the expiry assertion (e.g. BigCache has no per-entry TTL).
	SkipTTL bool
	// TTL is the expiry used by the TTL check. Defaults to 50ms.
	TTL time.Duration
	// TTLWait is how long the suite waits for expiry. Defaults to 150ms.
	TTLWait time.Duration
}

// Run executes the contract suite against p. The provider is wiped with DeleteAll
// before and after the run.
func Run(t *testing.T, p provider.Provider, opts Options) {
	t.Helper()

	caseName := opts.CaseName
	if caseName == "" {
		caseName = t.Name()
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 50 * time.Millisecond
	}
	wait := opts.TTLWait
	if wait <= 0 {
		wait = 150 * time.Millisecond
	}

	ctx := context.Background()
	key := func(s string) string {
		return sanitize(caseName) + ":" + s
	}

	if err := p.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll (setup): %v", err)
	}
	t.Cleanup(func() { _ = p.DeleteAll(ctx) })

	// miss on empty store
	if v, ok, err := p.Get(ctx, key("missing")); err != nil || ok {
		t.Fatalf("Get on empty store: ok=%v err=%v v=%q", ok, err, v)
	}

	// single round-trip
	if err := p.Set(ctx, key("alpha"), []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := p.Get(ctx, key("alpha"))
	if err != nil || !ok || string(got) != "value" {
		t.Fatalf("Get after Set: ok=%v err=%v v=%q", ok, err, got)
	}

	// empty values are present, not absent
	if err := p.Set(ctx, key("empty"), []byte{}, time.Minute); err != nil {
		t.Fatalf("Set empty: %v", err)
	}
	if _, ok, err := p.Get(ctx, key("empty")); err != nil || !ok {
		t.Fatalf("Get empty value should hit: ok=%v err=%v", ok, err)
	}

	// overwrite
	if err := p.Set(ctx, key("alpha"), []byte("value2"), time.Minute); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	if got, _, _ := p.Get(ctx, key("alpha")); string(got) != "value2" {
		t.Fatalf("overwrite not visible, got %q", got)
	}

	// delete, including an absent key
	if err := p.Delete(ctx, key("alpha")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := p.Get(ctx, key("alpha")); ok {
		t.Fatalf("expected miss after Delete")
	}
	if err := p.Delete(ctx, key("never-set")); err != nil {
		t.Fatalf("Delete of absent key should not fail: %v", err)
	}

	// bulk round-trip
	items := map[string][]byte{
		key("b1"): []byte("one"),
		key("b2"): []byte("two"),
		key("b3"): []byte("three"),
	}
	if err := p.SetMulti(ctx, items, time.Minute); err != nil {
		t.Fatalf("SetMulti: %v", err)
	}
	req := []string{key("b1"), key("b2"), key("b3"), key("b-missing")}
	bulk, err := p.GetMulti(ctx, req)
	if err != nil {
		t.Fatalf("GetMulti: %v", err)
	}
	if len(bulk) != len(items) {
		t.Fatalf("GetMulti: want %d entries, got %d (%v)", len(items), len(bulk), bulk)
	}
	for k, want := range items {
		if !bytes.Equal(bulk[k], want) {
			t.Fatalf("GetMulti[%s]: want %q got %q", k, want, bulk[k])
		}
	}
	if _, ok := bulk[key("b-missing")]; ok {
		t.Fatalf("GetMulti must omit absent keys")
	}

	// bulk delete
	if err := p.DeleteMulti(ctx, []string{key("b1"), key("b2"), key("b-missing")}); err != nil {
		t.Fatalf("DeleteMulti: %v", err)
	}
	bulk, err = p.GetMulti(ctx, req)
	if err != nil {
		t.Fatalf("GetMulti after DeleteMulti: %v", err)
	}
	if len(bulk) != 1 || string(bulk[key("b3")]) != "three" {
		t.Fatalf("after DeleteMulti expected only b3, got %v", bulk)
	}

	// TTL expiry
	if !opts.SkipTTL {
		if err := p.Set(ctx, key("ttl"), []byte("v"), ttl); err != nil {
			t.Fatalf("Set ttl: %v", err)
		}
		time.Sleep(wait)
		if _, ok, err := p.Get(ctx, key("ttl")); err != nil || ok {
			t.Fatalf("expected ttl key to expire: ok=%v err=%v", ok, err)
		}
	}

	// wipe
	if err := p.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if _, ok, _ := p.Get(ctx, key("b3")); ok {
		t.Fatalf("expected miss after DeleteAll")
	}
}

func sanitize(s string) string {
	return strings.NewReplacer("/", "_", " ", "_", ":", "_").Replace(s)
}
