package bigcache

import (
	"context"
	"testing"
	"time"

	"github.com/unkn0wn-root/memocache/provider/providertest"
)

func TestBigCacheRequiresLifeWindow(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error for zero LifeWindow")
	}
}

func TestBigCacheContract(t *testing.T) {
	ctx := context.Background()
	p, err := New(ctx, Config{
		LifeWindow:         time.Minute,
		Shards:             16,
		MaxEntriesInWindow: 1000,
		MaxEntrySize:       256,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = p.Close(ctx) })

	// per-entry TTL is not supported; entries live for LifeWindow.
	providertest.Run(t, p, providertest.Options{SkipTTL: true})
}
