package asynchook

import (
	"sync"
	"testing"

	"github.com/unkn0wn-root/memocache"
)

type countingHooks struct {
	memocache.NopHooks
	mu     sync.Mutex
	hits   int
	block  chan struct{}
	events []string
}

func (c *countingHooks) Hit(ns, _ string) {
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	c.hits++
	c.events = append(c.events, "hit:"+ns)
	c.mu.Unlock()
}

func (c *countingHooks) PublishFailed(event string, _ int) {
	c.mu.Lock()
	c.events = append(c.events, "publish:"+event)
	c.mu.Unlock()
}

func TestAsyncDeliversBeforeClose(t *testing.T) {
	inner := &countingHooks{}
	h := New(inner, 2, 64)
	for i := 0; i < 10; i++ {
		h.Hit("users", "k")
	}
	h.PublishFailed("users", 1)
	h.Close()

	if inner.hits != 10 || len(inner.events) != 11 {
		t.Fatalf("hits=%d events=%d", inner.hits, len(inner.events))
	}
	h.Hit("users", "k") // after Close: dropped, no panic
	if h.Dropped() != 1 {
		t.Fatalf("dropped = %d", h.Dropped())
	}
}

func TestAsyncDropsWhenFull(t *testing.T) {
	inner := &countingHooks{block: make(chan struct{})}
	h := New(inner, 1, 1)

	// one event is held by the worker, one waits in the queue, the rest are dropped
	for i := 0; i < 10; i++ {
		h.Hit("users", "k")
	}
	close(inner.block)
	h.Close()

	if inner.hits+int(h.Dropped()) != 10 {
		t.Fatalf("hits=%d dropped=%d", inner.hits, h.Dropped())
	}
	if h.Dropped() < 8 {
		t.Fatalf("expected most events dropped, got %d", h.Dropped())
	}
}
