package memocache

import (
	"context"
	"runtime/debug"
	"sync"
)

// Subscriber reacts to an invalidation. args are the arguments passed to Dirty
// (for a Batch, a single []K with every dirtied item).
type Subscriber func(ctx context.Context, args ...any) error

// Subscription identifies one registered subscriber.
type Subscription struct {
	event string
	id    uint64
}

func (s Subscription) Event() string { return s.event }

type subscriber struct {
	id uint64
	fn Subscriber
}

// Registry maps event names to ordered subscriber lists.
// The zero value is ready to use.
type Registry struct {
	mu     sync.RWMutex
	subs   map[string][]subscriber
	nextID uint64
}

func NewRegistry() *Registry {
	return &Registry{subs: make(map[string][]subscriber)}
}

// Subscribe appends fn to event's list. Subscribing the same function twice
// registers it twice.
func (r *Registry) Subscribe(event string, fn Subscriber) (Subscription, error) {
	if fn == nil {
		return Subscription{}, ErrNilFunc
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.subs == nil {
		r.subs = make(map[string][]subscriber)
	}
	r.nextID++
	r.subs[event] = append(r.subs[event], subscriber{id: r.nextID, fn: fn})
	return Subscription{event: event, id: r.nextID}, nil
}

// Unsubscribe removes s. It reports whether s was still registered.
func (r *Registry) Unsubscribe(s Subscription) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.subs[s.event]
	for i, sub := range list {
		if sub.id != s.id {
			continue
		}
		// copy so snapshots held by in-flight publishes stay intact
		next := make([]subscriber, 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		if len(next) == 0 {
			delete(r.subs, s.event)
		} else {
			r.subs[s.event] = next
		}
		return true
	}
	return false
}

// Publish invokes every subscriber of event in registration order, outside the
// registry lock. All subscribers run; failures and panics are returned together
// as a *PublishError.
func (r *Registry) Publish(ctx context.Context, event string, args ...any) error {
	r.mu.RLock()
	list := r.subs[event]
	r.mu.RUnlock()
	if len(list) == 0 {
		return nil
	}

	var failures []error
	for _, sub := range list {
		if err := invoke(ctx, sub.fn, args); err != nil {
			failures = append(failures, err)
		}
	}
	if len(failures) > 0 {
		return &PublishError{Event: event, Failures: failures}
	}
	return nil
}

func invoke(ctx context.Context, fn Subscriber, args []any) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &PanicError{Value: v, Stack: debug.Stack()}
		}
	}()
	return fn(ctx, args...)
}

// Len returns the number of subscribers for event.
func (r *Registry) Len(event string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs[event])
}

// Reset drops every subscription.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.subs = make(map[string][]subscriber)
	r.mu.Unlock()
}
