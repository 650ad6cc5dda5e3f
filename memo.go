package memocache

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"
)

// Memo wraps a Func with get-or-compute semantics.
// It is immutable after NewMemo and safe for concurrent use.
type Memo[V any] struct {
	fn Func[V]
	s  settings[V]
	sf *singleflight.Group
}

func NewMemo[V any](fn Func[V], opts Options[V]) (*Memo[V], error) {
	if fn == nil {
		return nil, ErrNilFunc
	}
	s, err := opts.resolve(fn)
	if err != nil {
		return nil, err
	}
	m := &Memo[V]{fn: fn, s: s}
	if opts.SingleFlight {
		m.sf = new(singleflight.Group)
	}
	return m, nil
}

func (m *Memo[V]) Namespace() string   { return m.s.ns }
func (m *Memo[V]) TTL() time.Duration  { return m.s.ttl }
func (m *Memo[V]) Registry() *Registry { return m.s.reg }
func (m *Memo[V]) Enabled() bool       { return m.s.enabled }

// Call returns the stored value for args, or runs the function, stores its
// result and returns it. Errors from the function are returned and nothing is stored.
func (m *Memo[V]) Call(ctx context.Context, args ...any) (V, error) {
	var zero V
	if !m.s.enabled {
		return m.fn(ctx, args...)
	}
	key, err := BuildKey(m.s.ns, args...)
	if err != nil {
		return zero, err
	}
	v, ok, err := m.lookup(ctx, key)
	if err != nil || ok {
		return v, err
	}
	m.s.hooks.Miss(m.s.ns, key)

	if m.sf == nil {
		return m.compute(ctx, key, args)
	}
	// the computation outlives any one caller's cancellation since others may be waiting on it
	res, err, shared := m.sf.Do(key, func() (any, error) {
		return m.compute(context.WithoutCancel(ctx), key, args)
	})
	if shared {
		m.s.log.Debug("memocache: shared in-flight result", Fields{"key": key})
	}
	if err != nil {
		return zero, err
	}
	v, _ = res.(V)
	return v, nil
}

func (m *Memo[V]) lookup(ctx context.Context, key string) (V, bool, error) {
	var zero V
	raw, ok, err := m.s.provider.Get(ctx, key)
	if err != nil {
		return zero, false, wrapErr("get", key, err)
	}
	if !ok {
		return zero, false, nil
	}
	v, err := m.s.codec.Decode(raw)
	if err != nil {
		m.s.hooks.DecodeFailed(key, err)
		m.s.log.Warn("memocache: stored value does not decode; recomputing",
			Fields{"key": key, "err": err})
		return zero, false, nil
	}
	m.s.hooks.Hit(m.s.ns, key)
	return v, true, nil
}

func (m *Memo[V]) compute(ctx context.Context, key string, args []any) (V, error) {
	var zero V
	v, err := m.fn(ctx, args...)
	if err != nil {
		return zero, err
	}
	b, err := m.s.codec.Encode(v)
	if err != nil {
		return zero, wrapErr("encode", key, err)
	}
	if err := m.s.provider.Set(ctx, key, b, m.s.ttl); err != nil {
		return zero, wrapErr("set", key, err)
	}
	m.s.log.Debug("memocache: stored", Fields{"key": key, "bytes": len(b)})
	return v, nil
}

// Dirty deletes the entry for args and then publishes args under the namespace.
// Subscriber failures are returned as a *PublishError after all subscribers ran.
func (m *Memo[V]) Dirty(ctx context.Context, args ...any) error {
	key, err := BuildKey(m.s.ns, args...)
	if err != nil {
		return err
	}
	if m.s.enabled {
		if err := m.s.provider.Delete(ctx, key); err != nil {
			return wrapErr("delete", key, err)
		}
		m.s.hooks.Dirtied(m.s.ns, 1)
		m.s.log.Debug("memocache: dirtied", Fields{"key": key})
	}
	return publish(ctx, m.s.reg, m.s.hooks, m.s.ns, args...)
}

func publish(ctx context.Context, reg *Registry, hooks Hooks, event string, args ...any) error {
	err := reg.Publish(ctx, event, args...)
	var pe *PublishError
	if errors.As(err, &pe) {
		hooks.PublishFailed(event, len(pe.Failures))
	}
	return err
}
