package memocache

import (
	"context"
	"fmt"
	"time"
)

// Batch memoizes a BatchFunc per item. A call reads every item in one
// GetMulti, computes only the misses and writes the results in one SetMulti.
type Batch[K comparable, V any] struct {
	fn BatchFunc[K, V]
	s  settings[V]
}

func NewBatch[K comparable, V any](fn BatchFunc[K, V], opts Options[V]) (*Batch[K, V], error) {
	if fn == nil {
		return nil, ErrNilFunc
	}
	s, err := opts.resolve(fn)
	if err != nil {
		return nil, err
	}
	return &Batch[K, V]{fn: fn, s: s}, nil
}

func (b *Batch[K, V]) Namespace() string   { return b.s.ns }
func (b *Batch[K, V]) TTL() time.Duration  { return b.s.ttl }
func (b *Batch[K, V]) Registry() *Registry { return b.s.reg }
func (b *Batch[K, V]) Enabled() bool       { return b.s.enabled }

// Call returns values for items. Duplicates are looked up once and the result
// keeps the order of first occurrence. Items the function did not return a
// value for are absent from the result.
func (b *Batch[K, V]) Call(ctx context.Context, items []K) (*Result[K, V], error) {
	uniq := dedupe(items)
	res := newResult[K, V](len(uniq))
	if len(uniq) == 0 {
		return res, nil
	}
	if !b.s.enabled {
		computed, err := b.compute(ctx, uniq)
		if err != nil {
			return nil, err
		}
		for _, it := range uniq {
			if v, ok := computed[it]; ok {
				res.put(it, v)
			}
		}
		return res, nil
	}

	keys, err := itemKeys(b.s.ns, uniq)
	if err != nil {
		return nil, err
	}
	found, err := b.s.provider.GetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("memocache: get multi %s (%d keys): %w", b.s.ns, len(keys), err)
	}

	hits := make(map[K]V, len(found))
	var missed []K
	for i, it := range uniq {
		raw, ok := found[keys[i]]
		if !ok {
			missed = append(missed, it)
			continue
		}
		v, err := b.s.codec.Decode(raw)
		if err != nil {
			b.s.hooks.DecodeFailed(keys[i], err)
			b.s.log.Warn("memocache: stored item does not decode; recomputing",
				Fields{"key": keys[i], "err": err})
			missed = append(missed, it)
			continue
		}
		hits[it] = v
	}
	b.s.hooks.BatchLookup(b.s.ns, len(uniq), len(missed))

	var computed map[K]V
	if len(missed) > 0 {
		if computed, err = b.compute(ctx, missed); err != nil {
			return nil, err
		}
		if err := b.store(ctx, computed); err != nil {
			return nil, err
		}
	}

	for _, it := range uniq {
		if v, ok := hits[it]; ok {
			res.put(it, v)
		} else if v, ok := computed[it]; ok {
			res.put(it, v)
		}
	}
	return res, nil
}

func (b *Batch[K, V]) compute(ctx context.Context, items []K) (map[K]V, error) {
	computed, err := b.fn(ctx, items)
	if err != nil {
		return nil, err
	}
	if computed == nil {
		return nil, fmt.Errorf("%w (%s, %d items)", ErrInvalidBatchResult, b.s.ns, len(items))
	}
	return computed, nil
}

// store writes every computed entry, including items nobody asked for.
func (b *Batch[K, V]) store(ctx context.Context, computed map[K]V) error {
	if len(computed) == 0 {
		return nil
	}
	entries := make(map[string][]byte, len(computed))
	for it, v := range computed {
		key, err := BuildItemKey(b.s.ns, it)
		if err != nil {
			return err
		}
		raw, err := b.s.codec.Encode(v)
		if err != nil {
			return wrapErr("encode", key, err)
		}
		entries[key] = raw
	}
	if err := b.s.provider.SetMulti(ctx, entries, b.s.ttl); err != nil {
		return fmt.Errorf("memocache: set multi %s (%d keys): %w", b.s.ns, len(entries), err)
	}
	b.s.log.Debug("memocache: stored batch", Fields{"entries": len(entries)})
	return nil
}

// One is Call for a single item. ok is false when the function produced no value.
func (b *Batch[K, V]) One(ctx context.Context, item K) (V, bool, error) {
	var zero V
	res, err := b.Call(ctx, []K{item})
	if err != nil {
		return zero, false, err
	}
	v, ok := res.Get(item)
	return v, ok, nil
}

// Dirty deletes the entries for items in one DeleteMulti and then publishes
// once under the namespace with the items slice as the only argument.
// Dirty with no items does nothing.
func (b *Batch[K, V]) Dirty(ctx context.Context, items ...K) error {
	if len(items) == 0 {
		return nil
	}
	keys, err := itemKeys(b.s.ns, items)
	if err != nil {
		return err
	}
	if b.s.enabled {
		if err := b.s.provider.DeleteMulti(ctx, keys); err != nil {
			return fmt.Errorf("memocache: delete multi %s (%d keys): %w", b.s.ns, len(keys), err)
		}
		b.s.hooks.Dirtied(b.s.ns, len(keys))
		b.s.log.Debug("memocache: dirtied batch", Fields{"items": len(items)})
	}
	published := make([]K, len(items))
	copy(published, items)
	return publish(ctx, b.s.reg, b.s.hooks, b.s.ns, published)
}

func dedupe[K comparable](items []K) []K {
	seen := make(map[K]struct{}, len(items))
	out := make([]K, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
