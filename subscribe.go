package memocache

import (
	"context"
	"fmt"
	"reflect"
)

// OnDirty subscribes fn to src's invalidations. Dirtying src calls fn with the
// arguments given to Dirty, which lets dependent caches be dirtied or refreshed
// in turn.
func OnDirty(src Source, fn Subscriber) (Subscription, error) {
	if isNil(src) || src.Namespace() == "" || src.Registry() == nil {
		return Subscription{}, ErrNotMemoized
	}
	return src.Registry().Subscribe(src.Namespace(), fn)
}

// OnDirtyBatch is OnDirty for a Batch with the items already typed.
func OnDirtyBatch[K comparable, V any](b *Batch[K, V], fn func(ctx context.Context, items []K) error) (Subscription, error) {
	if b == nil {
		return Subscription{}, ErrNotMemoized
	}
	if fn == nil {
		return Subscription{}, ErrNilFunc
	}
	ns := b.Namespace()
	return OnDirty(b, func(ctx context.Context, args ...any) error {
		if len(args) != 1 {
			return fmt.Errorf("memocache: %s: expected one []item argument, got %d", ns, len(args))
		}
		items, ok := args[0].([]K)
		if !ok {
			return fmt.Errorf("memocache: %s: unexpected dirty payload %T", ns, args[0])
		}
		return fn(ctx, items)
	})
}

func isNil(src Source) bool {
	if src == nil {
		return true
	}
	v := reflect.ValueOf(src)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
