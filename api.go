package memocache

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"time"

	c "github.com/unkn0wn-root/memocache/codec"
	pr "github.com/unkn0wn-root/memocache/provider"
)

const (
	// DefaultTTL applies when Options.TTL is zero.
	DefaultTTL = time.Hour
	// NoExpiration stores entries without a TTL.
	NoExpiration time.Duration = -1
)

// Func is a memoizable computation. args are the values the key is derived from.
type Func[V any] func(ctx context.Context, args ...any) (V, error)

// BatchFunc computes values for items. It is called with cache misses only and
// may return entries for items it was not asked about; those are stored too.
// A missing item means "no value"; a nil map with a nil error is invalid.
type BatchFunc[K comparable, V any] func(ctx context.Context, items []K) (map[K]V, error)

// Source is anything that publishes invalidations under a namespace.
// *Memo and *Batch implement it.
type Source interface {
	Namespace() string
	Registry() *Registry
}

// Options configure a Memo or Batch. Only Provider is required; others have
// sensible defaults. Options are resolved once at construction.
//
// With SingleFlight the shared computation gets the first caller's context
// values but not its cancellation or deadline.
type Options[V any] struct {
	Provider pr.Provider

	Namespace    string        // "" => fully-qualified name of the wrapped function
	TTL          time.Duration // 0 => DefaultTTL; NoExpiration => never expires
	Codec        c.Codec[V]    // nil => codec.JSON[V]
	Registry     *Registry     // nil => private registry (subscribe via Memo.Registry)
	Logger       Logger        // nil => NopLogger
	Hooks        Hooks         // nil => NopHooks
	Disabled     bool          // always compute, never read or write the store
	SingleFlight bool          // collapse concurrent misses on the same key (Memo only)
}

type settings[V any] struct {
	ns       string
	ttl      time.Duration
	provider pr.Provider
	codec    c.Codec[V]
	reg      *Registry
	log      Logger
	hooks    Hooks
	enabled  bool
}

func (o Options[V]) resolve(fn any) (settings[V], error) {
	if o.Provider == nil && !o.Disabled {
		return settings[V]{}, ErrNilProvider
	}
	s := settings[V]{
		ns:       o.Namespace,
		ttl:      coalesce[time.Duration](o.TTL, DefaultTTL),
		provider: o.Provider,
		codec:    o.Codec,
		reg:      o.Registry,
		hooks:    coalesce[Hooks](o.Hooks, NopHooks{}),
		enabled:  !o.Disabled,
	}
	if s.ns == "" {
		s.ns = funcName(fn)
	}
	if s.ns == "" {
		return settings[V]{}, ErrEmptyNamespace
	}
	s.log = scoped(o.Logger, s.ns)
	if s.codec == nil {
		s.codec = c.JSON[V]{}
	}
	if s.reg == nil {
		s.reg = NewRegistry()
	}
	return s, nil
}

// funcName returns the symbol name of fn, e.g. "example.com/app/users.Load".
func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}
	return strings.TrimSuffix(f.Name(), "-fm")
}

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

func wrapErr(op, key string, err error) error {
	return fmt.Errorf("memocache: %s %q: %w", op, key, err)
}
