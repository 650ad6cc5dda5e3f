package memocache

import "iter"

// Entry is one item of a batch Result.
type Entry[K comparable, V any] struct {
	Item  K
	Value V
}

// Result is an ordered mapping from item to value. Order follows the first
// occurrence of each item in the request; items without a value are absent.
type Result[K comparable, V any] struct {
	order  []K
	values map[K]V
}

func newResult[K comparable, V any](n int) *Result[K, V] {
	return &Result[K, V]{order: make([]K, 0, n), values: make(map[K]V, n)}
}

func (r *Result[K, V]) put(k K, v V) {
	if _, dup := r.values[k]; !dup {
		r.order = append(r.order, k)
	}
	r.values[k] = v
}

func (r *Result[K, V]) Len() int { return len(r.order) }

func (r *Result[K, V]) Get(k K) (V, bool) {
	v, ok := r.values[k]
	return v, ok
}

// Items returns the items that have a value, in order.
func (r *Result[K, V]) Items() []K {
	out := make([]K, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Result[K, V]) Entries() []Entry[K, V] {
	out := make([]Entry[K, V], len(r.order))
	for i, k := range r.order {
		out[i] = Entry[K, V]{Item: k, Value: r.values[k]}
	}
	return out
}

// Map returns an unordered copy.
func (r *Result[K, V]) Map() map[K]V {
	out := make(map[K]V, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// All iterates entries in order.
func (r *Result[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range r.order {
			if !yield(k, r.values[k]) {
				return
			}
		}
	}
}
