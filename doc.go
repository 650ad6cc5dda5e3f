// Package memocache memoizes function results in a pluggable byte store and
// lets dependent code react when an entry is invalidated.
//
// Components:
//   - Provider: byte store with TTL (memory, Redis, Memcached, Ristretto, BigCache).
//   - Codec[V]: (de)serializes V <-> []byte. JSON by default.
//   - Registry: event name -> ordered subscribers. Namespaces are event names.
//
// Keys:
//
//	<ns>:<sha256 hex>  - sha256 over the canonical CBOR encoding of the arguments
//
// Equal arguments give equal keys in every process, so a Dirty call in one
// replica evicts what another replica stored.
//
// Single:
//
//	load, _ := memocache.NewMemo(loadUser, memocache.Options[User]{Provider: p})
//	u, err := load.Call(ctx, 42)  // computes and stores
//	u, err = load.Call(ctx, 42)   // served from the store
//	_ = load.Dirty(ctx, 42)       // deletes, then notifies subscribers
//
// Batch:
//
//	users, _ := memocache.NewBatch(loadUsers, memocache.Options[User]{Provider: p})
//	res, err := users.Call(ctx, []int{1, 2, 3}) // loadUsers sees only the misses
//
// Cascading invalidation:
//
//	memocache.OnDirty(load, func(ctx context.Context, args ...any) error {
//	    return profile.Dirty(ctx, args...)
//	})
//
// Get-or-compute is not atomic across processes; concurrent misses may both
// compute and the last write wins. Options.SingleFlight collapses concurrent
// misses within one process.
package memocache
