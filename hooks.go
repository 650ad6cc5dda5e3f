package memocache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// They run inline on Call and Dirty.
type Hooks interface {
	// A stored value was found and decoded.
	Hit(namespace, storageKey string)
	// Nothing usable was stored; the function is about to run.
	Miss(namespace, storageKey string)

	// One batch lookup finished. missed items are handed to the batch function.
	BatchLookup(namespace string, requested, missed int)

	// A stored value did not decode with the configured codec. It is treated
	// as a miss and overwritten by the recomputed value.
	DecodeFailed(storageKey string, err error)

	// Entries were deleted by Dirty. keys is the number of storage keys removed.
	Dirtied(namespace string, keys int)

	// One or more subscribers failed while handling an invalidation.
	PublishFailed(event string, failures int)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Hit(string, string)           {}
func (NopHooks) Miss(string, string)          {}
func (NopHooks) BatchLookup(string, int, int) {}
func (NopHooks) DecodeFailed(string, error)   {}
func (NopHooks) Dirtied(string, int)          {}
func (NopHooks) PublishFailed(string, int)    {}
