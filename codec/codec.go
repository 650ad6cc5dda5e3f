// Package codec turns memoized values into bytes for a provider and back.
//
// Codecs are only used for value storage. Cache keys are derived separately with a
// canonical encoding, so any codec may be used without affecting key agreement
// between processes.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
