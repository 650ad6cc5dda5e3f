package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest returns prefix + ":" + the lowercase hex SHA-256 of b.
func Digest(prefix string, b []byte) string {
	sum := sha256.Sum256(b)
	out := make([]byte, 0, len(prefix)+1+hex.EncodedLen(len(sum)))
	out = append(out, prefix...)
	out = append(out, ':')
	out = hex.AppendEncode(out, sum[:])
	return string(out)
}
