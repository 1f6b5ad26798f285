package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// BytesCache is a minimal cache API storing raw bytes with TTL.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}

// Key builds a namespaced cache key from a canonical payload. Projections
// are deterministic, so the digest of the input is a stable identity for
// the result.
func Key(prefix string, payload []byte) string {
	sum := sha256.Sum256(payload)
	return prefix + ":" + hex.EncodeToString(sum[:])
}
