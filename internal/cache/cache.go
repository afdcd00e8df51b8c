package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores opaque byte values for the lifetime of one run
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
}

// CacheKey derives a namespaced key from a kind and a raw identifier
func CacheKey(kind, id string) string {
	hash := sha256.Sum256([]byte(id))
	return "stratsearch:v1:" + kind + ":" + hex.EncodeToString(hash[:])
}
