// Package cache speeds up repeat scans by remembering extraction results
// per file content. Entries are keyed by a digest of the file bytes, so a
// modified file always misses and a cache entry can never go stale.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte-value cache tier.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the cache key for one source file. The path participates so
// that identical content at two paths keeps distinct occurrence
// attribution; the content digest guarantees a modified file misses.
func Key(path string, content []byte) string {
	h := sha256.New()
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write(content)
	return "arbshift:scan:v1:" + hex.EncodeToString(h.Sum(nil))
}
