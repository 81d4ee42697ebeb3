// Package cache provides the verdict cache for backend consensus queries.
// Semantic-match verdicts are deterministic (zero temperature), so a cached
// verdict for the same (backend, evidence, source) triple is as good as a
// fresh one and saves a paid API call on re-validation.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for verdict storage.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// VerdictKey generates a stable cache key for one backend's verdict on one
// (evidence, source) pair.
func VerdictKey(backend, evidence, source string) string {
	h := sha256.New()
	h.Write([]byte(backend))
	h.Write([]byte{0})
	h.Write([]byte(evidence))
	h.Write([]byte{0})
	h.Write([]byte(source))
	return "axwise:verdict:v1:" + hex.EncodeToString(h.Sum(nil))
}
