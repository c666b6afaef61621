// Package cache defines the opportunistic key/value capability consumed
// by pipeline callers. The pipeline itself is cache-agnostic: it only
// accepts pre-cached upstream outputs without re-deriving them.
package cache

// Cache is a minimal get/set surface. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}
