// Package cache invalidates WordPress object-cache entries and the cached
// rewrite-route table after destructive maintenance operations. The Redis
// implementation follows the standard WordPress Redis object-cache key
// layout; a no-op implementation serves installs without a cache backend.
package cache
