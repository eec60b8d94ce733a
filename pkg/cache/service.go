package cache

import "time"

// CacheService defines the behavior for caching mechanisms
type CacheService interface {
	// Get retrieves a value from the cache
	// Returns value, true if found
	// Returns nil, false if not found or expired
	Get(key string) (interface{}, bool)

	// Set adds a value to the cache with a duration
	Set(key string, value interface{}, duration time.Duration)

	// Delete removes a value from the cache
	Delete(key string)

	// Flush removes all items
	Flush()

	// Keys lists the keys of all unexpired items
	Keys() []string

	// OnEvicted registers a hook run when an item is deleted or expires.
	// Flush does not trigger it.
	OnEvicted(fn func(key string, value interface{}))
}

// NoExpiration keeps an item until it is deleted explicitly.
const NoExpiration time.Duration = -1
