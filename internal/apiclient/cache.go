package apiclient

import (
	"net/url"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultCacheTTL is how long a successful response is reused.
const DefaultCacheTTL = 5 * time.Minute

// KeyFunc serializes an endpoint and its options into a cache and dedup key.
// Equal requests must produce equal keys.
type KeyFunc func(endpoint string, params url.Values) string

// DefaultKey joins the endpoint with its query string. url.Values.Encode
// sorts by key, so option order does not matter.
func DefaultKey(endpoint string, params url.Values) string {
	if len(params) == 0 {
		return endpoint
	}
	return endpoint + "?" + params.Encode()
}

// ResponseCache memoizes successful response bodies for a fixed TTL.
// Expired entries are dropped lazily on lookup; there is no background sweep.
type ResponseCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	key     KeyFunc
	clock   clockwork.Clock
}

type cacheEntry struct {
	body      []byte
	expiresAt time.Time
}

// CacheOption configures a ResponseCache.
type CacheOption func(*ResponseCache)

// WithTTL sets the entry lifetime.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *ResponseCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithKeyFunc sets the key serialization.
func WithKeyFunc(fn KeyFunc) CacheOption {
	return func(c *ResponseCache) {
		if fn != nil {
			c.key = fn
		}
	}
}

// WithClock sets the clock used for expiry.
func WithClock(clock clockwork.Clock) CacheOption {
	return func(c *ResponseCache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// NewResponseCache creates a cache with a 5 minute TTL, DefaultKey and the real clock
// unless overridden.
func NewResponseCache(opts ...CacheOption) *ResponseCache {
	c := &ResponseCache{
		entries: make(map[string]cacheEntry),
		ttl:     DefaultCacheTTL,
		key:     DefaultKey,
		clock:   clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the cache key for a request.
func (c *ResponseCache) Key(endpoint string, params url.Values) string {
	return c.key(endpoint, params)
}

// Get returns a live entry. An expired entry is deleted and reported absent.
func (c *ResponseCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	if !c.clock.Now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}

	return entry.body, true
}

// Set stores a body under key, replacing any previous entry.
func (c *ResponseCache) Set(key string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		body:      body,
		expiresAt: c.clock.Now().Add(c.ttl),
	}
}

// Clear removes all entries.
func (c *ResponseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Len returns the number of stored entries, expired or not.
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
