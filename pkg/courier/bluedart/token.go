package bluedart

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Blue Dart tokens are valid for 24 hours; refresh an hour early so a token
// never expires mid-call.
const tokenTTL = 23 * time.Hour

// TokenFetcher acquires a fresh JWT token from the Blue Dart login endpoint.
type TokenFetcher func(ctx context.Context) (string, error)

// TokenCache holds a Blue Dart auth token and refreshes it lazily on expiry.
// Concurrent callers hitting an expired cache are coalesced into a single
// login call via singleflight.
type TokenCache struct {
	fetch TokenFetcher
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time

	group singleflight.Group
}

// NewTokenCache creates a token cache with the default 23h TTL.
func NewTokenCache(fetch TokenFetcher) *TokenCache {
	return &TokenCache{
		fetch: fetch,
		ttl:   tokenTTL,
		now:   time.Now,
	}
}

// NewTokenCacheWithClock creates a token cache with an injected TTL and clock.
func NewTokenCacheWithClock(fetch TokenFetcher, ttl time.Duration, now func() time.Time) *TokenCache {
	return &TokenCache{
		fetch: fetch,
		ttl:   ttl,
		now:   now,
	}
}

// Get returns a valid token, refreshing it first if the cached one is absent
// or expired.
func (c *TokenCache) Get(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.token != "" && c.now().Before(c.expires) {
		token := c.token
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do("login", func() (interface{}, error) {
		// Re-check under the lock: another caller may have refreshed while
		// this one was waiting on the flight group.
		c.mu.Lock()
		if c.token != "" && c.now().Before(c.expires) {
			token := c.token
			c.mu.Unlock()
			return token, nil
		}
		c.mu.Unlock()

		token, err := c.fetch(ctx)
		if err != nil {
			return "", err
		}

		c.mu.Lock()
		c.token = token
		c.expires = c.now().Add(c.ttl)
		c.mu.Unlock()
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate drops the cached token, forcing the next Get to refresh.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	c.token = ""
	c.expires = time.Time{}
	c.mu.Unlock()
}
