package gateway

import (
	"sync"
	"time"
)

// expiryMargin is subtracted from the vendor-reported TTL so a token is
// never used at the edge of its validity window.
const expiryMargin = 5 * time.Minute

type cachedToken struct {
	value     string
	expiresAt time.Time
}

// TokenCache memoizes OAuth bearer tokens per provider. Concurrent
// cache-miss requests may both re-authenticate; the mutex only keeps the
// map itself consistent.
type TokenCache struct {
	mu     sync.Mutex
	tokens map[string]cachedToken
	now    func() time.Time
}

func NewTokenCache() *TokenCache {
	return &TokenCache{
		tokens: make(map[string]cachedToken),
		now:    time.Now,
	}
}

// Get returns the cached token for the provider, or false when there is
// none or it has 5 minutes or less of validity left.
func (c *TokenCache) Get(provider string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.tokens[provider]
	if !ok {
		return "", false
	}
	if t.expiresAt.Sub(c.now()) <= expiryMargin {
		delete(c.tokens, provider)
		return "", false
	}
	return t.value, true
}

// Set stores a token with the vendor-reported lifetime in seconds.
func (c *TokenCache) Set(provider, token string, expiresIn int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tokens[provider] = cachedToken{
		value:     token,
		expiresAt: c.now().Add(time.Duration(expiresIn) * time.Second),
	}
}

// Invalidate drops the provider's token so the next call re-authenticates.
// Called after a 401/403 from the vendor.
func (c *TokenCache) Invalidate(provider string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tokens, provider)
}
