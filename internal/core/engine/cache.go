package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/pagelens/pagelens/internal/core"
)

// DefaultCacheTTL is how long a stored summary stays servable.
const DefaultCacheTTL = 24 * time.Hour

// CacheStore persists summaries keyed by URL digest.
type CacheStore interface {
	GetCachedSummary(ctx context.Context, key string, ttl time.Duration, now time.Time) (*core.CachedSummary, error)
	SetCachedSummary(ctx context.Context, key, pageURL, summary string, now time.Time) error
}

// Cache is a read-through summary cache over a durable store. Lookups fail
// open: any store error reads as a miss, so a broken cache degrades to
// recomputing summaries rather than refusing requests.
type Cache struct {
	Store  CacheStore
	TTL    time.Duration
	Clock  func() time.Time
	Logger *logging.Logger
}

// CacheKey derives the cache key for a URL: the hex SHA-256 of the raw
// string as given. No normalization is applied, so URLs differing only in
// case, trailing slash, or fragment occupy separate entries.
func CacheKey(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached summary for a URL, or ok=false on a miss. Expiry
// is enforced by the store at read time.
func (c *Cache) Get(ctx context.Context, rawURL string) (string, bool) {
	if c == nil || c.Store == nil {
		return "", false
	}

	entry, err := c.Store.GetCachedSummary(ctx, CacheKey(rawURL), c.ttl(), c.now())
	if err != nil {
		if c.Logger != nil {
			c.Logger.Warn("Summary cache read failed, treating as miss",
				zap.String("url", rawURL),
				zap.Error(err))
		}
		return "", false
	}
	if entry == nil {
		return "", false
	}
	return entry.Summary, true
}

// Set stores a summary for a URL. Write failures are logged and swallowed;
// the summary is still returned to the caller, it just will not be served
// from cache next time.
func (c *Cache) Set(ctx context.Context, rawURL, summary string) {
	if c == nil || c.Store == nil {
		return
	}

	if err := c.Store.SetCachedSummary(ctx, CacheKey(rawURL), rawURL, summary, c.now()); err != nil {
		if c.Logger != nil {
			c.Logger.Warn("Summary cache write failed",
				zap.String("url", rawURL),
				zap.Error(err))
		}
	}
}

func (c *Cache) ttl() time.Duration {
	if c != nil && c.TTL > 0 {
		return c.TTL
	}
	return DefaultCacheTTL
}

func (c *Cache) now() time.Time {
	if c != nil && c.Clock != nil {
		return c.Clock()
	}
	return time.Now().UTC()
}
