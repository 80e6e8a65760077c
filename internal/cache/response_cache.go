package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/futig/support-backend/internal/entity"
	gocache "github.com/patrickmn/go-cache"
)

const keyLen = 32

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	punctRe      = regexp.MustCompile(`[^\w\s?.]`)
)

// CachedResponse is the stored value for one answered query
type CachedResponse struct {
	Reply      string
	Source     entity.ResponseSource
	DocVersion string
	CachedAt   time.Time
}

// Metrics is an aggregate hit/miss snapshot
type Metrics struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Total   int64   `json:"total"`
	HitRate float64 `json:"hit_rate"`
}

// ResponseCache memoizes generated answers keyed on tenant, normalized query
// and the tenant's index version. A re-ingestion bumps the version, which
// changes every key for that tenant; stale entries become unreachable and age
// out via TTL rather than being evicted explicitly.
type ResponseCache struct {
	store      *gocache.Cache
	defaultTTL time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

func NewResponseCache(defaultTTL time.Duration) *ResponseCache {
	return &ResponseCache{
		store:      gocache.New(defaultTTL, 10*time.Minute),
		defaultTTL: defaultTTL,
	}
}

// Get returns the cached response for the tenant/query/version triple
func (c *ResponseCache) Get(tenantID, query, version string) (CachedResponse, bool) {
	key := cacheKey(tenantID, query, version)
	if v, ok := c.store.Get(key); ok {
		c.hits.Add(1)
		return v.(CachedResponse), true
	}
	c.misses.Add(1)
	return CachedResponse{}, false
}

// Set stores the response under the tenant/query/version triple. A zero ttl
// falls back to the cache default.
func (c *ResponseCache) Set(tenantID, query, version string, resp CachedResponse, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	resp.DocVersion = version
	resp.CachedAt = time.Now().UTC()
	c.store.Set(cacheKey(tenantID, query, version), resp, ttl)
}

// Invalidate removes one specific entry
func (c *ResponseCache) Invalidate(tenantID, query, version string) {
	c.store.Delete(cacheKey(tenantID, query, version))
}

// Stats returns the aggregate hit/miss counters
func (c *ResponseCache) Stats() Metrics {
	hits := c.hits.Load()
	misses := c.misses.Load()
	total := hits + misses

	m := Metrics{Hits: hits, Misses: misses, Total: total}
	if total > 0 {
		m.HitRate = float64(hits) / float64(total)
	}
	return m
}

// normalizeQuery lower-cases, collapses whitespace and strips punctuation
// except '.' and '?', so trivially different phrasings share a key.
func normalizeQuery(query string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	normalized = whitespaceRe.ReplaceAllString(normalized, " ")
	normalized = punctRe.ReplaceAllString(normalized, "")
	return normalized
}

func cacheKey(tenantID, query, version string) string {
	content := fmt.Sprintf("%s:%s:%s", tenantID, normalizeQuery(query), version)
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])[:keyLen]
}
