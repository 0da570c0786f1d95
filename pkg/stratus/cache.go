package stratus

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/stratus-io/stratus-go/internal/constants"
)

// Cache is the backend interface for response caching.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
}

// CacheEntry is a single cached response body.
type CacheEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
	ETag      string    `json:"etag,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Expired reports whether the entry's lifetime has passed.
func (e *CacheEntry) Expired() bool {
	return time.Now().After(e.ExpiresAt)
}

// CacheOptions carries backend-independent cache tuning.
type CacheOptions struct {
	// TTL is the default entry lifetime when the caller does not supply one.
	TTL time.Duration

	// MaxSize is the entry limit for bounded backends.
	MaxSize int

	// EnableETags controls whether conditional requests use stored ETags.
	EnableETags bool
}

// DefaultCacheOptions returns the stock cache tuning.
func DefaultCacheOptions() *CacheOptions {
	return &CacheOptions{
		TTL:         constants.DefaultCacheTTL,
		MaxSize:     constants.DefaultCacheSize,
		EnableETags: true,
	}
}

// MemoryCache is an in-process Cache bounded to a fixed number of entries.
// Expired entries are dropped lazily on read and swept by Cleanup; when the
// cache is full, the entry closest to expiry is evicted first.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*CacheEntry
	maxSize int
}

// NewMemoryCache creates a memory cache holding at most maxSize entries.
func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = constants.DefaultCacheSize
	}
	return &MemoryCache{
		entries: make(map[string]*CacheEntry),
		maxSize: maxSize,
	}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) (*CacheEntry, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}
	if entry.Expired() {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}
	return entry, nil
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, key string, entry *CacheEntry) error {
	if len(entry.Data) > constants.MaxCacheValueSize {
		return fmt.Errorf("%w: %d bytes", ErrCacheEntryTooLarge, len(entry.Data))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictLocked()
	}
	c.entries[key] = entry

	return nil
}

// evictLocked drops expired entries, then the entry closest to expiry if
// the cache is still full. Callers hold the write lock.
func (c *MemoryCache) evictLocked() {
	now := time.Now()
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
		}
	}
	if len(c.entries) < c.maxSize {
		return
	}

	var oldestKey string
	var oldestExpiry time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.ExpiresAt.Before(oldestExpiry) {
			oldestKey = key
			oldestExpiry = entry.ExpiresAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// Delete implements Cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Clear implements Cache.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*CacheEntry)
	return nil
}

// Has implements Cache. Expired entries count as absent.
func (c *MemoryCache) Has(_ context.Context, key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	return ok && !entry.Expired()
}

// Cleanup removes every expired entry. Callers that keep a long-lived
// cache should run this periodically; reads already skip expired entries.
func (c *MemoryCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
		}
	}
}

// Len reports the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CacheStats tracks cache effectiveness counters.
type CacheStats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Sets    int64 `json:"sets"`
	Deletes int64 `json:"deletes"`
}

// GetHitRate returns the fraction of reads served from cache.
func (s *CacheStats) GetHitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// CacheManager layers key construction, TTL handling, and hit/miss
// accounting over a Cache backend.
type CacheManager struct {
	cache  Cache
	logger Logger

	mu    sync.Mutex
	stats CacheStats
}

// NewCacheManager creates a manager over the given backend. A nil logger
// disables cache logging.
func NewCacheManager(cache Cache, logger Logger) *CacheManager {
	if logger == nil {
		logger = NewNoopLogger()
	}
	return &CacheManager{cache: cache, logger: logger}
}

// GetCacheKey derives the cache key for a request. Query parameters are
// sorted so equivalent requests share a key.
func (m *CacheManager) GetCacheKey(method, path string, params map[string]string) string {
	if len(params) == 0 {
		return method + ":" + path
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(method)
	sb.WriteString(":")
	sb.WriteString(path)
	sb.WriteString(":")
	for i, key := range keys {
		if i > 0 {
			sb.WriteString("&")
		}
		sb.WriteString(key)
		sb.WriteString("=")
		sb.WriteString(params[key])
	}
	return sb.String()
}

// Get returns the cached payload for key, counting the hit or miss.
func (m *CacheManager) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := m.GetEntry(ctx, key)
	if err != nil {
		return nil, err
	}
	return entry.Data, nil
}

// GetEntry returns the full cached entry for key, ETag included.
func (m *CacheManager) GetEntry(ctx context.Context, key string) (*CacheEntry, error) {
	entry, err := m.cache.Get(ctx, key)
	if err != nil {
		m.count(func(s *CacheStats) { s.Misses++ })
		return nil, err
	}
	m.count(func(s *CacheStats) { s.Hits++ })
	m.logger.Debug("cache hit", map[string]interface{}{"key": key})
	return entry, nil
}

// Set stores data under key for the given lifetime.
func (m *CacheManager) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return m.SetWithETag(ctx, key, data, "", ttl)
}

// SetWithETag stores data together with its ETag for conditional requests.
func (m *CacheManager) SetWithETag(ctx context.Context, key string, data []byte, etag string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}
	now := time.Now()
	err := m.cache.Set(ctx, key, &CacheEntry{
		Data:      data,
		ExpiresAt: now.Add(ttl),
		ETag:      etag,
		CreatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("caching response: %w", err)
	}
	m.count(func(s *CacheStats) { s.Sets++ })
	return nil
}

// Delete removes a single cached entry.
func (m *CacheManager) Delete(ctx context.Context, key string) error {
	err := m.cache.Delete(ctx, key)
	if err != nil {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	m.count(func(s *CacheStats) { s.Deletes++ })
	return nil
}

// InvalidatePath drops the cached GET responses a successful mutation of
// path makes stale: the resource itself and its parent collection.
func (m *CacheManager) InvalidatePath(ctx context.Context, path string) {
	_ = m.Delete(ctx, m.GetCacheKey("GET", path, nil))
	if i := strings.LastIndex(path, "/"); i > 0 {
		_ = m.Delete(ctx, m.GetCacheKey("GET", path[:i], nil))
	}
}

// Clear empties the backend.
func (m *CacheManager) Clear(ctx context.Context) error {
	err := m.cache.Clear(ctx)
	if err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

// GetStats returns a snapshot of the hit/miss counters.
func (m *CacheManager) GetStats() *CacheStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := m.stats
	return &snapshot
}

func (m *CacheManager) count(update func(*CacheStats)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	update(&m.stats)
}

// CachingPolicy decides which exchanges are worth caching.
type CachingPolicy struct {
	// CacheGET enables caching of GET responses; CachePOST extends it to
	// POST, for callers whose POST endpoints are read-like searches.
	CacheGET  bool
	CachePOST bool

	// CacheErrors allows non-2xx responses to be cached.
	CacheErrors bool

	// IncludePaths, when non-empty, restricts caching to paths with one of
	// these prefixes. Otherwise ExcludePaths blocks its prefixes.
	IncludePaths []string
	ExcludePaths []string

	// DefaultTTL is the entry lifetime when no per-resource override
	// matches. ResourceTTLs overrides it by path fragment, so nested
	// resources like /v4/zones/{id}/dns_records can carry their own
	// lifetime.
	DefaultTTL   time.Duration
	ResourceTTLs map[string]time.Duration
}

// DefaultCachingPolicy caches successful GET responses, keeps token and
// audit endpoints out of the cache, and gives zone lookups a longer
// lifetime than the fast-moving DNS record listings.
func DefaultCachingPolicy() *CachingPolicy {
	return &CachingPolicy{
		CacheGET:   true,
		DefaultTTL: constants.DefaultCacheTTL,
		ExcludePaths: []string{
			constants.APIPathTokens,
			"/v4/accounts/audit",
		},
		ResourceTTLs: map[string]time.Duration{
			constants.APIPathZones:       constants.ZonesCacheTTL,
			"/dns_records":               constants.DNSRecordsCacheTTL,
			constants.APIPathTokenVerify: constants.TokenVerifyCacheTTL,
		},
	}
}

// ShouldCache reports whether a response for method/path with the given
// status should be stored.
func (p *CachingPolicy) ShouldCache(method, path string, statusCode int) bool {
	switch method {
	case "GET":
		if !p.CacheGET {
			return false
		}
	case "POST":
		if !p.CachePOST {
			return false
		}
	default:
		return false
	}

	if !p.CacheErrors && (statusCode < 200 || statusCode >= 300) {
		return false
	}

	if len(p.IncludePaths) > 0 {
		for _, include := range p.IncludePaths {
			if strings.HasPrefix(path, include) {
				return true
			}
		}
		return false
	}

	for _, exclude := range p.ExcludePaths {
		if strings.HasPrefix(path, exclude) {
			return false
		}
	}
	return true
}

// TTLFor returns the entry lifetime for a path, preferring the longest
// matching ResourceTTLs fragment.
func (p *CachingPolicy) TTLFor(path string) time.Duration {
	ttl := p.DefaultTTL
	matched := -1
	for fragment, override := range p.ResourceTTLs {
		if strings.Contains(path, fragment) && len(fragment) > matched {
			matched = len(fragment)
			ttl = override
		}
	}
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}
	return ttl
}
