package stratus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stratus-io/stratus-go/internal/constants"
)

// CacheType selects the cache backend.
type CacheType string

const (
	// CacheTypeMemory is the in-process cache.
	CacheTypeMemory CacheType = "memory"

	// CacheTypeNATS is the shared NATS KeyValue cache.
	CacheTypeNATS CacheType = "nats"

	// CacheTypeNone disables caching.
	CacheTypeNone CacheType = "none"
)

// Static errors for err113 compliance.
var ErrKeyNotFoundInAnyCache = errors.New("key not found in any cache")

// CacheConfig selects and configures a cache backend.
type CacheConfig struct {
	// Type is the cache backend type.
	Type CacheType

	// Memory configures the in-process backend.
	Memory *MemoryCacheConfig

	// NATS configures the shared KeyValue backend.
	NATS *NATSKVConfig

	// Options applies to any backend. If nil, DefaultCacheOptions() is used.
	Options *CacheOptions
}

// MemoryCacheConfig configures the in-process cache backend.
type MemoryCacheConfig struct {
	// MaxSize is the maximum number of entries held at once.
	MaxSize int

	// CleanupInterval is how often expired entries are swept, as a
	// duration string like "1m" or "30s".
	CleanupInterval string
}

// DefaultCacheConfig returns the stock cache configuration: an in-process
// cache of DefaultCacheSize entries swept every minute.
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Type: CacheTypeMemory,
		Memory: &MemoryCacheConfig{
			MaxSize:         constants.DefaultCacheSize,
			CleanupInterval: "1m",
		},
		Options: DefaultCacheOptions(),
	}
}

// NewCacheFromConfig creates a cache backend from configuration.
func NewCacheFromConfig(config *CacheConfig) (Cache, error) {
	if config == nil {
		config = DefaultCacheConfig()
	}

	switch config.Type {
	case CacheTypeMemory:
		return NewMemoryCacheFromConfig(config.Memory)

	case CacheTypeNATS:
		if config.NATS == nil {
			return nil, ErrNATSConfigRequired
		}
		return NewNATSKVCache(config.NATS)

	case CacheTypeNone:
		return NewNoOpCache(), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCacheType, config.Type)
	}
}

// NewMemoryCacheFromConfig creates a memory cache from configuration. The
// sweep goroutine is the caller's to run; see MemoryCache.Cleanup.
func NewMemoryCacheFromConfig(config *MemoryCacheConfig) (Cache, error) {
	if config == nil {
		config = &MemoryCacheConfig{
			MaxSize:         constants.DefaultCacheSize,
			CleanupInterval: "1m",
		}
	}
	return NewMemoryCache(config.MaxSize), nil
}

// NoOpCache is a cache that stores nothing.
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache.
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// Get always misses.
func (c *NoOpCache) Get(_ context.Context, _ string) (*CacheEntry, error) {
	return nil, ErrCacheDisabled
}

// Set does nothing.
func (c *NoOpCache) Set(_ context.Context, _ string, _ *CacheEntry) error {
	return nil
}

// Delete does nothing.
func (c *NoOpCache) Delete(_ context.Context, _ string) error {
	return nil
}

// Clear does nothing.
func (c *NoOpCache) Clear(_ context.Context) error {
	return nil
}

// Has always returns false.
func (c *NoOpCache) Has(_ context.Context, _ string) bool {
	return false
}

// CacheBuilder helps assemble cache configurations.
type CacheBuilder struct {
	config *CacheConfig
}

// NewCacheBuilder creates a builder seeded with the memory backend.
func NewCacheBuilder() *CacheBuilder {
	return &CacheBuilder{
		config: &CacheConfig{
			Type:    CacheTypeMemory,
			Options: DefaultCacheOptions(),
		},
	}
}

// WithType sets the cache backend type.
func (b *CacheBuilder) WithType(cacheType CacheType) *CacheBuilder {
	b.config.Type = cacheType
	return b
}

// WithMemoryConfig sets the in-process backend configuration.
func (b *CacheBuilder) WithMemoryConfig(maxSize int, cleanupInterval string) *CacheBuilder {
	b.config.Memory = &MemoryCacheConfig{
		MaxSize:         maxSize,
		CleanupInterval: cleanupInterval,
	}
	return b
}

// WithNATSConfig sets the NATS backend configuration.
func (b *CacheBuilder) WithNATSConfig(config *NATSKVConfig) *CacheBuilder {
	b.config.NATS = config
	return b
}

// WithOptions sets backend-independent cache options.
func (b *CacheBuilder) WithOptions(options *CacheOptions) *CacheBuilder {
	b.config.Options = options
	return b
}

// Build creates the cache from the assembled configuration.
func (b *CacheBuilder) Build() (Cache, error) {
	return NewCacheFromConfig(b.config)
}

// CacheChain layers cache backends, typically a small fast local cache in
// front of a shared NATS bucket. Reads fall through the layers in order
// and populate the earlier ones on a hit.
type CacheChain struct {
	caches []Cache
}

// NewCacheChain creates a chain over the given backends, fastest first.
func NewCacheChain(caches ...Cache) *CacheChain {
	return &CacheChain{caches: caches}
}

// Get retrieves an entry from the first layer that has it.
func (c *CacheChain) Get(ctx context.Context, key string) (*CacheEntry, error) {
	for i, cache := range c.caches {
		entry, err := cache.Get(ctx, key)
		if err == nil {
			for j := range i {
				_ = c.caches[j].Set(ctx, key, entry)
			}
			return entry, nil
		}
	}
	return nil, ErrKeyNotFoundInAnyCache
}

// Set stores an entry in every layer.
func (c *CacheChain) Set(ctx context.Context, key string, entry *CacheEntry) error {
	var lastErr error
	for _, cache := range c.caches {
		if err := cache.Set(ctx, key, entry); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Delete removes an entry from every layer.
func (c *CacheChain) Delete(ctx context.Context, key string) error {
	var lastErr error
	for _, cache := range c.caches {
		if err := cache.Delete(ctx, key); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Clear empties every layer.
func (c *CacheChain) Clear(ctx context.Context) error {
	var lastErr error
	for _, cache := range c.caches {
		if err := cache.Clear(ctx); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Has reports whether any layer holds the key.
func (c *CacheChain) Has(ctx context.Context, key string) bool {
	for _, cache := range c.caches {
		if cache.Has(ctx, key) {
			return true
		}
	}
	return false
}

// cleanupLoop periodically sweeps a memory cache until the context ends.
func cleanupLoop(ctx context.Context, cache *MemoryCache, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cache.Cleanup()
		}
	}
}

// StartCleanup launches the background sweep for a memory cache built from
// config, returning a stop function. Non-memory backends expire entries
// server-side and need no sweep.
func StartCleanup(cache Cache, config *MemoryCacheConfig) (stop func()) {
	memory, ok := cache.(*MemoryCache)
	if !ok {
		return func() {}
	}

	interval := time.Minute
	if config != nil && config.CleanupInterval != "" {
		if parsed, err := time.ParseDuration(config.CleanupInterval); err == nil && parsed > 0 {
			interval = parsed
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	go cleanupLoop(ctx, memory, interval)
	return cancel
}
