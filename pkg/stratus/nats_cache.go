package stratus

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/stratus-io/stratus-go/internal/constants"
)

// DefaultNATSBucket is the KeyValue bucket used when none is configured.
const DefaultNATSBucket = "stratus_cache"

// NATSKVConfig configures the NATS JetStream KeyValue cache backend.
type NATSKVConfig struct {
	// URL is the NATS server to connect to. Ignored when Conn is set.
	URL string

	// Conn is an existing connection to reuse. The cache will not close it.
	Conn *nats.Conn

	// Bucket is the KeyValue bucket name, created if missing.
	Bucket string

	// TTL is the bucket-level entry lifetime enforced by the server, in
	// addition to the per-entry expiry the client checks.
	TTL time.Duration
}

// NATSKVCache is a Cache backed by a NATS JetStream KeyValue bucket, for
// sharing cached responses between processes. Entries carry their own
// expiry, so readers on other machines respect the original TTL even when
// clocks on the bucket differ.
type NATSKVCache struct {
	conn    *nats.Conn
	kv      jetstream.KeyValue
	ownConn bool
}

// NewNATSKVCache connects to NATS (unless a connection is supplied) and
// binds the configured bucket, creating it when absent.
func NewNATSKVCache(config *NATSKVConfig) (*NATSKVCache, error) {
	if config == nil {
		return nil, ErrNATSConfigRequired
	}

	bucket := config.Bucket
	if bucket == "" {
		bucket = DefaultNATSBucket
	}
	ttl := config.TTL
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}

	conn := config.Conn
	ownConn := false
	if conn == nil {
		url := config.URL
		if url == "" {
			url = nats.DefaultURL
		}
		var err error
		conn, err = nats.Connect(url,
			nats.Name("stratus-go cache"),
			nats.Timeout(constants.ShortHTTPTimeout),
		)
		if err != nil {
			return nil, fmt.Errorf("connecting to NATS: %w", err)
		}
		ownConn = true
	}

	js, err := jetstream.New(conn)
	if err != nil {
		if ownConn {
			conn.Close()
		}
		return nil, fmt.Errorf("creating JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.ShortHTTPTimeout)
	defer cancel()

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "stratus-go response cache",
		TTL:         ttl,
	})
	if err != nil {
		if ownConn {
			conn.Close()
		}
		return nil, fmt.Errorf("binding KV bucket %q: %w", bucket, err)
	}

	return &NATSKVCache{conn: conn, kv: kv, ownConn: ownConn}, nil
}

// encodeKey maps arbitrary cache keys onto the restricted NATS KV key
// alphabet.
func encodeKey(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key))
}

// Get implements Cache.
func (c *NATSKVCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	kvEntry, err := c.kv.Get(ctx, encodeKey(key))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
		}
		return nil, fmt.Errorf("reading KV entry: %w", err)
	}

	var entry CacheEntry
	if err := json.Unmarshal(kvEntry.Value(), &entry); err != nil {
		return nil, fmt.Errorf("decoding KV entry: %w", err)
	}
	if entry.Expired() {
		_ = c.kv.Delete(ctx, encodeKey(key))
		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}
	return &entry, nil
}

// Set implements Cache.
func (c *NATSKVCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	if len(entry.Data) > constants.MaxCacheValueSize {
		return fmt.Errorf("%w: %d bytes", ErrCacheEntryTooLarge, len(entry.Data))
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding KV entry: %w", err)
	}
	if _, err := c.kv.Put(ctx, encodeKey(key), payload); err != nil {
		return fmt.Errorf("writing KV entry: %w", err)
	}
	return nil
}

// Delete implements Cache.
func (c *NATSKVCache) Delete(ctx context.Context, key string) error {
	err := c.kv.Delete(ctx, encodeKey(key))
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("deleting KV entry: %w", err)
	}
	return nil
}

// Clear implements Cache by purging every key in the bucket.
func (c *NATSKVCache) Clear(ctx context.Context) error {
	keys, err := c.kv.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil
		}
		return fmt.Errorf("listing KV keys: %w", err)
	}
	for _, key := range keys {
		if err := c.kv.Purge(ctx, key); err != nil {
			return fmt.Errorf("purging KV entry: %w", err)
		}
	}
	return nil
}

// Has implements Cache.
func (c *NATSKVCache) Has(ctx context.Context, key string) bool {
	entry, err := c.Get(ctx, key)
	return err == nil && entry != nil
}

// Close releases the NATS connection if this cache opened it.
func (c *NATSKVCache) Close() {
	if c.ownConn && c.conn != nil {
		c.conn.Close()
	}
}
