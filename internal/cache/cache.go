package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps a redis client and fails safe: any redis error behaves like a miss
// and is logged, never returned. A nil *Client is a valid no-op cache.
type Client struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	logger *slog.Logger
	onHit  func()
	onMiss func()
}

// Option configures the cache client
type Option func(*Client)

// WithLogger sets the logger for swallowed redis errors
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPrefix namespaces every key
func WithPrefix(prefix string) Option {
	return func(c *Client) {
		c.prefix = prefix
	}
}

// WithObserver registers hit and miss callbacks, typically metrics counters
func WithObserver(onHit, onMiss func()) Option {
	return func(c *Client) {
		c.onHit = onHit
		c.onMiss = onMiss
	}
}

// New creates a cache for the given redis address. The connection is lazy.
func New(addr, password string, db int, ttl time.Duration, opts ...Option) *Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		MaxRetries:   1,
	})
	return NewWithClient(rdb, ttl, opts...)
}

// NewWithClient wraps an existing redis client
func NewWithClient(rdb *redis.Client, ttl time.Duration, opts ...Option) *Client {
	c := &Client{rdb: rdb, ttl: ttl, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ping reports whether redis is reachable
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return errors.New("cache disabled")
	}
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

func (c *Client) key(k string) string {
	return c.prefix + k
}

// Get returns the raw value, or nil when missing or redis is unavailable
func (c *Client) Get(ctx context.Context, key string) []byte {
	if c == nil || c.rdb == nil {
		return nil
	}
	res, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache get failed", "key", key, "error", err)
		}
		c.miss()
		return nil
	}
	c.hit()
	return res
}

// Set stores value with the default TTL
func (c *Client) Set(ctx context.Context, key string, value []byte) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, c.key(key), value, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", "key", key, "error", err)
	}
}

// GetJSON decodes a cached value into dst and reports whether it was found
func (c *Client) GetJSON(ctx context.Context, key string, dst any) bool {
	raw := c.Get(ctx, key)
	if raw == nil {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warn("cache decode failed", "key", key, "error", err)
		return false
	}
	return true
}

// SetJSON encodes value and stores it
func (c *Client) SetJSON(ctx context.Context, key string, value any) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	c.Set(ctx, key, raw)
}

// Delete removes keys
func (c *Client) Delete(ctx context.Context, keys ...string) {
	if c == nil || c.rdb == nil || len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	if err := c.rdb.Del(ctx, full...).Err(); err != nil {
		c.logger.Warn("cache delete failed", "keys", keys, "error", err)
	}
}

// DeletePattern removes every key matching a glob pattern, using SCAN so redis is never blocked
func (c *Client) DeletePattern(ctx context.Context, pattern string) {
	if c == nil || c.rdb == nil {
		return
	}
	iter := c.rdb.Scan(ctx, 0, c.key(pattern), 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			c.del(ctx, batch)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("cache scan failed", "pattern", pattern, "error", err)
	}
	if len(batch) > 0 {
		c.del(ctx, batch)
	}
}

func (c *Client) del(ctx context.Context, keys []string) {
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache delete failed", "keys", len(keys), "error", err)
	}
}

// Close releases the connection pool
func (c *Client) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func (c *Client) hit() {
	if c.onHit != nil {
		c.onHit()
	}
}

func (c *Client) miss() {
	if c.onMiss != nil {
		c.onMiss()
	}
}
